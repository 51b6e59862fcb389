package trust

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles trust score data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new trust repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetInputs gathers the scoring inputs for a profile in one round trip.
// Completeness is computed over the same tracked fields the profile service
// counts.
func (r *Repository) GetInputs(ctx context.Context, profileID uuid.UUID) (*Inputs, error) {
	query := `
		SELECT
			p.pan_hash IS NOT NULL,
			p.family_verified,
			(
				(p.full_name != '')::int + (p.gender != '')::int +
				(p.birth_date IS NOT NULL)::int +
				(COALESCE(p.height_cm, 0) > 0)::int +
				(p.city != '')::int + (p.state != '')::int +
				(p.education != '')::int + (p.occupation != '')::int +
				(p.annual_income != '')::int + (p.religion != '')::int +
				(p.mother_tongue != '')::int + (p.about_me != '')::int +
				(p.photo_url != '')::int + (p.community_id != '')::int
			) * 100 / 14,
			(SELECT COUNT(*) FROM contributions c
			 WHERE c.helper_profile_id = p.id AND c.status = 'approved'),
			p.verification_level,
			p.risk_score
		FROM profiles p
		WHERE p.id = $1
	`

	var in Inputs
	var contributions sql.NullInt64
	err := r.db.QueryRow(ctx, query, profileID).Scan(
		&in.PANVerified,
		&in.FamilyVerified,
		&in.ProfileCompleteness,
		&contributions,
		&in.VerificationLevel,
		&in.RiskScore,
	)
	if err != nil {
		return nil, err
	}
	in.ApprovedContributions = int(contributions.Int64)
	return &in, nil
}

// SaveScore persists a computed trust score
func (r *Repository) SaveScore(ctx context.Context, profileID uuid.UUID, score int, at time.Time) error {
	query := `UPDATE profiles SET trust_score = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, profileID, score, at)
	return err
}

// GetScore returns the stored trust score
func (r *Repository) GetScore(ctx context.Context, profileID uuid.UUID) (int, error) {
	var score int
	err := r.db.QueryRow(ctx, `SELECT trust_score FROM profiles WHERE id = $1`, profileID).Scan(&score)
	return score, err
}
