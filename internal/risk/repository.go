package risk

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles risk data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new risk repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ApplyDelta adds delta to the risk score in a single statement so concurrent
// signals cannot lose updates. The cap is enforced in SQL.
func (r *Repository) ApplyDelta(ctx context.Context, profileID uuid.UUID, delta int) (int, error) {
	query := `
		UPDATE profiles
		SET risk_score = LEAST($3, risk_score + $2), updated_at = NOW()
		WHERE id = $1
		RETURNING risk_score
	`
	var newScore int
	err := r.db.QueryRow(ctx, query, profileID, delta, MaxRiskScore).Scan(&newScore)
	return newScore, err
}

// AppendFraudFlag records the signal reason, skipping duplicates
func (r *Repository) AppendFraudFlag(ctx context.Context, profileID uuid.UUID, flag string) error {
	query := `
		UPDATE profiles
		SET fraud_flags = array_append(fraud_flags, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(fraud_flags))
	`
	_, err := r.db.Exec(ctx, query, profileID, flag)
	return err
}

// Deactivate marks the profile inactive
func (r *Repository) Deactivate(ctx context.Context, profileID uuid.UUID) error {
	query := `UPDATE profiles SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, profileID)
	return err
}

// ForfeitHopePoints zeroes the hope balance and clears its expiry
func (r *Repository) ForfeitHopePoints(ctx context.Context, profileID uuid.UUID) error {
	query := `
		UPDATE profiles
		SET hope_points = 0, hope_points_expiry = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, profileID)
	return err
}

// ListFlagged returns profiles carrying fraud flags, highest risk first
func (r *Repository) ListFlagged(ctx context.Context, limit, offset int) ([]*FlaggedProfile, error) {
	query := `
		SELECT id, user_id, full_name, risk_score, fraud_flags, is_active,
		       verification_level, updated_at, created_at, last_ip,
		       device_fingerprint, verified_at
		FROM profiles
		WHERE array_length(fraud_flags, 1) > 0
		ORDER BY risk_score DESC, updated_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flagged []*FlaggedProfile
	for rows.Next() {
		var fp FlaggedProfile
		if err := rows.Scan(&fp.ID, &fp.UserID, &fp.FullName, &fp.RiskScore,
			&fp.FraudFlags, &fp.IsActive, &fp.VerificationLevel, &fp.UpdatedAt,
			&fp.CreatedAt, &fp.LastIP, &fp.DeviceFingerprint, &fp.VerifiedAt); err != nil {
			return nil, err
		}
		flagged = append(flagged, &fp)
	}
	return flagged, rows.Err()
}

// Reset clears the risk score and fraud flags
func (r *Repository) Reset(ctx context.Context, profileID uuid.UUID) error {
	query := `
		UPDATE profiles
		SET risk_score = 0, fraud_flags = '{}', updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, profileID)
	return err
}

// Reactivate marks the profile active again
func (r *Repository) Reactivate(ctx context.Context, profileID uuid.UUID) error {
	query := `UPDATE profiles SET is_active = TRUE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, profileID)
	return err
}
