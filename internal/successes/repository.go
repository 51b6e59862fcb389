package successes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/subhvivah/matrimony/internal/profiles"
)

// Repository handles success data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new success repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert reports a success
func (r *Repository) Insert(ctx context.Context, success *Success) error {
	query := `
		INSERT INTO successes (id, profile1_id, profile2_id, status, granted_months, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		success.ID, success.Profile1ID, success.Profile2ID,
		success.Status, success.GrantedMonths, success.CreatedAt)
	return err
}

// GetByID retrieves a success record
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Success, error) {
	query := `
		SELECT id, profile1_id, profile2_id, status, granted_months, created_at, approved_at, married_at
		FROM successes
		WHERE id = $1
	`
	var s Success
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Profile1ID, &s.Profile2ID, &s.Status, &s.GrantedMonths,
		&s.CreatedAt, &s.ApprovedAt, &s.MarriedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Transition moves a success between statuses, stamping the milestone date
func (r *Repository) Transition(ctx context.Context, id uuid.UUID, from, to string, at time.Time) (bool, error) {
	query := `
		UPDATE successes
		SET status = $3,
		    approved_at = CASE WHEN $3 = 'approved' THEN $4 ELSE approved_at END,
		    married_at = CASE WHEN $3 = 'closed' THEN $4 ELSE married_at END
		WHERE id = $1 AND status = $2
	`
	tag, err := r.db.Exec(ctx, query, id, from, to, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetProfileSuccess records the milestone on the profile itself
func (r *Repository) SetProfileSuccess(ctx context.Context, profileID uuid.UUID, status string, at time.Time) error {
	var query string
	switch status {
	case string(profiles.SuccessMarried):
		query = `UPDATE profiles SET success_status = $2, marriage_date = $3, updated_at = NOW() WHERE id = $1`
	default:
		query = `UPDATE profiles SET success_status = $2, engagement_date = $3, updated_at = NOW() WHERE id = $1`
	}
	_, err := r.db.Exec(ctx, query, profileID, status, at)
	return err
}

// List returns successes filtered by status, oldest first
func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]*Success, error) {
	query := `
		SELECT id, profile1_id, profile2_id, status, granted_months, created_at, approved_at, married_at
		FROM successes
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Success
	for rows.Next() {
		var s Success
		if err := rows.Scan(&s.ID, &s.Profile1ID, &s.Profile2ID, &s.Status, &s.GrantedMonths,
			&s.CreatedAt, &s.ApprovedAt, &s.MarriedAt); err != nil {
			return nil, err
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
