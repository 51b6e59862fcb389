package contributions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles contribution data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new contribution repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert submits a contribution
func (r *Repository) Insert(ctx context.Context, contribution *Contribution) error {
	query := `
		INSERT INTO contributions (id, helper_profile_id, target_profile_id, kind, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		contribution.ID, contribution.HelperProfileID, contribution.TargetProfileID,
		contribution.Kind, contribution.Description, contribution.Status, contribution.CreatedAt)
	return err
}

// GetByID retrieves a contribution
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Contribution, error) {
	query := `
		SELECT id, helper_profile_id, target_profile_id, kind, description, status, created_at, reviewed_at, reviewed_by
		FROM contributions
		WHERE id = $1
	`
	var c Contribution
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.HelperProfileID, &c.TargetProfileID, &c.Kind, &c.Description,
		&c.Status, &c.CreatedAt, &c.ReviewedAt, &c.ReviewedBy)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SetStatus transitions a pending contribution
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status, reviewedBy string, at time.Time) (bool, error) {
	query := `
		UPDATE contributions
		SET status = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $1 AND status = $5
	`
	tag, err := r.db.Exec(ctx, query, id, status, reviewedBy, at, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CountApprovedByHelper counts a helper's approved contributions
func (r *Repository) CountApprovedByHelper(ctx context.Context, helperID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM contributions WHERE helper_profile_id = $1 AND status = $2`
	var count int
	err := r.db.QueryRow(ctx, query, helperID, StatusApproved).Scan(&count)
	return count, err
}

// MarkHelperRuralSupport tags the helper's profile
func (r *Repository) MarkHelperRuralSupport(ctx context.Context, helperID uuid.UUID) error {
	query := `UPDATE profiles SET contribution_type = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, helperID, RuralSupportType)
	return err
}

// List returns contributions filtered by status, oldest first
func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]*Contribution, error) {
	query := `
		SELECT id, helper_profile_id, target_profile_id, kind, description, status, created_at, reviewed_at, reviewed_by
		FROM contributions
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Contribution
	for rows.Next() {
		var c Contribution
		if err := rows.Scan(&c.ID, &c.HelperProfileID, &c.TargetProfileID, &c.Kind,
			&c.Description, &c.Status, &c.CreatedAt, &c.ReviewedAt, &c.ReviewedBy); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
