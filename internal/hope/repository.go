package hope

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles hope point data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new hope point repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetBalance reads the current balance
func (r *Repository) GetBalance(ctx context.Context, profileID uuid.UUID) (*Balance, error) {
	query := `SELECT hope_points, hope_points_expiry FROM profiles WHERE id = $1`
	var b Balance
	err := r.db.QueryRow(ctx, query, profileID).Scan(&b.Points, &b.Expiry)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Credit adds points and stores the expiry
func (r *Repository) Credit(ctx context.Context, profileID uuid.UUID, points int, expiry time.Time) error {
	query := `
		UPDATE profiles
		SET hope_points = hope_points + $2, hope_points_expiry = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, profileID, points, expiry)
	return err
}

// Forfeit zeroes the balance and clears the expiry
func (r *Repository) Forfeit(ctx context.Context, profileID uuid.UUID) error {
	query := `
		UPDATE profiles
		SET hope_points = 0, hope_points_expiry = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, profileID)
	return err
}

// Debit spends points when the balance covers the cost. The guard is in the
// WHERE clause so concurrent redemptions cannot overspend.
func (r *Repository) Debit(ctx context.Context, profileID uuid.UUID, cost int) (bool, error) {
	query := `
		UPDATE profiles
		SET hope_points = hope_points - $2, updated_at = NOW()
		WHERE id = $1 AND hope_points >= $2
	`
	tag, err := r.db.Exec(ctx, query, profileID, cost)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// DebitForUnlock spends points and counts the unlock in one statement
func (r *Repository) DebitForUnlock(ctx context.Context, profileID uuid.UUID, cost int) (bool, error) {
	query := `
		UPDATE profiles
		SET hope_points = hope_points - $2, contact_unlocks = contact_unlocks + 1, updated_at = NOW()
		WHERE id = $1 AND hope_points >= $2
	`
	tag, err := r.db.Exec(ctx, query, profileID, cost)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// DebitForBoost spends points and starts the visibility boost in one statement
func (r *Repository) DebitForBoost(ctx context.Context, profileID uuid.UUID, cost int, boostUntil time.Time) (bool, error) {
	query := `
		UPDATE profiles
		SET hope_points = hope_points - $2, visibility_boost_expiry = $3, updated_at = NOW()
		WHERE id = $1 AND hope_points >= $2
	`
	tag, err := r.db.Exec(ctx, query, profileID, cost, boostUntil)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
