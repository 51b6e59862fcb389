package interests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles interest data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new interest repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create records a new interest
func (r *Repository) Create(ctx context.Context, interest *Interest) error {
	query := `
		INSERT INTO interests (id, from_profile_id, to_profile_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		interest.ID, interest.FromProfileID, interest.ToProfileID,
		interest.Message, interest.CreatedAt)
	return err
}

// CountBySenderSince counts interests sent by a profile since a point in time
func (r *Repository) CountBySenderSince(ctx context.Context, from uuid.UUID, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM interests WHERE from_profile_id = $1 AND created_at >= $2`
	var count int
	err := r.db.QueryRow(ctx, query, from, since).Scan(&count)
	return count, err
}

// CountDistinctRecipientsWithMessage counts distinct recipients of the same
// message text from one sender since a point in time
func (r *Repository) CountDistinctRecipientsWithMessage(ctx context.Context, from uuid.UUID, message string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT to_profile_id)
		FROM interests
		WHERE from_profile_id = $1 AND message = $2 AND created_at >= $3
	`
	var count int
	err := r.db.QueryRow(ctx, query, from, message, since).Scan(&count)
	return count, err
}

// IsBlocked reports whether blocker has blocked blocked
func (r *Repository) IsBlocked(ctx context.Context, blocker, blocked uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM blocked_profiles
			WHERE blocker_profile_id = $1 AND blocked_profile_id = $2
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, blocker, blocked).Scan(&exists)
	return exists, err
}

// CreateBlock records a block, idempotently
func (r *Repository) CreateBlock(ctx context.Context, block *Block) error {
	query := `
		INSERT INTO blocked_profiles (id, blocker_profile_id, blocked_profile_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (blocker_profile_id, blocked_profile_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		block.ID, block.BlockerProfileID, block.BlockedProfileID, block.CreatedAt)
	return err
}
