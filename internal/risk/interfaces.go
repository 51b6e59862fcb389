package risk

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for risk repository operations
type RepositoryInterface interface {
	// ApplyDelta atomically adds delta to the risk score, capped at
	// MaxRiskScore, and returns the new score.
	ApplyDelta(ctx context.Context, profileID uuid.UUID, delta int) (int, error)
	AppendFraudFlag(ctx context.Context, profileID uuid.UUID, flag string) error
	Deactivate(ctx context.Context, profileID uuid.UUID) error
	ForfeitHopePoints(ctx context.Context, profileID uuid.UUID) error
	ListFlagged(ctx context.Context, limit, offset int) ([]*FlaggedProfile, error)
	Reset(ctx context.Context, profileID uuid.UUID) error
	Reactivate(ctx context.Context, profileID uuid.UUID) error
}

// Enqueuer pushes flagged profiles onto the moderation queue
type Enqueuer interface {
	Enqueue(ctx context.Context, itemType string, profileID uuid.UUID, payload map[string]interface{}) error
}
