package successes

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/subhvivah/matrimony/internal/hope"
)

// RepositoryInterface defines the interface for success repository operations
type RepositoryInterface interface {
	Insert(ctx context.Context, success *Success) error
	GetByID(ctx context.Context, id uuid.UUID) (*Success, error)
	// Transition moves a success from one status to the next; it reports false
	// when the record was not in the expected status
	Transition(ctx context.Context, id uuid.UUID, from, to string, at time.Time) (bool, error)
	SetProfileSuccess(ctx context.Context, profileID uuid.UUID, status string, at time.Time) error
	List(ctx context.Context, status string, limit, offset int) ([]*Success, error)
}

// PremiumGranter extends a profile's premium term
type PremiumGranter interface {
	Grant(ctx context.Context, profileID uuid.UUID, months int, source string) (time.Time, error)
}

// PointsAdder credits hope points
type PointsAdder interface {
	Add(ctx context.Context, profileID uuid.UUID, points int) (*hope.Balance, error)
}

// TrustRecomputer refreshes a profile's trust score
type TrustRecomputer interface {
	Recompute(ctx context.Context, profileID uuid.UUID) (int, error)
}
