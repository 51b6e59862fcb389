package contributions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/subhvivah/matrimony/internal/hope"
)

// RepositoryInterface defines the interface for contribution repository operations
type RepositoryInterface interface {
	Insert(ctx context.Context, contribution *Contribution) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contribution, error)
	// SetStatus transitions a pending contribution; it reports false when the
	// contribution was already reviewed
	SetStatus(ctx context.Context, id uuid.UUID, status, reviewedBy string, at time.Time) (bool, error)
	CountApprovedByHelper(ctx context.Context, helperID uuid.UUID) (int, error)
	MarkHelperRuralSupport(ctx context.Context, helperID uuid.UUID) error
	List(ctx context.Context, status string, limit, offset int) ([]*Contribution, error)
}

// PointsAdder credits hope points
type PointsAdder interface {
	Add(ctx context.Context, profileID uuid.UUID, points int) (*hope.Balance, error)
}

// PremiumGranter extends a profile's premium term
type PremiumGranter interface {
	Grant(ctx context.Context, profileID uuid.UUID, months int, source string) (time.Time, error)
}

// TrustRecomputer refreshes a profile's trust score
type TrustRecomputer interface {
	Recompute(ctx context.Context, profileID uuid.UUID) (int, error)
}
