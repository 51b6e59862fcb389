package hope

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for hope point repository operations
type RepositoryInterface interface {
	GetBalance(ctx context.Context, profileID uuid.UUID) (*Balance, error)
	// Credit adds points and sets the expiry in one statement
	Credit(ctx context.Context, profileID uuid.UUID, points int, expiry time.Time) error
	Forfeit(ctx context.Context, profileID uuid.UUID) error
	// Debit spends points; it returns false without changes when the balance
	// is short
	Debit(ctx context.Context, profileID uuid.UUID, cost int) (bool, error)
	// DebitForUnlock spends points and increments the unlock counter
	// atomically
	DebitForUnlock(ctx context.Context, profileID uuid.UUID, cost int) (bool, error)
	// DebitForBoost spends points and sets the visibility boost expiry
	// atomically
	DebitForBoost(ctx context.Context, profileID uuid.UUID, cost int, boostUntil time.Time) (bool, error)
}

// PremiumGranter extends a profile's premium term
type PremiumGranter interface {
	Grant(ctx context.Context, profileID uuid.UUID, months int, source string) (time.Time, error)
}
