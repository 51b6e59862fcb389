package premium

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for premium repository operations
type RepositoryInterface interface {
	GetState(ctx context.Context, profileID uuid.UUID) (*State, error)
	SetPremium(ctx context.Context, profileID uuid.UUID, expiry time.Time) error
	ClearFlag(ctx context.Context, profileID uuid.UUID) error
	InsertGrant(ctx context.Context, grant *Grant) error
	RevokeActiveGrants(ctx context.Context, profileID uuid.UUID, reason string) error
	ListGrants(ctx context.Context, profileID uuid.UUID) ([]*Grant, error)
	InsertPayment(ctx context.Context, payment *Payment) error
	MarkPaymentPaid(ctx context.Context, txnRef string, paidAt time.Time) (*Payment, error)
	GetRewardState(ctx context.Context, profileID uuid.UUID) (*RewardState, error)
	SetSuccessRewardStatus(ctx context.Context, profileID uuid.UUID, status string) error
}

// TrustRecomputer refreshes a profile's trust score
type TrustRecomputer interface {
	Recompute(ctx context.Context, profileID uuid.UUID) (int, error)
}
