package referrals

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for referral repository operations
type RepositoryInterface interface {
	// Insert records a referral once; repeats are ignored and reported false
	Insert(ctx context.Context, referral *Referral) (bool, error)
	IncrementReferralCount(ctx context.Context, referrerID uuid.UUID) error
	SetReferredBy(ctx context.Context, referredID uuid.UUID, referrerID uuid.UUID) error
	GetCandidate(ctx context.Context, referredID uuid.UUID) (*Candidate, error)
	// MarkVerified transitions a pending referral; it reports false when no
	// pending referral exists for the pair
	MarkVerified(ctx context.Context, referrerID, referredID uuid.UUID, at time.Time) (bool, error)
	IncrementVerifiedCount(ctx context.Context, referrerID uuid.UUID) error
	GetCounts(ctx context.Context, referrerID uuid.UUID) (*Counts, error)
	GetStats(ctx context.Context) (*Stats, error)
}

// PremiumGranter extends a profile's premium term
type PremiumGranter interface {
	Grant(ctx context.Context, profileID uuid.UUID, months int, source string) (time.Time, error)
}

// TrustRecomputer refreshes a profile's trust score
type TrustRecomputer interface {
	Recompute(ctx context.Context, profileID uuid.UUID) (int, error)
}
