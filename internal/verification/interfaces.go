package verification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for verification repository operations
type RepositoryInterface interface {
	InsertCode(ctx context.Context, code *Code) error
	LatestCodeHash(ctx context.Context, profileID uuid.UUID, channel string, now time.Time) (string, error)
	SetPhone(ctx context.Context, profileID uuid.UUID, phone, ip string) error
	SetChannelVerified(ctx context.Context, profileID uuid.UUID, channel string) error
	GetFlags(ctx context.Context, profileID uuid.UUID) (*Flags, error)
	SetLevel(ctx context.Context, profileID uuid.UUID, level int, verifiedAt time.Time) error
	SetPAN(ctx context.Context, profileID uuid.UUID, hash, masked string) error
	CountPANHash(ctx context.Context, hash string, excludeID uuid.UUID) (int, error)
	SetSelfieVerified(ctx context.Context, profileID uuid.UUID) error
}

// RiskAdjuster applies a risk delta with its engine side effects
type RiskAdjuster interface {
	Adjust(ctx context.Context, profileID uuid.UUID, delta int, reason string) error
}

// TrustRecomputer refreshes a profile's trust score
type TrustRecomputer interface {
	Recompute(ctx context.Context, profileID uuid.UUID) (int, error)
}

// CodeSender delivers an OTP code to a phone number
type CodeSender interface {
	Send(ctx context.Context, phone, code string) error
}
