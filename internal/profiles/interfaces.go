package profiles

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for profile repository operations
type RepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	UpdateIdentity(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*Profile, error)
	SetDeviceFingerprint(ctx context.Context, id uuid.UUID, fingerprint, ip string) error
	CountOthersWithFingerprint(ctx context.Context, fingerprint string, excludeID uuid.UUID) (int, error)
	ListActive(ctx context.Context, limit, offset int) ([]*Profile, error)
	CountActive(ctx context.Context) (int64, error)
	// ScrubIdentifiers clears PAN hash/mask, device fingerprint and last IP
	// ahead of account deletion
	ScrubIdentifiers(ctx context.Context, id uuid.UUID) error
}

// RiskAdjuster applies a risk delta with its engine side effects
type RiskAdjuster interface {
	Adjust(ctx context.Context, profileID uuid.UUID, delta int, reason string) error
}

// ModerationEnqueuer pushes work onto the moderation queue
type ModerationEnqueuer interface {
	Enqueue(ctx context.Context, itemType string, profileID uuid.UUID, payload map[string]interface{}) error
}
