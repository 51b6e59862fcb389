package interests

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for interest repository operations
type RepositoryInterface interface {
	Create(ctx context.Context, interest *Interest) error
	CountBySenderSince(ctx context.Context, from uuid.UUID, since time.Time) (int, error)
	CountDistinctRecipientsWithMessage(ctx context.Context, from uuid.UUID, message string, since time.Time) (int, error)
	IsBlocked(ctx context.Context, blocker, blocked uuid.UUID) (bool, error)
	CreateBlock(ctx context.Context, block *Block) error
}

// RiskAdjuster applies a risk delta with its engine side effects
type RiskAdjuster interface {
	Adjust(ctx context.Context, profileID uuid.UUID, delta int, reason string) error
}
