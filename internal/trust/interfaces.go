package trust

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for trust repository operations
type RepositoryInterface interface {
	GetInputs(ctx context.Context, profileID uuid.UUID) (*Inputs, error)
	SaveScore(ctx context.Context, profileID uuid.UUID, score int, at time.Time) error
	GetScore(ctx context.Context, profileID uuid.UUID) (int, error)
}
