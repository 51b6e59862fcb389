package adminstats

import (
	"context"
	"time"
)

// RepositoryInterface defines the interface for stats repository operations
type RepositoryInterface interface {
	GetSummary(ctx context.Context, now time.Time) (*Summary, error)
	GetRevenue(ctx context.Context) (*Revenue, error)
	GetAnalytics(ctx context.Context, now time.Time) (*Analytics, error)
}
