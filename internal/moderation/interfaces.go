package moderation

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for moderation repository operations
type RepositoryInterface interface {
	InsertQueueItem(ctx context.Context, item *QueueItem) error
	ListQueue(ctx context.Context, status string, limit, offset int) ([]*QueueItem, error)
	ResolveQueueItem(ctx context.Context, id uuid.UUID, resolvedBy string) error
	InsertReport(ctx context.Context, report *Report) error
	ListReports(ctx context.Context, status string, limit, offset int) ([]*Report, error)
	SetReportStatus(ctx context.Context, id uuid.UUID, status, resolvedBy string) error
}
