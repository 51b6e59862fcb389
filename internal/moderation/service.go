package moderation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/subhvivah/matrimony/pkg/common"
)

// Service handles moderation business logic
type Service struct {
	repo RepositoryInterface
	now  func() time.Time
}

// NewService creates a new moderation service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Enqueue adds an item to the moderation queue
func (s *Service) Enqueue(ctx context.Context, itemType string, profileID uuid.UUID, payload map[string]interface{}) error {
	item := &QueueItem{
		ID:        uuid.New(),
		ItemType:  itemType,
		ProfileID: profileID,
		Payload:   payload,
		Status:    ItemPending,
		CreatedAt: s.now(),
	}
	if err := s.repo.InsertQueueItem(ctx, item); err != nil {
		return common.NewInternalError(err)
	}
	return nil
}

// ListQueue returns pending or resolved queue items
func (s *Service) ListQueue(ctx context.Context, status string, limit, offset int) ([]*QueueItem, error) {
	if status == "" {
		status = ItemPending
	}
	items, err := s.repo.ListQueue(ctx, status, limit, offset)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return items, nil
}

// ResolveQueueItem marks a queue item handled
func (s *Service) ResolveQueueItem(ctx context.Context, id uuid.UUID, resolvedBy string) error {
	err := s.repo.ResolveQueueItem(ctx, id, resolvedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewNotFoundError("queue item not found or already resolved", err)
		}
		return common.NewInternalError(err)
	}
	return nil
}

// SubmitReport files a report against a profile and mirrors it onto the queue
func (s *Service) SubmitReport(ctx context.Context, reporterID uuid.UUID, req *SubmitReportRequest) (*Report, error) {
	if reporterID == req.ReportedProfileID {
		return nil, common.NewInvalidInputError("cannot report your own profile", nil)
	}

	report := &Report{
		ID:                uuid.New(),
		ReporterProfileID: reporterID,
		ReportedProfileID: req.ReportedProfileID,
		Reason:            req.Reason,
		Details:           req.Details,
		Status:            ReportOpen,
		CreatedAt:         s.now(),
	}
	if err := s.repo.InsertReport(ctx, report); err != nil {
		return nil, common.NewInternalError(err)
	}

	payload := map[string]interface{}{
		"report_id": report.ID.String(),
		"reason":    report.Reason,
	}
	if err := s.Enqueue(ctx, ItemUserReport, req.ReportedProfileID, payload); err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports returns reports filtered by status
func (s *Service) ListReports(ctx context.Context, status string, limit, offset int) ([]*Report, error) {
	if status == "" {
		status = ReportOpen
	}
	reports, err := s.repo.ListReports(ctx, status, limit, offset)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return reports, nil
}

// ResolveReport closes an open report as actioned
func (s *Service) ResolveReport(ctx context.Context, id uuid.UUID, resolvedBy string) error {
	return s.setReportStatus(ctx, id, ReportResolved, resolvedBy)
}

// RejectReport closes an open report without action
func (s *Service) RejectReport(ctx context.Context, id uuid.UUID, resolvedBy string) error {
	return s.setReportStatus(ctx, id, ReportRejected, resolvedBy)
}

func (s *Service) setReportStatus(ctx context.Context, id uuid.UUID, status, resolvedBy string) error {
	err := s.repo.SetReportStatus(ctx, id, status, resolvedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewNotFoundError("report not found or already closed", err)
		}
		return common.NewInternalError(err)
	}
	return nil
}
