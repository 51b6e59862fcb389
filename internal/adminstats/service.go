package adminstats

import (
	"context"
	"time"

	"github.com/subhvivah/matrimony/pkg/common"
)

// Service exposes the read-only console aggregates
type Service struct {
	repo RepositoryInterface
	now  func() time.Time
}

// NewService creates a new stats service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Summary returns the console landing-page overview
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	summary, err := s.repo.GetSummary(ctx, s.now())
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return summary, nil
}

// Revenue returns the settled payment rollup
func (s *Service) Revenue(ctx context.Context) (*Revenue, error) {
	revenue, err := s.repo.GetRevenue(ctx)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return revenue, nil
}

// Analytics returns the growth and engagement rollup
func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	analytics, err := s.repo.GetAnalytics(ctx, s.now())
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return analytics, nil
}
