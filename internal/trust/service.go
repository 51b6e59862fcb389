package trust

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// Service recomputes and serves trust scores
type Service struct {
	repo RepositoryInterface
	now  func() time.Time
}

// NewService creates a new trust service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Recompute recalculates and stores the trust score for a profile, returning
// the new score
func (s *Service) Recompute(ctx context.Context, profileID uuid.UUID) (int, error) {
	in, err := s.repo.GetInputs(ctx, profileID)
	if err != nil {
		return 0, common.NewInternalError(err)
	}

	score := Calculate(*in)
	if err := s.repo.SaveScore(ctx, profileID, score, s.now()); err != nil {
		return 0, common.NewInternalError(err)
	}

	logger.Debug("trust score recomputed",
		zap.String("profile_id", profileID.String()), zap.Int("score", score))
	return score, nil
}

// Get returns the stored trust score for a profile
func (s *Service) Get(ctx context.Context, profileID uuid.UUID) (int, error) {
	score, err := s.repo.GetScore(ctx, profileID)
	if err != nil {
		return 0, common.NewInternalError(err)
	}
	return score, nil
}
