package risk

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// Service applies fraud signals and their consequences
type Service struct {
	repo      RepositoryInterface
	moderator Enqueuer
	now       func() time.Time
}

// NewService creates a new risk service
func NewService(repo RepositoryInterface, moderator Enqueuer) *Service {
	return &Service{repo: repo, moderator: moderator, now: time.Now}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Adjust raises the risk score by delta for the given reason and applies the
// engine consequences: deactivation and moderation review at the threshold,
// hope point forfeiture for high-severity signals. Safe to call repeatedly;
// the consequences are idempotent.
func (s *Service) Adjust(ctx context.Context, profileID uuid.UUID, delta int, reason string) error {
	newScore, err := s.repo.ApplyDelta(ctx, profileID, delta)
	if err != nil {
		return common.NewInternalError(err)
	}

	if err := s.repo.AppendFraudFlag(ctx, profileID, reason); err != nil {
		return common.NewInternalError(err)
	}

	logger.Warn("risk score adjusted",
		zap.String("profile_id", profileID.String()),
		zap.String("reason", reason),
		zap.Int("delta", delta),
		zap.Int("risk_score", newScore),
	)

	crossed := newScore >= DeactivationThreshold
	if crossed {
		if err := s.repo.Deactivate(ctx, profileID); err != nil {
			return common.NewInternalError(err)
		}
		payload := map[string]interface{}{
			"reason":     reason,
			"risk_score": newScore,
		}
		// Review is best effort; the deactivation already happened
		if err := s.moderator.Enqueue(ctx, moderationItemHighRisk, profileID, payload); err != nil {
			logger.Error("moderation enqueue failed",
				zap.String("profile_id", profileID.String()), zap.Error(err))
		}
	}

	if crossed || HighSeverity(reason) {
		if err := s.repo.ForfeitHopePoints(ctx, profileID); err != nil {
			return common.NewInternalError(err)
		}
	}
	return nil
}

// ListFlagged returns profiles carrying fraud flags for admin review
func (s *Service) ListFlagged(ctx context.Context, limit, offset int) ([]*FlaggedProfile, error) {
	flagged, err := s.repo.ListFlagged(ctx, limit, offset)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return flagged, nil
}

// Reset clears a profile's risk state and reactivates it, for admin use after
// a false positive
func (s *Service) Reset(ctx context.Context, profileID uuid.UUID) error {
	if err := s.repo.Reset(ctx, profileID); err != nil {
		return common.NewInternalError(err)
	}
	if err := s.repo.Reactivate(ctx, profileID); err != nil {
		return common.NewInternalError(err)
	}
	return nil
}
