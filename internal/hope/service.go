package hope

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/internal/premium"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// Service handles hope point business logic
type Service struct {
	repo       RepositoryInterface
	premiumSvc PremiumGranter
	now        func() time.Time
}

// NewService creates a new hope point service
func NewService(repo RepositoryInterface, premiumSvc PremiumGranter) *Service {
	return &Service{repo: repo, premiumSvc: premiumSvc, now: time.Now}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Award credits the point value of an event
func (s *Service) Award(ctx context.Context, profileID uuid.UUID, event string) (*Balance, error) {
	points := AwardFor(event)
	if points == 0 {
		return nil, common.NewInvalidInputError("unknown award event", nil)
	}
	return s.Add(ctx, profileID, points)
}

// Add credits points directly. Earning extends an unexpired balance's life
// only when none was set; a lapsed expiry restarts from now.
func (s *Service) Add(ctx context.Context, profileID uuid.UUID, points int) (*Balance, error) {
	balance, err := s.lazyExpire(ctx, profileID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiry := now.AddDate(0, ValidityMonths, 0)
	if balance.Expiry != nil && balance.Expiry.After(now) {
		expiry = *balance.Expiry
	}

	if err := s.repo.Credit(ctx, profileID, points, expiry); err != nil {
		return nil, common.NewInternalError(err)
	}
	return &Balance{Points: balance.Points + points, Expiry: &expiry}, nil
}

// GetBalance returns the balance, expiring it lazily first
func (s *Service) GetBalance(ctx context.Context, profileID uuid.UUID) (*Balance, error) {
	return s.lazyExpire(ctx, profileID)
}

// Redeem spends points on a reward
func (s *Service) Redeem(ctx context.Context, profileID uuid.UUID, reward string) (*Balance, error) {
	balance, err := s.lazyExpire(ctx, profileID)
	if err != nil {
		return nil, err
	}

	var cost int
	var spend func() (bool, error)
	now := s.now()

	switch reward {
	case RewardContactUnlock:
		cost = CostContactUnlock
		spend = func() (bool, error) { return s.repo.DebitForUnlock(ctx, profileID, cost) }
	case RewardVisibilityBoost:
		cost = CostVisibilityBoost
		spend = func() (bool, error) {
			return s.repo.DebitForBoost(ctx, profileID, cost, now.Add(BoostDuration))
		}
	case RewardMiniPremium:
		cost = CostMiniPremium
		spend = func() (bool, error) { return s.repo.Debit(ctx, profileID, cost) }
	default:
		return nil, common.NewInvalidInputError("unknown reward", nil)
	}

	if balance.Points < cost {
		return nil, common.NewInsufficientPointsError("not enough hope points")
	}

	ok, err := spend()
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if !ok {
		// A concurrent redemption won the balance
		return nil, common.NewInsufficientPointsError("not enough hope points")
	}

	if reward == RewardMiniPremium {
		if _, err := s.premiumSvc.Grant(ctx, profileID, 1, premium.SourceHopePoints); err != nil {
			// Refund the debit so a failed grant never costs points
			expiry := now.AddDate(0, ValidityMonths, 0)
			if balance.Expiry != nil {
				expiry = *balance.Expiry
			}
			if refundErr := s.repo.Credit(ctx, profileID, cost, expiry); refundErr != nil {
				logger.Error("hope point refund after failed grant failed",
					zap.String("profile_id", profileID.String()),
					zap.Int("points", cost),
					zap.Error(refundErr))
			}
			return nil, err
		}
	}

	balance.Points -= cost
	return balance, nil
}

// lazyExpire reads the balance and forfeits it when past its expiry. Expiry
// is enforced on read, not by a background sweep.
func (s *Service) lazyExpire(ctx context.Context, profileID uuid.UUID) (*Balance, error) {
	balance, err := s.repo.GetBalance(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("profile not found", err)
		}
		return nil, common.NewInternalError(err)
	}

	if balance.Expiry != nil && balance.Expiry.Before(s.now()) {
		if err := s.repo.Forfeit(ctx, profileID); err != nil {
			return nil, common.NewInternalError(err)
		}
		return &Balance{}, nil
	}
	return balance, nil
}
