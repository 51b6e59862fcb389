package interests

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/subhvivah/matrimony/internal/risk"
	"github.com/subhvivah/matrimony/pkg/common"
)

// Service handles interest business logic
type Service struct {
	repo    RepositoryInterface
	riskSvc RiskAdjuster
	now     func() time.Time
}

// NewService creates a new interest service
func NewService(repo RepositoryInterface, riskSvc RiskAdjuster) *Service {
	return &Service{repo: repo, riskSvc: riskSvc, now: time.Now}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Send records an interest and checks the sender's recent activity against
// the abuse windows. The interest itself always lands; the abuse checks
// punish the sender, they do not block the send.
func (s *Service) Send(ctx context.Context, from uuid.UUID, req *SendRequest) (*Interest, error) {
	if from == req.ToProfileID {
		return nil, common.NewInvalidInputError("cannot send an interest to yourself", nil)
	}

	blocked, err := s.repo.IsBlocked(ctx, req.ToProfileID, from)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if blocked {
		return nil, common.NewForbiddenError("this profile is not accepting your interests")
	}

	now := s.now()
	interest := &Interest{
		ID:            uuid.New(),
		FromProfileID: from,
		ToProfileID:   req.ToProfileID,
		Message:       req.Message,
		CreatedAt:     now,
	}
	if err := s.repo.Create(ctx, interest); err != nil {
		return nil, common.NewInternalError(err)
	}

	sent, err := s.repo.CountBySenderSince(ctx, from, now.Add(-BurstWindow))
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if sent > BurstLimit {
		if err := s.riskSvc.Adjust(ctx, from, risk.DeltaInterestRateHigh, risk.ReasonInterestRateHigh); err != nil {
			return nil, err
		}
	}

	if req.Message != "" {
		recipients, err := s.repo.CountDistinctRecipientsWithMessage(ctx, from, req.Message, now.Add(-ReuseWindow))
		if err != nil {
			return nil, common.NewInternalError(err)
		}
		if recipients >= ReuseRecipients {
			if err := s.riskSvc.Adjust(ctx, from, risk.DeltaSpamMessageReuse, risk.ReasonSpamMessageReuse); err != nil {
				return nil, err
			}
		}
	}
	return interest, nil
}

// BlockProfile stops further contact from a profile
func (s *Service) BlockProfile(ctx context.Context, blocker uuid.UUID, req *BlockRequest) error {
	if blocker == req.BlockedProfileID {
		return common.NewInvalidInputError("cannot block yourself", nil)
	}

	block := &Block{
		ID:               uuid.New(),
		BlockerProfileID: blocker,
		BlockedProfileID: req.BlockedProfileID,
		CreatedAt:        s.now(),
	}
	if err := s.repo.CreateBlock(ctx, block); err != nil {
		return common.NewInternalError(err)
	}
	return nil
}
