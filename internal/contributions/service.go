package contributions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/internal/audit"
	"github.com/subhvivah/matrimony/internal/premium"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// Service handles contribution business logic
type Service struct {
	repo       RepositoryInterface
	hopeSvc    PointsAdder
	premiumSvc PremiumGranter
	trustSvc   TrustRecomputer
	auditor    audit.Recorder
	now        func() time.Time
}

// NewService creates a new contribution service
func NewService(repo RepositoryInterface, hopeSvc PointsAdder, premiumSvc PremiumGranter,
	trustSvc TrustRecomputer, auditor audit.Recorder) *Service {
	return &Service{
		repo:       repo,
		hopeSvc:    hopeSvc,
		premiumSvc: premiumSvc,
		trustSvc:   trustSvc,
		auditor:    auditor,
		now:        time.Now,
	}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit files a contribution for review
func (s *Service) Submit(ctx context.Context, helperID uuid.UUID, req *SubmitRequest) (*Contribution, error) {
	contribution := &Contribution{
		ID:              uuid.New(),
		HelperProfileID: helperID,
		TargetProfileID: req.TargetProfileID,
		Kind:            req.Kind,
		Description:     req.Description,
		Status:          StatusPending,
		CreatedAt:       s.now(),
	}
	if err := s.repo.Insert(ctx, contribution); err != nil {
		return nil, common.NewInternalError(err)
	}
	return contribution, nil
}

// List returns contributions filtered by status
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Contribution, error) {
	if status == "" {
		status = StatusPending
	}
	list, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return list, nil
}

// Approve accepts a pending contribution and pays out its rewards: hope
// points per approval, and a premium term once the helper reaches the
// approval threshold
func (s *Service) Approve(ctx context.Context, id uuid.UUID, reviewerEmail string) (*Contribution, error) {
	contribution, err := s.getPending(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	transitioned, err := s.repo.SetStatus(ctx, id, StatusApproved, reviewerEmail, now)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if !transitioned {
		return nil, common.NewNotFoundError("contribution already reviewed", nil)
	}
	contribution.Status = StatusApproved
	contribution.ReviewedAt = &now
	contribution.ReviewedBy = &reviewerEmail

	helperID := contribution.HelperProfileID
	if _, err := s.hopeSvc.Add(ctx, helperID, PointsPerApproval); err != nil {
		return nil, err
	}

	approved, err := s.repo.CountApprovedByHelper(ctx, helperID)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if approved >= PremiumAtApprovals {
		if err := s.repo.MarkHelperRuralSupport(ctx, helperID); err != nil {
			return nil, common.NewInternalError(err)
		}
		if _, err := s.premiumSvc.Grant(ctx, helperID, PremiumMonths, premium.SourceContribution); err != nil {
			return nil, err
		}
	}

	if _, err := s.trustSvc.Recompute(ctx, helperID); err != nil {
		logger.Error("trust recompute after contribution approval failed",
			zap.String("profile_id", helperID.String()), zap.Error(err))
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "contribution_approved",
		ActorEmail: reviewerEmail,
		ProfileID:  helperID.String(),
		Details:    map[string]interface{}{"contribution_id": id.String(), "approved_total": approved},
	})
	return contribution, nil
}

// Reject declines a pending contribution with no payout
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reviewerEmail string) (*Contribution, error) {
	contribution, err := s.getPending(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	transitioned, err := s.repo.SetStatus(ctx, id, StatusRejected, reviewerEmail, now)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if !transitioned {
		return nil, common.NewNotFoundError("contribution already reviewed", nil)
	}
	contribution.Status = StatusRejected
	contribution.ReviewedAt = &now
	contribution.ReviewedBy = &reviewerEmail

	s.auditor.Record(ctx, audit.Entry{
		Action:     "contribution_rejected",
		ActorEmail: reviewerEmail,
		ProfileID:  contribution.HelperProfileID.String(),
		Details:    map[string]interface{}{"contribution_id": id.String()},
	})
	return contribution, nil
}

func (s *Service) getPending(ctx context.Context, id uuid.UUID) (*Contribution, error) {
	contribution, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("contribution not found", err)
		}
		return nil, common.NewInternalError(err)
	}
	return contribution, nil
}
