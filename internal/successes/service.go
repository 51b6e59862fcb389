package successes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/internal/audit"
	"github.com/subhvivah/matrimony/internal/hope"
	"github.com/subhvivah/matrimony/internal/premium"
	"github.com/subhvivah/matrimony/internal/profiles"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// Service handles success milestone business logic
type Service struct {
	repo       RepositoryInterface
	premiumSvc PremiumGranter
	hopeSvc    PointsAdder
	trustSvc   TrustRecomputer
	auditor    audit.Recorder
	now        func() time.Time
}

// NewService creates a new success service
func NewService(repo RepositoryInterface, premiumSvc PremiumGranter, hopeSvc PointsAdder,
	trustSvc TrustRecomputer, auditor audit.Recorder) *Service {
	return &Service{
		repo:       repo,
		premiumSvc: premiumSvc,
		hopeSvc:    hopeSvc,
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

// Report files a pending success between the reporter and a partner
func (s *Service) Report(ctx context.Context, reporterID, partnerID uuid.UUID) (*Success, error) {
	if reporterID == partnerID {
		return nil, common.NewInvalidInputError("cannot report a success with yourself", nil)
	}
	success := &Success{
		ID:            uuid.New(),
		Profile1ID:    reporterID,
		Profile2ID:    partnerID,
		Status:        StatusPending,
		GrantedMonths: DefaultGrantMonths,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Insert(ctx, success); err != nil {
		return nil, common.NewInternalError(err)
	}
	return success, nil
}

// Approve confirms a pending success: both parties become engaged, receive
// the premium term and the engagement hope points
func (s *Service) Approve(ctx context.Context, id uuid.UUID, reviewerEmail string) (*Success, error) {
	success, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	transitioned, err := s.repo.Transition(ctx, id, StatusPending, StatusApproved, now)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if !transitioned {
		return nil, common.NewNotFoundError("no pending success to approve", nil)
	}
	success.Status = StatusApproved
	success.ApprovedAt = &now

	months := success.GrantedMonths
	if months <= 0 {
		months = DefaultGrantMonths
	}
	for _, profileID := range []uuid.UUID{success.Profile1ID, success.Profile2ID} {
		if err := s.repo.SetProfileSuccess(ctx, profileID, string(profiles.SuccessEngaged), now); err != nil {
			return nil, common.NewInternalError(err)
		}
		if _, err := s.premiumSvc.Grant(ctx, profileID, months, premium.SourceSuccessReward); err != nil {
			return nil, err
		}
		if _, err := s.hopeSvc.Add(ctx, profileID, hope.AwardFor(hope.EventEngagement)); err != nil {
			return nil, err
		}
		if _, err := s.trustSvc.Recompute(ctx, profileID); err != nil {
			logger.Error("trust recompute after success approval failed",
				zap.String("profile_id", profileID.String()), zap.Error(err))
		}
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "success_approved",
		ActorEmail: reviewerEmail,
		ProfileID:  success.Profile1ID.String(),
		Details: map[string]interface{}{
			"success_id":     id.String(),
			"partner_id":     success.Profile2ID.String(),
			"granted_months": months,
		},
	})
	return success, nil
}

// MarkMarried closes an approved success and records the marriage on both
// profiles. The transition is forward only
func (s *Service) MarkMarried(ctx context.Context, id uuid.UUID, reviewerEmail string) (*Success, error) {
	success, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	transitioned, err := s.repo.Transition(ctx, id, StatusApproved, StatusClosed, now)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if !transitioned {
		return nil, common.NewNotFoundError("no approved success to close", nil)
	}
	success.Status = StatusClosed
	success.MarriedAt = &now

	for _, profileID := range []uuid.UUID{success.Profile1ID, success.Profile2ID} {
		if err := s.repo.SetProfileSuccess(ctx, profileID, string(profiles.SuccessMarried), now); err != nil {
			return nil, common.NewInternalError(err)
		}
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "success_married",
		ActorEmail: reviewerEmail,
		ProfileID:  success.Profile1ID.String(),
		Details: map[string]interface{}{
			"success_id": id.String(),
			"partner_id": success.Profile2ID.String(),
		},
	})
	return success, nil
}

// List returns success records filtered by status
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Success, error) {
	if status == "" {
		status = StatusPending
	}
	list, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return list, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*Success, error) {
	success, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("success not found", err)
		}
		return nil, common.NewInternalError(err)
	}
	return success, nil
}
