package referrals

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

// Service handles referral business logic
type Service struct {
	repo       RepositoryInterface
	premiumSvc PremiumGranter
	trustSvc   TrustRecomputer
	now        func() time.Time
}

// NewService creates a new referral service
func NewService(repo RepositoryInterface, premiumSvc PremiumGranter, trustSvc TrustRecomputer) *Service {
	return &Service{repo: repo, premiumSvc: premiumSvc, trustSvc: trustSvc, now: time.Now}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record links a referred profile to its referrer. Recording the same pair
// twice is a no-op.
func (s *Service) Record(ctx context.Context, referrerID, referredID uuid.UUID) (*Referral, error) {
	if referrerID == referredID {
		return nil, common.NewInvalidInputError("cannot refer yourself", nil)
	}

	referral := &Referral{
		ID:                uuid.New(),
		ReferrerProfileID: referrerID,
		ReferredProfileID: referredID,
		Status:            StatusPending,
		CreatedAt:         s.now(),
	}
	inserted, err := s.repo.Insert(ctx, referral)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if !inserted {
		return referral, nil
	}

	if err := s.repo.IncrementReferralCount(ctx, referrerID); err != nil {
		return nil, common.NewInternalError(err)
	}
	if err := s.repo.SetReferredBy(ctx, referredID, referrerID); err != nil {
		return nil, common.NewInternalError(err)
	}
	return referral, nil
}

// Verify checks the referred profile against the anti-abuse criteria and, on
// success, counts it toward the referrer's bulk unlock
func (s *Service) Verify(ctx context.Context, req *VerifyRequest) (*Counts, error) {
	candidate, err := s.repo.GetCandidate(ctx, req.ReferredProfileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("referred profile not found", err)
		}
		return nil, common.NewInternalError(err)
	}

	// Identity collisions are hard failures, not just unmet criteria
	if candidate.PANDuplicates > 0 {
		return nil, common.NewDuplicateConflictError("referred profile shares a PAN with another profile")
	}
	if candidate.DeviceDuplicates > 0 {
		return nil, common.NewDuplicateConflictError("referred profile shares a device with another profile")
	}

	now := s.now()
	if now.Sub(candidate.CreatedAt) < MinAccountAge {
		return nil, common.NewCriteriaNotMetError("referred account is too new")
	}
	if !candidate.IsActive {
		return nil, common.NewCriteriaNotMetError("referred profile is not active")
	}
	if candidate.Completeness < MinCompleteness || !candidate.PhoneVerified {
		return nil, common.NewCriteriaNotMetError("referred profile is not established enough")
	}

	verified, err := s.repo.MarkVerified(ctx, req.ReferrerProfileID, req.ReferredProfileID, now)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if !verified {
		return nil, common.NewNotFoundError("no pending referral for this pair", nil)
	}

	if err := s.repo.IncrementVerifiedCount(ctx, req.ReferrerProfileID); err != nil {
		return nil, common.NewInternalError(err)
	}

	counts, err := s.repo.GetCounts(ctx, req.ReferrerProfileID)
	if err != nil {
		return nil, common.NewInternalError(err)
	}

	if counts.ReferralCount >= BulkUnlockReferrals && counts.VerifiedReferralCount >= BulkUnlockVerified {
		if _, err := s.premiumSvc.Grant(ctx, req.ReferrerProfileID, BulkUnlockMonths, premium.SourceReferrals); err != nil {
			return nil, err
		}
	}

	if _, err := s.trustSvc.Recompute(ctx, req.ReferrerProfileID); err != nil {
		logger.Error("trust recompute after referral verify failed",
			zap.String("profile_id", req.ReferrerProfileID.String()), zap.Error(err))
	}
	return counts, nil
}

// Counts returns a referrer's standing
func (s *Service) Counts(ctx context.Context, referrerID uuid.UUID) (*Counts, error) {
	counts, err := s.repo.GetCounts(ctx, referrerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("profile not found", err)
		}
		return nil, common.NewInternalError(err)
	}
	return counts, nil
}

// Stats returns the platform-wide referral summary
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	return stats, nil
}

// AdminGrant manually awards the referral premium term
func (s *Service) AdminGrant(ctx context.Context, profileID uuid.UUID) (time.Time, error) {
	return s.premiumSvc.Grant(ctx, profileID, BulkUnlockMonths, premium.SourceReferralsAdmin)
}
