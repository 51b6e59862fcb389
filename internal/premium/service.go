package premium

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/internal/audit"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// rewardClaimedStatus marks the one-time full-verification reward as used
const rewardClaimedStatus = "full_verification_granted"

// Service handles premium business logic
type Service struct {
	repo     RepositoryInterface
	trustSvc TrustRecomputer
	auditor  audit.Recorder
	now      func() time.Time
}

// NewService creates a new premium service
func NewService(repo RepositoryInterface, trustSvc TrustRecomputer, auditor audit.Recorder) *Service {
	return &Service{repo: repo, trustSvc: trustSvc, auditor: auditor, now: time.Now}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Grant extends premium by months from the later of today and the current
// expiry, so overlapping grants stack instead of overwriting. Every grant
// lands on the append-only ledger.
func (s *Service) Grant(ctx context.Context, profileID uuid.UUID, months int, source string) (time.Time, error) {
	if months <= 0 {
		return time.Time{}, common.NewInvalidInputError("months must be positive", nil)
	}

	state, err := s.repo.GetState(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, common.NewNotFoundError("profile not found", err)
		}
		return time.Time{}, common.NewInternalError(err)
	}

	now := s.now()
	base := now
	if state.Active && state.Expiry != nil && state.Expiry.After(now) {
		base = *state.Expiry
	}
	expiry := base.AddDate(0, months, 0)

	if err := s.repo.SetPremium(ctx, profileID, expiry); err != nil {
		return time.Time{}, common.NewInternalError(err)
	}

	grant := &Grant{
		ID:        uuid.New(),
		ProfileID: profileID,
		Source:    source,
		Months:    months,
		StartsAt:  base,
		ExpiresAt: expiry,
		CreatedAt: now,
	}
	if err := s.repo.InsertGrant(ctx, grant); err != nil {
		return time.Time{}, common.NewInternalError(err)
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:    "premium_granted",
		ProfileID: profileID.String(),
		Details: map[string]interface{}{
			"source": source,
			"months": months,
			"expiry": expiry.Format(time.RFC3339),
		},
	})

	if _, err := s.trustSvc.Recompute(ctx, profileID); err != nil {
		logger.Error("trust recompute after premium grant failed",
			zap.String("profile_id", profileID.String()), zap.Error(err))
	}
	return expiry, nil
}

// Revoke clears the premium flag and marks the ledger entries revoked. The
// stored expiry date is left in place as a record.
func (s *Service) Revoke(ctx context.Context, profileID uuid.UUID, reason, actorEmail string) error {
	if err := s.repo.ClearFlag(ctx, profileID); err != nil {
		return common.NewInternalError(err)
	}
	if err := s.repo.RevokeActiveGrants(ctx, profileID, reason); err != nil {
		return common.NewInternalError(err)
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "premium_revoked",
		ActorEmail: actorEmail,
		ProfileID:  profileID.String(),
		Details:    map[string]interface{}{"reason": reason},
	})
	return nil
}

// PurchasePaid buys a paid plan with an immediate (simulated) charge
func (s *Service) PurchasePaid(ctx context.Context, profileID uuid.UUID, plan string) (time.Time, error) {
	amount := PlanAmount(plan)
	if amount == 0 {
		return time.Time{}, common.NewInvalidInputError("unknown plan", nil)
	}

	now := s.now()
	payment := &Payment{
		ID:        uuid.New(),
		ProfileID: profileID,
		Plan:      plan,
		Amount:    amount,
		Method:    "card",
		Status:    PaymentPaid,
		TxnRef:    newTxnRef(),
		CreatedAt: now,
		PaidAt:    &now,
	}
	if err := s.repo.InsertPayment(ctx, payment); err != nil {
		return time.Time{}, common.NewInternalError(err)
	}
	return s.Grant(ctx, profileID, PaidTermMonths, SourcePaid)
}

// InitiateUPI opens a pending UPI payment and returns it with its
// transaction reference
func (s *Service) InitiateUPI(ctx context.Context, profileID uuid.UUID, plan string) (*Payment, error) {
	amount := PlanAmount(plan)
	if amount == 0 {
		return nil, common.NewInvalidInputError("unknown plan", nil)
	}

	payment := &Payment{
		ID:        uuid.New(),
		ProfileID: profileID,
		Plan:      plan,
		Amount:    amount,
		Method:    "upi",
		Status:    PaymentPending,
		TxnRef:    newTxnRef(),
		CreatedAt: s.now(),
	}
	if err := s.repo.InsertPayment(ctx, payment); err != nil {
		return nil, common.NewInternalError(err)
	}
	return payment, nil
}

// ConfirmUPI settles a pending UPI payment and grants the paid term. A
// reference that is unknown or already settled is rejected, so a confirm
// cannot double-grant.
func (s *Service) ConfirmUPI(ctx context.Context, txnRef string) (time.Time, error) {
	payment, err := s.repo.MarkPaymentPaid(ctx, txnRef, s.now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, common.NewNotFoundError("payment not found or already settled", err)
		}
		return time.Time{}, common.NewInternalError(err)
	}
	return s.Grant(ctx, payment.ProfileID, PaidTermMonths, SourcePaidUPI)
}

// GrantFullVerification awards the one-time month of premium for reaching
// full verification with a complete profile
func (s *Service) GrantFullVerification(ctx context.Context, profileID uuid.UUID) (time.Time, error) {
	state, err := s.repo.GetRewardState(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, common.NewNotFoundError("profile not found", err)
		}
		return time.Time{}, common.NewInternalError(err)
	}

	if state.SuccessRewardStatus != nil && *state.SuccessRewardStatus == rewardClaimedStatus {
		return time.Time{}, common.NewCriteriaNotMetError("reward already claimed")
	}
	if state.VerificationLevel < 4 || state.Completeness < 100 {
		return time.Time{}, common.NewCriteriaNotMetError("requires full verification and a complete profile")
	}

	expiry, err := s.Grant(ctx, profileID, 1, SourceFullVerification)
	if err != nil {
		return time.Time{}, err
	}
	if err := s.repo.SetSuccessRewardStatus(ctx, profileID, rewardClaimedStatus); err != nil {
		return time.Time{}, common.NewInternalError(err)
	}
	return expiry, nil
}

// Status returns the premium standing and ledger for a profile
func (s *Service) Status(ctx context.Context, profileID uuid.UUID) (*State, []*Grant, error) {
	state, err := s.repo.GetState(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, common.NewNotFoundError("profile not found", err)
		}
		return nil, nil, common.NewInternalError(err)
	}
	grants, err := s.repo.ListGrants(ctx, profileID)
	if err != nil {
		return nil, nil, common.NewInternalError(err)
	}
	return state, grants, nil
}

func newTxnRef() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("SV-%s", hex.EncodeToString(buf))
}
