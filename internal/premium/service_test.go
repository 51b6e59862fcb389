package premium

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/subhvivah/matrimony/internal/audit"
	"github.com/subhvivah/matrimony/pkg/common"
)

// ========================================
// MOCKS
// ========================================

type mockPremiumRepository struct {
	mock.Mock
}

func (m *mockPremiumRepository) GetState(ctx context.Context, profileID uuid.UUID) (*State, error) {
	args := m.Called(ctx, profileID)
	st, _ := args.Get(0).(*State)
	return st, args.Error(1)
}

func (m *mockPremiumRepository) SetPremium(ctx context.Context, profileID uuid.UUID, expiry time.Time) error {
	args := m.Called(ctx, profileID, expiry)
	return args.Error(0)
}

func (m *mockPremiumRepository) ClearFlag(ctx context.Context, profileID uuid.UUID) error {
	args := m.Called(ctx, profileID)
	return args.Error(0)
}

func (m *mockPremiumRepository) InsertGrant(ctx context.Context, grant *Grant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *mockPremiumRepository) RevokeActiveGrants(ctx context.Context, profileID uuid.UUID, reason string) error {
	args := m.Called(ctx, profileID, reason)
	return args.Error(0)
}

func (m *mockPremiumRepository) ListGrants(ctx context.Context, profileID uuid.UUID) ([]*Grant, error) {
	args := m.Called(ctx, profileID)
	grants, _ := args.Get(0).([]*Grant)
	return grants, args.Error(1)
}

func (m *mockPremiumRepository) InsertPayment(ctx context.Context, payment *Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPremiumRepository) MarkPaymentPaid(ctx context.Context, txnRef string, paidAt time.Time) (*Payment, error) {
	args := m.Called(ctx, txnRef, paidAt)
	p, _ := args.Get(0).(*Payment)
	return p, args.Error(1)
}

func (m *mockPremiumRepository) GetRewardState(ctx context.Context, profileID uuid.UUID) (*RewardState, error) {
	args := m.Called(ctx, profileID)
	st, _ := args.Get(0).(*RewardState)
	return st, args.Error(1)
}

func (m *mockPremiumRepository) SetSuccessRewardStatus(ctx context.Context, profileID uuid.UUID, status string) error {
	args := m.Called(ctx, profileID, status)
	return args.Error(0)
}

type mockTrustRecomputer struct {
	mock.Mock
}

func (m *mockTrustRecomputer) Recompute(ctx context.Context, profileID uuid.UUID) (int, error) {
	args := m.Called(ctx, profileID)
	return args.Int(0), args.Error(1)
}

type mockAuditor struct {
	mock.Mock
}

func (m *mockAuditor) Record(ctx context.Context, entry audit.Entry) {
	m.Called(ctx, entry)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockPremiumRepository) (*Service, *mockTrustRecomputer, *mockAuditor) {
	trust := new(mockTrustRecomputer)
	auditor := new(mockAuditor)
	svc := NewService(repo, trust, auditor).WithNow(func() time.Time { return fixedNow })
	return svc, trust, auditor
}

// ========================================
// TESTS
// ========================================

func TestGrant_NoActivePremiumStartsToday(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, trust, auditor := newTestService(repo)

	id := uuid.New()
	expected := fixedNow.AddDate(0, 3, 0)
	repo.On("GetState", mock.Anything, id).Return(&State{Active: false}, nil)
	repo.On("SetPremium", mock.Anything, id, expected).Return(nil)
	repo.On("InsertGrant", mock.Anything, mock.MatchedBy(func(g *Grant) bool {
		return g.ProfileID == id && g.Source == SourcePaid && g.Months == 3 &&
			g.StartsAt.Equal(fixedNow) && g.ExpiresAt.Equal(expected) && !g.Revoked
	})).Return(nil)
	auditor.On("Record", mock.Anything, mock.Anything).Return()
	trust.On("Recompute", mock.Anything, id).Return(0, nil)

	expiry, err := svc.Grant(context.Background(), id, 3, SourcePaid)

	require.NoError(t, err)
	// 2025-06-01 plus three months is 2025-09-01
	assert.Equal(t, time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC), expiry)
	repo.AssertExpectations(t)
}

func TestGrant_ActivePremiumStacksFromExpiry(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, trust, auditor := newTestService(repo)

	id := uuid.New()
	currentExpiry := fixedNow.AddDate(0, 2, 0)
	expected := currentExpiry.AddDate(0, 3, 0)
	repo.On("GetState", mock.Anything, id).Return(&State{Active: true, Expiry: &currentExpiry}, nil)
	repo.On("SetPremium", mock.Anything, id, expected).Return(nil)
	repo.On("InsertGrant", mock.Anything, mock.MatchedBy(func(g *Grant) bool {
		return g.StartsAt.Equal(currentExpiry) && g.ExpiresAt.Equal(expected)
	})).Return(nil)
	auditor.On("Record", mock.Anything, mock.Anything).Return()
	trust.On("Recompute", mock.Anything, id).Return(0, nil)

	expiry, err := svc.Grant(context.Background(), id, 3, SourceReferrals)

	require.NoError(t, err)
	assert.Equal(t, expected, expiry)
}

func TestGrant_LapsedPremiumStartsToday(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, trust, auditor := newTestService(repo)

	id := uuid.New()
	pastExpiry := fixedNow.AddDate(0, -1, 0)
	expected := fixedNow.AddDate(0, 1, 0)
	repo.On("GetState", mock.Anything, id).Return(&State{Active: true, Expiry: &pastExpiry}, nil)
	repo.On("SetPremium", mock.Anything, id, expected).Return(nil)
	repo.On("InsertGrant", mock.Anything, mock.Anything).Return(nil)
	auditor.On("Record", mock.Anything, mock.Anything).Return()
	trust.On("Recompute", mock.Anything, id).Return(0, nil)

	expiry, err := svc.Grant(context.Background(), id, 1, SourceHopePoints)

	require.NoError(t, err)
	assert.Equal(t, expected, expiry)
}

func TestGrant_RejectsNonPositiveMonths(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, _, _ := newTestService(repo)

	_, err := svc.Grant(context.Background(), uuid.New(), 0, SourcePaid)

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeInvalidInput, appErr.Code)
}

func TestRevoke_ClearsFlagAndMarksLedger(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, _, auditor := newTestService(repo)

	id := uuid.New()
	repo.On("ClearFlag", mock.Anything, id).Return(nil)
	repo.On("RevokeActiveGrants", mock.Anything, id, "fraud").Return(nil)
	auditor.On("Record", mock.Anything, mock.MatchedBy(func(e audit.Entry) bool {
		return e.Action == "premium_revoked" && e.ActorEmail == "admin@subhvivah.in"
	})).Return()

	err := svc.Revoke(context.Background(), id, "fraud", "admin@subhvivah.in")

	require.NoError(t, err)
	repo.AssertExpectations(t)
	auditor.AssertExpectations(t)
}

func TestPurchasePaid_RecordsPaymentAndGrants(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, trust, auditor := newTestService(repo)

	id := uuid.New()
	repo.On("InsertPayment", mock.Anything, mock.MatchedBy(func(p *Payment) bool {
		return p.ProfileID == id && p.Plan == PlanPro && p.Amount == PlanProAmount &&
			p.Status == PaymentPaid && p.TxnRef != ""
	})).Return(nil)
	repo.On("GetState", mock.Anything, id).Return(&State{}, nil)
	repo.On("SetPremium", mock.Anything, id, mock.Anything).Return(nil)
	repo.On("InsertGrant", mock.Anything, mock.MatchedBy(func(g *Grant) bool {
		return g.Source == SourcePaid && g.Months == PaidTermMonths
	})).Return(nil)
	auditor.On("Record", mock.Anything, mock.Anything).Return()
	trust.On("Recompute", mock.Anything, id).Return(0, nil)

	expiry, err := svc.PurchasePaid(context.Background(), id, PlanPro)

	require.NoError(t, err)
	assert.Equal(t, fixedNow.AddDate(0, 3, 0), expiry)
}

func TestPurchasePaid_UnknownPlan(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, _, _ := newTestService(repo)

	_, err := svc.PurchasePaid(context.Background(), uuid.New(), "platinum")

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeInvalidInput, appErr.Code)
	repo.AssertNotCalled(t, "InsertPayment", mock.Anything, mock.Anything)
}

func TestConfirmUPI_SettlesAndGrants(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, trust, auditor := newTestService(repo)

	id := uuid.New()
	repo.On("MarkPaymentPaid", mock.Anything, "SV-abc123", fixedNow).
		Return(&Payment{ID: uuid.New(), ProfileID: id, Status: PaymentPaid}, nil)
	repo.On("GetState", mock.Anything, id).Return(&State{}, nil)
	repo.On("SetPremium", mock.Anything, id, mock.Anything).Return(nil)
	repo.On("InsertGrant", mock.Anything, mock.MatchedBy(func(g *Grant) bool {
		return g.Source == SourcePaidUPI
	})).Return(nil)
	auditor.On("Record", mock.Anything, mock.Anything).Return()
	trust.On("Recompute", mock.Anything, id).Return(0, nil)

	_, err := svc.ConfirmUPI(context.Background(), "SV-abc123")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestConfirmUPI_AlreadySettled(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, _, _ := newTestService(repo)

	repo.On("MarkPaymentPaid", mock.Anything, "SV-abc123", fixedNow).Return(nil, pgx.ErrNoRows)

	_, err := svc.ConfirmUPI(context.Background(), "SV-abc123")

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeNotFound, appErr.Code)
	repo.AssertNotCalled(t, "InsertGrant", mock.Anything, mock.Anything)
}

func TestGrantFullVerification_CriteriaMet(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, trust, auditor := newTestService(repo)

	id := uuid.New()
	repo.On("GetRewardState", mock.Anything, id).
		Return(&RewardState{VerificationLevel: 4, Completeness: 100}, nil)
	repo.On("GetState", mock.Anything, id).Return(&State{}, nil)
	repo.On("SetPremium", mock.Anything, id, mock.Anything).Return(nil)
	repo.On("InsertGrant", mock.Anything, mock.MatchedBy(func(g *Grant) bool {
		return g.Source == SourceFullVerification && g.Months == 1
	})).Return(nil)
	repo.On("SetSuccessRewardStatus", mock.Anything, id, "full_verification_granted").Return(nil)
	auditor.On("Record", mock.Anything, mock.Anything).Return()
	trust.On("Recompute", mock.Anything, id).Return(0, nil)

	_, err := svc.GrantFullVerification(context.Background(), id)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGrantFullVerification_CriteriaNotMet(t *testing.T) {
	tests := []struct {
		name  string
		state RewardState
	}{
		{"level too low", RewardState{VerificationLevel: 3, Completeness: 100}},
		{"profile incomplete", RewardState{VerificationLevel: 4, Completeness: 92}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockPremiumRepository)
			svc, _, _ := newTestService(repo)

			id := uuid.New()
			repo.On("GetRewardState", mock.Anything, id).Return(&tt.state, nil)

			_, err := svc.GrantFullVerification(context.Background(), id)

			appErr, ok := common.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, common.CodeCriteriaNotMet, appErr.Code)
			repo.AssertNotCalled(t, "InsertGrant", mock.Anything, mock.Anything)
		})
	}
}

func TestGrantFullVerification_AlreadyClaimed(t *testing.T) {
	repo := new(mockPremiumRepository)
	svc, _, _ := newTestService(repo)

	id := uuid.New()
	claimed := "full_verification_granted"
	repo.On("GetRewardState", mock.Anything, id).
		Return(&RewardState{VerificationLevel: 4, Completeness: 100, SuccessRewardStatus: &claimed}, nil)

	_, err := svc.GrantFullVerification(context.Background(), id)

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeCriteriaNotMet, appErr.Code)
}
