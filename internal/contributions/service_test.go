package contributions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/subhvivah/matrimony/internal/audit"
	"github.com/subhvivah/matrimony/internal/hope"
	"github.com/subhvivah/matrimony/internal/premium"
	"github.com/subhvivah/matrimony/pkg/common"
)

// ========================================
// MOCKS
// ========================================

type mockContributionsRepository struct {
	mock.Mock
}

func (m *mockContributionsRepository) Insert(ctx context.Context, contribution *Contribution) error {
	args := m.Called(ctx, contribution)
	return args.Error(0)
}

func (m *mockContributionsRepository) GetByID(ctx context.Context, id uuid.UUID) (*Contribution, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*Contribution)
	return c, args.Error(1)
}

func (m *mockContributionsRepository) SetStatus(ctx context.Context, id uuid.UUID, status, reviewedBy string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, status, reviewedBy, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockContributionsRepository) CountApprovedByHelper(ctx context.Context, helperID uuid.UUID) (int, error) {
	args := m.Called(ctx, helperID)
	return args.Int(0), args.Error(1)
}

func (m *mockContributionsRepository) MarkHelperRuralSupport(ctx context.Context, helperID uuid.UUID) error {
	args := m.Called(ctx, helperID)
	return args.Error(0)
}

func (m *mockContributionsRepository) List(ctx context.Context, status string, limit, offset int) ([]*Contribution, error) {
	args := m.Called(ctx, status, limit, offset)
	list, _ := args.Get(0).([]*Contribution)
	return list, args.Error(1)
}

type mockPointsAdder struct {
	mock.Mock
}

func (m *mockPointsAdder) Add(ctx context.Context, profileID uuid.UUID, points int) (*hope.Balance, error) {
	args := m.Called(ctx, profileID, points)
	b, _ := args.Get(0).(*hope.Balance)
	return b, args.Error(1)
}

type mockPremiumGranter struct {
	mock.Mock
}

func (m *mockPremiumGranter) Grant(ctx context.Context, profileID uuid.UUID, months int, source string) (time.Time, error) {
	args := m.Called(ctx, profileID, months, source)
	expiry, _ := args.Get(0).(time.Time)
	return expiry, args.Error(1)
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

type testDeps struct {
	repo    *mockContributionsRepository
	hopeSvc *mockPointsAdder
	granter *mockPremiumGranter
	trust   *mockTrustRecomputer
	auditor *mockAuditor
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		repo:    new(mockContributionsRepository),
		hopeSvc: new(mockPointsAdder),
		granter: new(mockPremiumGranter),
		trust:   new(mockTrustRecomputer),
		auditor: new(mockAuditor),
	}
	svc := NewService(deps.repo, deps.hopeSvc, deps.granter, deps.trust, deps.auditor).
		WithNow(func() time.Time { return fixedNow })
	return svc, deps
}

// ========================================
// TESTS
// ========================================

func TestSubmit(t *testing.T) {
	svc, deps := newTestService()

	helper, target := uuid.New(), uuid.New()
	deps.repo.On("Insert", mock.Anything, mock.MatchedBy(func(c *Contribution) bool {
		return c.HelperProfileID == helper && c.TargetProfileID == target &&
			c.Kind == "rural_help" && c.Status == StatusPending
	})).Return(nil)

	contribution, err := svc.Submit(context.Background(), helper, &SubmitRequest{
		TargetProfileID: target,
		Kind:            "rural_help",
		Description:     "helped set up profiles at the village camp",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, contribution.Status)
	assert.Equal(t, target, contribution.TargetProfileID)
}

func TestApprove_FirstApprovalPaysPointsOnly(t *testing.T) {
	svc, deps := newTestService()

	id, helper := uuid.New(), uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).
		Return(&Contribution{ID: id, HelperProfileID: helper, Status: StatusPending}, nil)
	deps.repo.On("SetStatus", mock.Anything, id, StatusApproved, "admin@subhvivah.in", fixedNow).Return(true, nil)
	deps.hopeSvc.On("Add", mock.Anything, helper, PointsPerApproval).Return(&hope.Balance{Points: 20}, nil)
	deps.repo.On("CountApprovedByHelper", mock.Anything, helper).Return(1, nil)
	deps.trust.On("Recompute", mock.Anything, helper).Return(0, nil)
	deps.auditor.On("Record", mock.Anything, mock.Anything).Return()

	contribution, err := svc.Approve(context.Background(), id, "admin@subhvivah.in")

	require.NoError(t, err)
	assert.Equal(t, StatusApproved, contribution.Status)
	deps.granter.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	deps.repo.AssertNotCalled(t, "MarkHelperRuralSupport", mock.Anything, mock.Anything)
}

func TestApprove_SecondApprovalEarnsPremium(t *testing.T) {
	svc, deps := newTestService()

	id, helper := uuid.New(), uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).
		Return(&Contribution{ID: id, HelperProfileID: helper, Status: StatusPending}, nil)
	deps.repo.On("SetStatus", mock.Anything, id, StatusApproved, "admin@subhvivah.in", fixedNow).Return(true, nil)
	deps.hopeSvc.On("Add", mock.Anything, helper, PointsPerApproval).Return(&hope.Balance{Points: 40}, nil)
	deps.repo.On("CountApprovedByHelper", mock.Anything, helper).Return(2, nil)
	deps.repo.On("MarkHelperRuralSupport", mock.Anything, helper).Return(nil)
	deps.granter.On("Grant", mock.Anything, helper, PremiumMonths, premium.SourceContribution).
		Return(fixedNow.AddDate(0, 3, 0), nil)
	deps.trust.On("Recompute", mock.Anything, helper).Return(0, nil)
	deps.auditor.On("Record", mock.Anything, mock.Anything).Return()

	_, err := svc.Approve(context.Background(), id, "admin@subhvivah.in")

	require.NoError(t, err)
	deps.granter.AssertExpectations(t)
	deps.repo.AssertCalled(t, "MarkHelperRuralSupport", mock.Anything, helper)
}

func TestApprove_AlreadyReviewed(t *testing.T) {
	svc, deps := newTestService()

	id, helper := uuid.New(), uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).
		Return(&Contribution{ID: id, HelperProfileID: helper, Status: StatusApproved}, nil)
	deps.repo.On("SetStatus", mock.Anything, id, StatusApproved, "", fixedNow).Return(false, nil)

	_, err := svc.Approve(context.Background(), id, "")

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeNotFound, appErr.Code)
	deps.hopeSvc.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestReject_NoPayout(t *testing.T) {
	svc, deps := newTestService()

	id, helper := uuid.New(), uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).
		Return(&Contribution{ID: id, HelperProfileID: helper, Status: StatusPending}, nil)
	deps.repo.On("SetStatus", mock.Anything, id, StatusRejected, "admin@subhvivah.in", fixedNow).Return(true, nil)
	deps.auditor.On("Record", mock.Anything, mock.Anything).Return()

	contribution, err := svc.Reject(context.Background(), id, "admin@subhvivah.in")

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, contribution.Status)
	deps.hopeSvc.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	deps.granter.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
