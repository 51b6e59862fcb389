package hope

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/subhvivah/matrimony/internal/premium"
	"github.com/subhvivah/matrimony/pkg/common"
)

// ========================================
// MOCKS
// ========================================

type mockHopeRepository struct {
	mock.Mock
}

func (m *mockHopeRepository) GetBalance(ctx context.Context, profileID uuid.UUID) (*Balance, error) {
	args := m.Called(ctx, profileID)
	b, _ := args.Get(0).(*Balance)
	return b, args.Error(1)
}

func (m *mockHopeRepository) Credit(ctx context.Context, profileID uuid.UUID, points int, expiry time.Time) error {
	args := m.Called(ctx, profileID, points, expiry)
	return args.Error(0)
}

func (m *mockHopeRepository) Forfeit(ctx context.Context, profileID uuid.UUID) error {
	args := m.Called(ctx, profileID)
	return args.Error(0)
}

func (m *mockHopeRepository) Debit(ctx context.Context, profileID uuid.UUID, cost int) (bool, error) {
	args := m.Called(ctx, profileID, cost)
	return args.Bool(0), args.Error(1)
}

func (m *mockHopeRepository) DebitForUnlock(ctx context.Context, profileID uuid.UUID, cost int) (bool, error) {
	args := m.Called(ctx, profileID, cost)
	return args.Bool(0), args.Error(1)
}

func (m *mockHopeRepository) DebitForBoost(ctx context.Context, profileID uuid.UUID, cost int, boostUntil time.Time) (bool, error) {
	args := m.Called(ctx, profileID, cost, boostUntil)
	return args.Bool(0), args.Error(1)
}

type mockPremiumGranter struct {
	mock.Mock
}

func (m *mockPremiumGranter) Grant(ctx context.Context, profileID uuid.UUID, months int, source string) (time.Time, error) {
	args := m.Called(ctx, profileID, months, source)
	expiry, _ := args.Get(0).(time.Time)
	return expiry, args.Error(1)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockHopeRepository, granter *mockPremiumGranter) *Service {
	return NewService(repo, granter).WithNow(func() time.Time { return fixedNow })
}

// ========================================
// TESTS
// ========================================

func TestAwardFor(t *testing.T) {
	assert.Equal(t, 5, AwardFor(EventProfileUpdate))
	assert.Equal(t, 10, AwardFor(EventProfileComplete))
	assert.Equal(t, 15, AwardFor(EventAttend))
	assert.Equal(t, 15, AwardFor(EventCounseling))
	assert.Equal(t, 20, AwardFor(EventRuralHelp))
	assert.Equal(t, 50, AwardFor(EventEngagement))
	assert.Equal(t, 0, AwardFor("unknown"))
}

func TestAward_FreshBalanceGetsTwelveMonthExpiry(t *testing.T) {
	repo := new(mockHopeRepository)
	svc := newTestService(repo, new(mockPremiumGranter))

	id := uuid.New()
	expectedExpiry := fixedNow.AddDate(0, ValidityMonths, 0)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 0}, nil)
	repo.On("Credit", mock.Anything, id, 15, expectedExpiry).Return(nil)

	balance, err := svc.Award(context.Background(), id, EventAttend)

	require.NoError(t, err)
	assert.Equal(t, 15, balance.Points)
	assert.Equal(t, expectedExpiry, *balance.Expiry)
}

func TestAward_FutureExpiryIsKept(t *testing.T) {
	repo := new(mockHopeRepository)
	svc := newTestService(repo, new(mockPremiumGranter))

	id := uuid.New()
	existing := fixedNow.AddDate(0, 3, 0)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 40, Expiry: &existing}, nil)
	repo.On("Credit", mock.Anything, id, 5, existing).Return(nil)

	balance, err := svc.Award(context.Background(), id, EventProfileUpdate)

	require.NoError(t, err)
	assert.Equal(t, 45, balance.Points)
	assert.Equal(t, existing, *balance.Expiry)
}

func TestAward_LapsedBalanceForfeitsFirst(t *testing.T) {
	repo := new(mockHopeRepository)
	svc := newTestService(repo, new(mockPremiumGranter))

	id := uuid.New()
	lapsed := fixedNow.AddDate(0, -1, 0)
	freshExpiry := fixedNow.AddDate(0, ValidityMonths, 0)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 80, Expiry: &lapsed}, nil)
	repo.On("Forfeit", mock.Anything, id).Return(nil)
	repo.On("Credit", mock.Anything, id, 10, freshExpiry).Return(nil)

	balance, err := svc.Award(context.Background(), id, EventProfileComplete)

	require.NoError(t, err)
	// The stale 80 points are gone, only the new credit remains
	assert.Equal(t, 10, balance.Points)
	repo.AssertCalled(t, "Forfeit", mock.Anything, id)
}

func TestAward_UnknownEvent(t *testing.T) {
	svc := newTestService(new(mockHopeRepository), new(mockPremiumGranter))

	_, err := svc.Award(context.Background(), uuid.New(), "birthday")

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeInvalidInput, appErr.Code)
}

func TestGetBalance_LazyExpiry(t *testing.T) {
	repo := new(mockHopeRepository)
	svc := newTestService(repo, new(mockPremiumGranter))

	id := uuid.New()
	lapsed := fixedNow.Add(-time.Hour)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 120, Expiry: &lapsed}, nil)
	repo.On("Forfeit", mock.Anything, id).Return(nil)

	balance, err := svc.GetBalance(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, 0, balance.Points)
	assert.Nil(t, balance.Expiry)
}

func TestRedeem_ContactUnlock(t *testing.T) {
	repo := new(mockHopeRepository)
	svc := newTestService(repo, new(mockPremiumGranter))

	id := uuid.New()
	expiry := fixedNow.AddDate(0, 6, 0)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 50, Expiry: &expiry}, nil)
	repo.On("DebitForUnlock", mock.Anything, id, CostContactUnlock).Return(true, nil)

	balance, err := svc.Redeem(context.Background(), id, RewardContactUnlock)

	require.NoError(t, err)
	assert.Equal(t, 0, balance.Points)
}

func TestRedeem_OnePointShort(t *testing.T) {
	repo := new(mockHopeRepository)
	svc := newTestService(repo, new(mockPremiumGranter))

	id := uuid.New()
	expiry := fixedNow.AddDate(0, 6, 0)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 49, Expiry: &expiry}, nil)

	_, err := svc.Redeem(context.Background(), id, RewardContactUnlock)

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeInsufficientPoints, appErr.Code)
	repo.AssertNotCalled(t, "DebitForUnlock", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedeem_VisibilityBoostSetsExpiry(t *testing.T) {
	repo := new(mockHopeRepository)
	svc := newTestService(repo, new(mockPremiumGranter))

	id := uuid.New()
	expiry := fixedNow.AddDate(0, 6, 0)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 150, Expiry: &expiry}, nil)
	repo.On("DebitForBoost", mock.Anything, id, CostVisibilityBoost, fixedNow.Add(BoostDuration)).Return(true, nil)

	balance, err := svc.Redeem(context.Background(), id, RewardVisibilityBoost)

	require.NoError(t, err)
	assert.Equal(t, 50, balance.Points)
}

func TestRedeem_MiniPremiumGrantsMonth(t *testing.T) {
	repo := new(mockHopeRepository)
	granter := new(mockPremiumGranter)
	svc := newTestService(repo, granter)

	id := uuid.New()
	expiry := fixedNow.AddDate(0, 6, 0)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 200, Expiry: &expiry}, nil)
	repo.On("Debit", mock.Anything, id, CostMiniPremium).Return(true, nil)
	granter.On("Grant", mock.Anything, id, 1, premium.SourceHopePoints).
		Return(fixedNow.AddDate(0, 1, 0), nil)

	balance, err := svc.Redeem(context.Background(), id, RewardMiniPremium)

	require.NoError(t, err)
	assert.Equal(t, 0, balance.Points)
	granter.AssertExpectations(t)
}

func TestRedeem_MiniPremiumRefundsOnFailedGrant(t *testing.T) {
	repo := new(mockHopeRepository)
	granter := new(mockPremiumGranter)
	svc := newTestService(repo, granter)

	id := uuid.New()
	expiry := fixedNow.AddDate(0, 6, 0)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 200, Expiry: &expiry}, nil)
	repo.On("Debit", mock.Anything, id, CostMiniPremium).Return(true, nil)
	granter.On("Grant", mock.Anything, id, 1, premium.SourceHopePoints).
		Return(time.Time{}, errors.New("grants table unavailable"))
	repo.On("Credit", mock.Anything, id, CostMiniPremium, expiry).Return(nil)

	_, err := svc.Redeem(context.Background(), id, RewardMiniPremium)

	require.Error(t, err)
	repo.AssertCalled(t, "Credit", mock.Anything, id, CostMiniPremium, expiry)
}

func TestRedeem_ExpiredPointsCannotBeSpent(t *testing.T) {
	repo := new(mockHopeRepository)
	svc := newTestService(repo, new(mockPremiumGranter))

	id := uuid.New()
	lapsed := fixedNow.Add(-time.Minute)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 500, Expiry: &lapsed}, nil)
	repo.On("Forfeit", mock.Anything, id).Return(nil)

	_, err := svc.Redeem(context.Background(), id, RewardContactUnlock)

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeInsufficientPoints, appErr.Code)
}

func TestRedeem_ConcurrentSpendLosesRace(t *testing.T) {
	repo := new(mockHopeRepository)
	svc := newTestService(repo, new(mockPremiumGranter))

	id := uuid.New()
	expiry := fixedNow.AddDate(0, 6, 0)
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 50, Expiry: &expiry}, nil)
	repo.On("DebitForUnlock", mock.Anything, id, CostContactUnlock).Return(false, nil)

	_, err := svc.Redeem(context.Background(), id, RewardContactUnlock)

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeInsufficientPoints, appErr.Code)
}

func TestRedeem_UnknownReward(t *testing.T) {
	repo := new(mockHopeRepository)
	svc := newTestService(repo, new(mockPremiumGranter))

	id := uuid.New()
	repo.On("GetBalance", mock.Anything, id).Return(&Balance{Points: 500}, nil)

	_, err := svc.Redeem(context.Background(), id, "jetpack")

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeInvalidInput, appErr.Code)
}
