package interests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/subhvivah/matrimony/internal/risk"
	"github.com/subhvivah/matrimony/pkg/common"
)

// ========================================
// MOCKS
// ========================================

type mockInterestsRepository struct {
	mock.Mock
}

func (m *mockInterestsRepository) Create(ctx context.Context, interest *Interest) error {
	args := m.Called(ctx, interest)
	return args.Error(0)
}

func (m *mockInterestsRepository) CountBySenderSince(ctx context.Context, from uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, from, since)
	return args.Int(0), args.Error(1)
}

func (m *mockInterestsRepository) CountDistinctRecipientsWithMessage(ctx context.Context, from uuid.UUID, message string, since time.Time) (int, error) {
	args := m.Called(ctx, from, message, since)
	return args.Int(0), args.Error(1)
}

func (m *mockInterestsRepository) IsBlocked(ctx context.Context, blocker, blocked uuid.UUID) (bool, error) {
	args := m.Called(ctx, blocker, blocked)
	return args.Bool(0), args.Error(1)
}

func (m *mockInterestsRepository) CreateBlock(ctx context.Context, block *Block) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

type mockRiskAdjuster struct {
	mock.Mock
}

func (m *mockRiskAdjuster) Adjust(ctx context.Context, profileID uuid.UUID, delta int, reason string) error {
	args := m.Called(ctx, profileID, delta, reason)
	return args.Error(0)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockInterestsRepository, riskSvc *mockRiskAdjuster) *Service {
	return NewService(repo, riskSvc).WithNow(func() time.Time { return fixedNow })
}

// ========================================
// TESTS
// ========================================

func TestSend_NormalRate(t *testing.T) {
	repo := new(mockInterestsRepository)
	riskSvc := new(mockRiskAdjuster)
	svc := newTestService(repo, riskSvc)

	from, to := uuid.New(), uuid.New()
	repo.On("IsBlocked", mock.Anything, to, from).Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(i *Interest) bool {
		return i.FromProfileID == from && i.ToProfileID == to && i.Message == "hello"
	})).Return(nil)
	repo.On("CountBySenderSince", mock.Anything, from, fixedNow.Add(-BurstWindow)).Return(5, nil)
	repo.On("CountDistinctRecipientsWithMessage", mock.Anything, from, "hello", fixedNow.Add(-ReuseWindow)).Return(1, nil)

	interest, err := svc.Send(context.Background(), from, &SendRequest{ToProfileID: to, Message: "hello"})

	require.NoError(t, err)
	assert.Equal(t, to, interest.ToProfileID)
	riskSvc.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_BurstOverLimitRaisesRisk(t *testing.T) {
	repo := new(mockInterestsRepository)
	riskSvc := new(mockRiskAdjuster)
	svc := newTestService(repo, riskSvc)

	from, to := uuid.New(), uuid.New()
	repo.On("IsBlocked", mock.Anything, to, from).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("CountBySenderSince", mock.Anything, from, fixedNow.Add(-BurstWindow)).Return(21, nil)
	riskSvc.On("Adjust", mock.Anything, from, risk.DeltaInterestRateHigh, risk.ReasonInterestRateHigh).Return(nil)

	_, err := svc.Send(context.Background(), from, &SendRequest{ToProfileID: to})

	require.NoError(t, err)
	riskSvc.AssertExpectations(t)
}

func TestSend_ExactlyAtBurstLimitNoRisk(t *testing.T) {
	repo := new(mockInterestsRepository)
	riskSvc := new(mockRiskAdjuster)
	svc := newTestService(repo, riskSvc)

	from, to := uuid.New(), uuid.New()
	repo.On("IsBlocked", mock.Anything, to, from).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("CountBySenderSince", mock.Anything, from, mock.Anything).Return(BurstLimit, nil)

	_, err := svc.Send(context.Background(), from, &SendRequest{ToProfileID: to})

	require.NoError(t, err)
	riskSvc.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_MessageReuseRaisesRisk(t *testing.T) {
	repo := new(mockInterestsRepository)
	riskSvc := new(mockRiskAdjuster)
	svc := newTestService(repo, riskSvc)

	from, to := uuid.New(), uuid.New()
	repo.On("IsBlocked", mock.Anything, to, from).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("CountBySenderSince", mock.Anything, from, mock.Anything).Return(5, nil)
	repo.On("CountDistinctRecipientsWithMessage", mock.Anything, from, "hi dear", fixedNow.Add(-ReuseWindow)).
		Return(ReuseRecipients, nil)
	riskSvc.On("Adjust", mock.Anything, from, risk.DeltaSpamMessageReuse, risk.ReasonSpamMessageReuse).Return(nil)

	_, err := svc.Send(context.Background(), from, &SendRequest{ToProfileID: to, Message: "hi dear"})

	require.NoError(t, err)
	riskSvc.AssertExpectations(t)
}

func TestSend_EmptyMessageSkipsReuseCheck(t *testing.T) {
	repo := new(mockInterestsRepository)
	riskSvc := new(mockRiskAdjuster)
	svc := newTestService(repo, riskSvc)

	from, to := uuid.New(), uuid.New()
	repo.On("IsBlocked", mock.Anything, to, from).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("CountBySenderSince", mock.Anything, from, mock.Anything).Return(3, nil)

	_, err := svc.Send(context.Background(), from, &SendRequest{ToProfileID: to})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "CountDistinctRecipientsWithMessage",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_BlockedRecipientRejected(t *testing.T) {
	repo := new(mockInterestsRepository)
	svc := newTestService(repo, new(mockRiskAdjuster))

	from, to := uuid.New(), uuid.New()
	repo.On("IsBlocked", mock.Anything, to, from).Return(true, nil)

	_, err := svc.Send(context.Background(), from, &SendRequest{ToProfileID: to})

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeForbidden, appErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSend_SelfInterestRejected(t *testing.T) {
	svc := newTestService(new(mockInterestsRepository), new(mockRiskAdjuster))

	id := uuid.New()
	_, err := svc.Send(context.Background(), id, &SendRequest{ToProfileID: id})

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeInvalidInput, appErr.Code)
}

func TestBlockProfile(t *testing.T) {
	repo := new(mockInterestsRepository)
	svc := newTestService(repo, new(mockRiskAdjuster))

	blocker, blocked := uuid.New(), uuid.New()
	repo.On("CreateBlock", mock.Anything, mock.MatchedBy(func(b *Block) bool {
		return b.BlockerProfileID == blocker && b.BlockedProfileID == blocked
	})).Return(nil)

	err := svc.BlockProfile(context.Background(), blocker, &BlockRequest{BlockedProfileID: blocked})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
