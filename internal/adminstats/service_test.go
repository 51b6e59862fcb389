package adminstats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/subhvivah/matrimony/pkg/common"
)

type mockStatsRepository struct {
	mock.Mock
}

func (m *mockStatsRepository) GetSummary(ctx context.Context, now time.Time) (*Summary, error) {
	args := m.Called(ctx, now)
	s, _ := args.Get(0).(*Summary)
	return s, args.Error(1)
}

func (m *mockStatsRepository) GetRevenue(ctx context.Context) (*Revenue, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*Revenue)
	return r, args.Error(1)
}

func (m *mockStatsRepository) GetAnalytics(ctx context.Context, now time.Time) (*Analytics, error) {
	args := m.Called(ctx, now)
	a, _ := args.Get(0).(*Analytics)
	return a, args.Error(1)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestSummary_UsesInjectedClock(t *testing.T) {
	repo := new(mockStatsRepository)
	svc := NewService(repo).WithNow(func() time.Time { return fixedNow })

	repo.On("GetSummary", mock.Anything, fixedNow).
		Return(&Summary{TotalProfiles: 120, ActiveProfiles: 100, FlaggedProfiles: 4}, nil)

	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 120, summary.TotalProfiles)
	repo.AssertExpectations(t)
}

func TestRevenue_WrapsRepositoryFailure(t *testing.T) {
	repo := new(mockStatsRepository)
	svc := NewService(repo)

	repo.On("GetRevenue", mock.Anything).Return(nil, assert.AnError)

	_, err := svc.Revenue(context.Background())

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeInternal, appErr.Code)
}
