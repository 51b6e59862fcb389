package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	riskpkg "github.com/subhvivah/matrimony/internal/risk"
)

// ========================================
// MOCK REPOSITORY
// ========================================

type mockProfilesRepository struct {
	mock.Mock
}

func (m *mockProfilesRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*Profile)
	return p, args.Error(1)
}

func (m *mockProfilesRepository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*Profile)
	return p, args.Error(1)
}

func (m *mockProfilesRepository) Create(ctx context.Context, p *Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProfilesRepository) UpdateIdentity(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	args := m.Called(ctx, id, req)
	p, _ := args.Get(0).(*Profile)
	return p, args.Error(1)
}

func (m *mockProfilesRepository) SetDeviceFingerprint(ctx context.Context, id uuid.UUID, fingerprint, ip string) error {
	args := m.Called(ctx, id, fingerprint, ip)
	return args.Error(0)
}

func (m *mockProfilesRepository) CountOthersWithFingerprint(ctx context.Context, fingerprint string, excludeID uuid.UUID) (int, error) {
	args := m.Called(ctx, fingerprint, excludeID)
	return args.Int(0), args.Error(1)
}

func (m *mockProfilesRepository) ListActive(ctx context.Context, limit, offset int) ([]*Profile, error) {
	args := m.Called(ctx, limit, offset)
	list, _ := args.Get(0).([]*Profile)
	return list, args.Error(1)
}

func (m *mockProfilesRepository) ScrubIdentifiers(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProfilesRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockRiskAdjuster struct {
	mock.Mock
}

func (m *mockRiskAdjuster) Adjust(ctx context.Context, profileID uuid.UUID, delta int, reason string) error {
	args := m.Called(ctx, profileID, delta, reason)
	return args.Error(0)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, itemType string, profileID uuid.UUID, payload map[string]interface{}) error {
	args := m.Called(ctx, itemType, profileID, payload)
	return args.Error(0)
}

func newTestService(repo *mockProfilesRepository, risk *mockRiskAdjuster, mod *mockEnqueuer) *Service {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return NewService(repo, risk, mod).WithNow(func() time.Time { return fixed })
}

// ========================================
// TESTS
// ========================================

func TestGetOrCreate_ReturnsExisting(t *testing.T) {
	repo := new(mockProfilesRepository)
	svc := newTestService(repo, new(mockRiskAdjuster), new(mockEnqueuer))

	existing := &Profile{ID: uuid.New(), UserID: "user-1", IsActive: true}
	repo.On("GetByUserID", mock.Anything, "user-1").Return(existing, nil)

	p, err := svc.GetOrCreate(context.Background(), "user-1", "")

	require.NoError(t, err)
	assert.Equal(t, existing.ID, p.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetOrCreate_CreatesOnFirstTouch(t *testing.T) {
	repo := new(mockProfilesRepository)
	svc := newTestService(repo, new(mockRiskAdjuster), new(mockEnqueuer))

	repo.On("GetByUserID", mock.Anything, "user-1").Return(nil, pgx.ErrNoRows)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.UserID == "user-1" && p.FullName == "Asha"
	})).Return(nil)

	p, err := svc.GetOrCreate(context.Background(), "user-1", "Asha")

	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, SuccessNone, p.SuccessStatus)
	assert.Equal(t, 0, p.RiskScore)
	assert.Equal(t, 0, p.HopePoints)
}

func TestGetOrCreate_LosesCreateRace(t *testing.T) {
	repo := new(mockProfilesRepository)
	svc := newTestService(repo, new(mockRiskAdjuster), new(mockEnqueuer))

	winner := &Profile{ID: uuid.New(), UserID: "user-1"}
	repo.On("GetByUserID", mock.Anything, "user-1").Return(nil, pgx.ErrNoRows).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate key"))
	repo.On("GetByUserID", mock.Anything, "user-1").Return(winner, nil).Once()

	p, err := svc.GetOrCreate(context.Background(), "user-1", "")

	require.NoError(t, err)
	assert.Equal(t, winner.ID, p.ID)
}

func TestCompleteness_EmptyProfile(t *testing.T) {
	assert.Equal(t, 0, Completeness(&Profile{}))
}

func TestCompleteness_FullProfile(t *testing.T) {
	birth := time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC)
	height := 170
	p := &Profile{
		FullName: "Asha", Gender: "female", BirthDate: &birth, HeightCm: &height,
		City: "Pune", State: "MH", Education: "BE", Occupation: "Engineer",
		AnnualIncome: "10-15L", Religion: "Hindu", MotherTongue: "Marathi",
		AboutMe: "Hello", PhotoURL: "https://cdn/x.jpg", CommunityID: "c-1",
	}
	assert.Equal(t, 100, Completeness(p))
}

func TestCompleteness_PartialProfileRounds(t *testing.T) {
	p := &Profile{FullName: "Asha", Gender: "female", City: "Pune"}
	// 3 of 14 fields filled
	assert.Equal(t, 21, Completeness(p))
}

func TestRecordDeviceFingerprint_SharedDeviceRaisesRisk(t *testing.T) {
	repo := new(mockProfilesRepository)
	risk := new(mockRiskAdjuster)
	svc := newTestService(repo, risk, new(mockEnqueuer))

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&Profile{ID: id, IsActive: true}, nil)
	repo.On("CountOthersWithFingerprint", mock.Anything, "fp-1", id).Return(2, nil)
	repo.On("SetDeviceFingerprint", mock.Anything, id, "fp-1", "10.0.0.1").Return(nil)
	risk.On("Adjust", mock.Anything, id, riskpkg.DeltaSharedDevice, riskpkg.ReasonSharedDevice).Return(nil)

	err := svc.RecordDeviceFingerprint(context.Background(), id, "fp-1", "10.0.0.1")

	require.NoError(t, err)
	risk.AssertExpectations(t)
}

func TestRecordDeviceFingerprint_UniqueDeviceNoRisk(t *testing.T) {
	repo := new(mockProfilesRepository)
	risk := new(mockRiskAdjuster)
	svc := newTestService(repo, risk, new(mockEnqueuer))

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&Profile{ID: id, IsActive: true}, nil)
	repo.On("CountOthersWithFingerprint", mock.Anything, "fp-1", id).Return(0, nil)
	repo.On("SetDeviceFingerprint", mock.Anything, id, "fp-1", "10.0.0.1").Return(nil)

	err := svc.RecordDeviceFingerprint(context.Background(), id, "fp-1", "10.0.0.1")

	require.NoError(t, err)
	risk.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRankScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	boost := now.Add(24 * time.Hour)
	expired := now.Add(-24 * time.Hour)

	tests := []struct {
		name     string
		profile  Profile
		expected int
	}{
		{"bare profile", Profile{TrustScore: 40}, 40},
		{"premium bonus", Profile{TrustScore: 40, PremiumStatus: true}, 55},
		{"verification bonus", Profile{TrustScore: 40, VerificationLevel: 3}, 55},
		{"active boost", Profile{TrustScore: 40, VisibilityBoostExpiry: &boost}, 45},
		{"expired boost ignored", Profile{TrustScore: 40, VisibilityBoostExpiry: &expired}, 40},
		{"all bonuses", Profile{TrustScore: 40, PremiumStatus: true, VerificationLevel: 4, VisibilityBoostExpiry: &boost}, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RankScore(&tt.profile, now))
		})
	}
}

func TestSearch_OrdersByRankScore(t *testing.T) {
	repo := new(mockProfilesRepository)
	svc := newTestService(repo, new(mockRiskAdjuster), new(mockEnqueuer))

	low := &Profile{ID: uuid.New(), TrustScore: 10}
	high := &Profile{ID: uuid.New(), TrustScore: 50, PremiumStatus: true}
	repo.On("ListActive", mock.Anything, 20, 0).Return([]*Profile{low, high}, nil)
	repo.On("CountActive", mock.Anything).Return(int64(2), nil)

	results, total, err := svc.Search(context.Background(), 20, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, results, 2)
	assert.Equal(t, high.ID, results[0].ID)
	assert.Equal(t, 65, results[0].RankScore)
	assert.Equal(t, low.ID, results[1].ID)
}

func TestRequestDeletion_EnqueuesModerationItem(t *testing.T) {
	repo := new(mockProfilesRepository)
	mod := new(mockEnqueuer)
	svc := newTestService(repo, new(mockRiskAdjuster), mod)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&Profile{ID: id}, nil)
	repo.On("ScrubIdentifiers", mock.Anything, id).Return(nil)
	mod.On("Enqueue", mock.Anything, "deletion_request", id,
		map[string]interface{}{"reason": "leaving"}).Return(nil)

	err := svc.RequestDeletion(context.Background(), id, "leaving")

	require.NoError(t, err)
	mod.AssertExpectations(t)
}

func TestComputeBadges(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	young := time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC)
	older := time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)

	badges := ComputeBadges(&Profile{Gender: "female", VerificationLevel: 2, BirthDate: &young}, now)
	assert.Equal(t, []string{"Verified Bride"}, badges)

	badges = ComputeBadges(&Profile{Gender: "male", VerificationLevel: 4, FamilyVerified: true, BirthDate: &older}, now)
	assert.Equal(t, []string{"Verified Groom", "Family Approved", "Second Chance (30+)"}, badges)

	badges = ComputeBadges(&Profile{Gender: "male", VerificationLevel: 1}, now)
	assert.Empty(t, badges)
}
