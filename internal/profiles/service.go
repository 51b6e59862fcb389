package profiles

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/internal/risk"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// Service handles profile business logic
type Service struct {
	repo       RepositoryInterface
	risk       RiskAdjuster
	moderation ModerationEnqueuer
	now        func() time.Time
}

// NewService creates a new profile service
func NewService(repo RepositoryInterface, risk RiskAdjuster, moderation ModerationEnqueuer) *Service {
	return &Service{
		repo:       repo,
		risk:       risk,
		moderation: moderation,
		now:        time.Now,
	}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetOrCreate returns the profile for userID, creating an empty one on first
// touch
func (s *Service) GetOrCreate(ctx context.Context, userID, fullName string) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !IsNotFound(err) {
		return nil, common.NewInternalError(err)
	}

	p = &Profile{
		ID:        uuid.New(),
		UserID:    userID,
		FullName:  fullName,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// Lost a create race: the winner's row is the profile
		if existing, getErr := s.repo.GetByUserID(ctx, userID); getErr == nil {
			return existing, nil
		}
		return nil, common.NewInternalError(err)
	}
	p.IsActive = true
	p.SuccessStatus = SuccessNone
	p.UpdatedAt = p.CreatedAt
	return p, nil
}

// Get returns a profile by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, common.NewNotFoundError("profile not found", err)
		}
		return nil, common.NewInternalError(err)
	}
	return p, nil
}

// UpdateIdentity applies partial identity edits and returns the result with
// its recomputed completeness
func (s *Service) UpdateIdentity(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*Profile, int, error) {
	p, err := s.repo.UpdateIdentity(ctx, id, req)
	if err != nil {
		if IsNotFound(err) {
			return nil, 0, common.NewNotFoundError("profile not found", err)
		}
		return nil, 0, common.NewInternalError(err)
	}
	return p, Completeness(p), nil
}

// RecordDeviceFingerprint stores the fingerprint and raises risk when another
// profile already uses the same device
func (s *Service) RecordDeviceFingerprint(ctx context.Context, id uuid.UUID, fingerprint, ip string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	shared, err := s.repo.CountOthersWithFingerprint(ctx, fingerprint, id)
	if err != nil {
		return common.NewInternalError(err)
	}
	if err := s.repo.SetDeviceFingerprint(ctx, id, fingerprint, ip); err != nil {
		return common.NewInternalError(err)
	}

	if shared > 0 {
		if err := s.risk.Adjust(ctx, id, risk.DeltaSharedDevice, risk.ReasonSharedDevice); err != nil {
			logger.Error("shared device risk adjustment failed",
				zap.String("profile_id", id.String()), zap.Error(err))
		}
	}
	return nil
}

// Search returns active profiles ordered by rank score, highest first
func (s *Service) Search(ctx context.Context, limit, offset int) ([]*SearchResult, int64, error) {
	list, err := s.repo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError(err)
	}
	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, 0, common.NewInternalError(err)
	}

	now := s.now()
	results := make([]*SearchResult, len(list))
	for i, p := range list {
		results[i] = &SearchResult{Profile: *p, RankScore: RankScore(p, now)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RankScore > results[j].RankScore
	})
	return results, total, nil
}

// RequestDeletion queues an account deletion request for moderator action
func (s *Service) RequestDeletion(ctx context.Context, id uuid.UUID, reason string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.ScrubIdentifiers(ctx, id); err != nil {
		return common.NewInternalError(err)
	}
	payload := map[string]interface{}{"reason": reason}
	if err := s.moderation.Enqueue(ctx, "deletion_request", id, payload); err != nil {
		return common.NewInternalError(err)
	}
	return nil
}
