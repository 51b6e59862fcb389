package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/internal/audit"
	"github.com/subhvivah/matrimony/internal/risk"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/config"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// Service handles identity verification business logic
type Service struct {
	repo     RepositoryInterface
	riskSvc  RiskAdjuster
	trustSvc TrustRecomputer
	sender   CodeSender
	auditor  audit.Recorder
	cfg      config.SecurityConfig
	now      func() time.Time
}

// NewService creates a new verification service
func NewService(repo RepositoryInterface, riskSvc RiskAdjuster, trustSvc TrustRecomputer,
	sender CodeSender, auditor audit.Recorder, cfg config.SecurityConfig) *Service {
	return &Service{
		repo:     repo,
		riskSvc:  riskSvc,
		trustSvc: trustSvc,
		sender:   sender,
		auditor:  auditor,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithNow overrides the clock, for tests
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) codeTTL() time.Duration {
	minutes := s.cfg.OTPCodeTTLMinutes
	if minutes <= 0 {
		minutes = 10
	}
	return time.Duration(minutes) * time.Minute
}

// generateCode returns a random six-digit code
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Start begins an OTP challenge on a channel. Issuing a new challenge
// supersedes any prior one for the same profile and channel.
func (s *Service) Start(ctx context.Context, req *StartRequest, ip string) error {
	if !ValidChannel(req.Channel) {
		return common.NewInvalidInputError("unknown verification channel", nil)
	}

	if req.Phone == "" {
		return common.NewInvalidInputError("phone is required", nil)
	}

	if req.Channel == ChannelPhone || req.Channel == ChannelWhatsapp {
		if err := s.repo.SetPhone(ctx, req.ProfileID, req.Phone, ip); err != nil {
			return common.NewInternalError(err)
		}
	}

	code, err := generateCode()
	if err != nil {
		return common.NewInternalError(err)
	}

	now := s.now()
	challenge := &Code{
		ID:        uuid.New(),
		ProfileID: req.ProfileID,
		Channel:   req.Channel,
		CodeHash:  HashSecret(s.cfg.OTPHashKey, code),
		ExpiresAt: now.Add(s.codeTTL()),
		CreatedAt: now,
	}
	if err := s.repo.InsertCode(ctx, challenge); err != nil {
		return common.NewInternalError(err)
	}

	// Delivery failures never cancel the challenge
	if err := s.sender.Send(ctx, req.Phone, code); err != nil {
		logger.Error("otp delivery failed",
			zap.String("profile_id", req.ProfileID.String()),
			zap.String("channel", req.Channel),
			zap.Error(err))
	}
	return nil
}

// Verify completes an OTP challenge and advances the verification level
func (s *Service) Verify(ctx context.Context, req *VerifyRequest) (int, error) {
	if !ValidChannel(req.Channel) {
		return 0, common.NewInvalidInputError("unknown verification channel", nil)
	}

	if !s.matchesBypass(req.Code) {
		hash, err := s.repo.LatestCodeHash(ctx, req.ProfileID, req.Channel, s.now())
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, common.NewInvalidCodeError("no active verification code")
			}
			return 0, common.NewInternalError(err)
		}
		if HashSecret(s.cfg.OTPHashKey, req.Code) != hash {
			return 0, common.NewInvalidCodeError("incorrect verification code")
		}
	}

	if err := s.repo.SetChannelVerified(ctx, req.ProfileID, req.Channel); err != nil {
		return 0, common.NewInternalError(err)
	}
	return s.recomputeLevel(ctx, req.ProfileID)
}

func (s *Service) matchesBypass(code string) bool {
	return s.cfg.OTPBypass && code == BypassCode
}

// VerifyPAN validates, hashes and stores a PAN. A duplicate PAN still stores
// and advances the level, but raises the risk score and may deactivate.
func (s *Service) VerifyPAN(ctx context.Context, req *PANRequest, actorEmail string) (level int, masked string, err error) {
	pan := NormalizePAN(req.PAN)
	if !ValidPAN(pan) {
		return 0, "", common.NewInvalidInputError("PAN format is invalid", nil)
	}

	hash := HashSecret(s.cfg.OTPHashKey, pan)
	masked = MaskPAN(pan)

	duplicates, err := s.repo.CountPANHash(ctx, hash, req.ProfileID)
	if err != nil {
		return 0, "", common.NewInternalError(err)
	}

	if err := s.repo.SetPAN(ctx, req.ProfileID, hash, masked); err != nil {
		return 0, "", common.NewInternalError(err)
	}

	level, err = s.recomputeLevel(ctx, req.ProfileID)
	if err != nil {
		return 0, "", err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:     "pan_verified",
		ActorEmail: actorEmail,
		ProfileID:  req.ProfileID.String(),
		Details:    map[string]interface{}{"masked": masked, "duplicate": duplicates > 0},
	})

	if duplicates > 0 {
		if err := s.riskSvc.Adjust(ctx, req.ProfileID, risk.DeltaDuplicatePAN, risk.ReasonDuplicatePAN); err != nil {
			return 0, "", err
		}
	}

	if _, err := s.trustSvc.Recompute(ctx, req.ProfileID); err != nil {
		logger.Error("trust recompute after PAN verify failed",
			zap.String("profile_id", req.ProfileID.String()), zap.Error(err))
	}
	return level, masked, nil
}

// VerifySelfie marks the selfie check passed and advances the level
func (s *Service) VerifySelfie(ctx context.Context, profileID uuid.UUID) (int, error) {
	if err := s.repo.SetSelfieVerified(ctx, profileID); err != nil {
		return 0, common.NewInternalError(err)
	}
	return s.recomputeLevel(ctx, profileID)
}

// recomputeLevel rederives the level from the channel flags. Flags are only
// ever set, so the level is monotonic.
func (s *Service) recomputeLevel(ctx context.Context, profileID uuid.UUID) (int, error) {
	flags, err := s.repo.GetFlags(ctx, profileID)
	if err != nil {
		return 0, common.NewInternalError(err)
	}
	level := LevelFor(*flags)
	if err := s.repo.SetLevel(ctx, profileID, level, s.now()); err != nil {
		return 0, common.NewInternalError(err)
	}
	return level, nil
}
