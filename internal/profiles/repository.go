package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// profileColumns is the canonical column list scanned by scanProfile
const profileColumns = `
	id, user_id, full_name, gender, birth_date, height_cm, city, state,
	education, occupation, annual_income, religion, mother_tongue, about_me,
	photo_url, community_id, phone_number,
	phone_verified, whatsapp_otp_verified, pan_hash, pan_masked,
	selfie_verified, family_verified, verification_level, verified_at,
	risk_score, fraud_flags, is_active, trust_score,
	premium_status, premium_expiry, hope_points, hope_points_expiry,
	referral_count, verified_referral_count, referred_by_user_id,
	contact_unlocks, visibility_boost_expiry,
	success_status, engagement_date, marriage_date, success_reward_status,
	contribution_type, device_fingerprint, last_ip, created_at, updated_at`

// Repository handles profile data operations
type Repository struct {
	db *pgxpool.Pool
}

// Ensure the concrete repository satisfies the service's requirements.
var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new profile repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Gender, &p.BirthDate, &p.HeightCm,
		&p.City, &p.State, &p.Education, &p.Occupation, &p.AnnualIncome,
		&p.Religion, &p.MotherTongue, &p.AboutMe, &p.PhotoURL, &p.CommunityID,
		&p.PhoneNumber,
		&p.PhoneVerified, &p.WhatsappOTPVerified, &p.PANHash, &p.PANMasked,
		&p.SelfieVerified, &p.FamilyVerified, &p.VerificationLevel, &p.VerifiedAt,
		&p.RiskScore, &p.FraudFlags, &p.IsActive, &p.TrustScore,
		&p.PremiumStatus, &p.PremiumExpiry, &p.HopePoints, &p.HopePointsExpiry,
		&p.ReferralCount, &p.VerifiedReferralCount, &p.ReferredByUserID,
		&p.ContactUnlocks, &p.VisibilityBoostExpiry,
		&p.SuccessStatus, &p.EngagementDate, &p.MarriageDate,
		&p.SuccessRewardStatus, &p.ContributionType,
		&p.DeviceFingerprint, &p.LastIP, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a profile by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, id))
}

// GetByUserID retrieves a profile by the owning user's ID
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

// Create inserts a new profile with default engine state
func (r *Repository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`
	_, err := r.db.Exec(ctx, query, p.ID, p.UserID, p.FullName, p.CreatedAt)
	return err
}

// UpdateIdentity applies the non-nil fields of req and returns the updated row
func (r *Repository) UpdateIdentity(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	sets := []string{}
	args := []interface{}{id}
	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.FullName != nil {
		add("full_name", *req.FullName)
	}
	if req.Gender != nil {
		add("gender", *req.Gender)
	}
	if req.BirthDate != nil {
		add("birth_date", *req.BirthDate)
	}
	if req.HeightCm != nil {
		add("height_cm", *req.HeightCm)
	}
	if req.City != nil {
		add("city", *req.City)
	}
	if req.State != nil {
		add("state", *req.State)
	}
	if req.Education != nil {
		add("education", *req.Education)
	}
	if req.Occupation != nil {
		add("occupation", *req.Occupation)
	}
	if req.AnnualIncome != nil {
		add("annual_income", *req.AnnualIncome)
	}
	if req.Religion != nil {
		add("religion", *req.Religion)
	}
	if req.MotherTongue != nil {
		add("mother_tongue", *req.MotherTongue)
	}
	if req.AboutMe != nil {
		add("about_me", *req.AboutMe)
	}
	if req.PhotoURL != nil {
		add("photo_url", *req.PhotoURL)
	}
	if req.CommunityID != nil {
		add("community_id", *req.CommunityID)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(
		`UPDATE profiles SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), profileColumns,
	)
	return scanProfile(r.db.QueryRow(ctx, query, args...))
}

// SetDeviceFingerprint records the latest fingerprint and IP, last write wins
func (r *Repository) SetDeviceFingerprint(ctx context.Context, id uuid.UUID, fingerprint, ip string) error {
	query := `
		UPDATE profiles
		SET device_fingerprint = $2, last_ip = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id, fingerprint, ip)
	return err
}

// CountOthersWithFingerprint counts other profiles sharing a fingerprint
func (r *Repository) CountOthersWithFingerprint(ctx context.Context, fingerprint string, excludeID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM profiles WHERE device_fingerprint = $1 AND id != $2`
	var count int
	err := r.db.QueryRow(ctx, query, fingerprint, excludeID).Scan(&count)
	return count, err
}

// ListActive returns active profiles ordered by recency
func (r *Repository) ListActive(ctx context.Context, limit, offset int) ([]*Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// CountActive counts active profiles
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE is_active = TRUE`).Scan(&total)
	return total, err
}

// ScrubIdentifiers clears the identifiers a deleted account must not retain
func (r *Repository) ScrubIdentifiers(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE profiles
		SET pan_hash = NULL, pan_masked = NULL, device_fingerprint = NULL,
		    last_ip = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// IsNotFound reports whether err is the pgx no-rows sentinel
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
