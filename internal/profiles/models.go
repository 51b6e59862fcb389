package profiles

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SuccessStatus tracks the milestone a profile has reached with a match
type SuccessStatus string

const (
	SuccessNone    SuccessStatus = "none"
	SuccessEngaged SuccessStatus = "engaged"
	SuccessMarried SuccessStatus = "married"
)

// Profile is the per-user matrimonial profile and all trust/risk/reward state
type Profile struct {
	ID     uuid.UUID `json:"id" db:"id"`
	UserID string    `json:"user_id" db:"user_id"`

	// Identity
	FullName     string     `json:"full_name" db:"full_name"`
	Gender       string     `json:"gender" db:"gender"`
	BirthDate    *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	HeightCm     *int       `json:"height_cm,omitempty" db:"height_cm"`
	City         string     `json:"city" db:"city"`
	State        string     `json:"state" db:"state"`
	Education    string     `json:"education" db:"education"`
	Occupation   string     `json:"occupation" db:"occupation"`
	AnnualIncome string     `json:"annual_income" db:"annual_income"`
	Religion     string     `json:"religion" db:"religion"`
	MotherTongue string     `json:"mother_tongue" db:"mother_tongue"`
	AboutMe      string     `json:"about_me" db:"about_me"`
	PhotoURL     string     `json:"photo_url" db:"photo_url"`
	CommunityID  string     `json:"community_id" db:"community_id"`
	PhoneNumber  string     `json:"phone_number" db:"phone_number"`

	// Verification flags; each is set true exactly once by its verification op
	PhoneVerified       bool       `json:"phone_verified" db:"phone_verified"`
	WhatsappOTPVerified bool       `json:"whatsapp_otp_verified" db:"whatsapp_otp_verified"`
	PANHash             *string    `json:"-" db:"pan_hash"`
	PANMasked           *string    `json:"pan_masked,omitempty" db:"pan_masked"`
	SelfieVerified      bool       `json:"selfie_verified" db:"selfie_verified"`
	FamilyVerified      bool       `json:"family_verified" db:"family_verified"`
	VerificationLevel   int        `json:"verification_level" db:"verification_level"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty" db:"verified_at"`

	// Risk
	RiskScore  int      `json:"risk_score" db:"risk_score"`
	FraudFlags []string `json:"fraud_flags" db:"fraud_flags"`
	IsActive   bool     `json:"is_active" db:"is_active"`

	// Trust
	TrustScore int `json:"trust_score" db:"trust_score"`

	// Rewards
	PremiumStatus         bool          `json:"premium_status" db:"premium_status"`
	PremiumExpiry         *time.Time    `json:"premium_expiry,omitempty" db:"premium_expiry"`
	HopePoints            int           `json:"hope_points" db:"hope_points"`
	HopePointsExpiry      *time.Time    `json:"hope_points_expiry,omitempty" db:"hope_points_expiry"`
	ReferralCount         int           `json:"referral_count" db:"referral_count"`
	VerifiedReferralCount int           `json:"verified_referral_count" db:"verified_referral_count"`
	ReferredByUserID      *string       `json:"referred_by_user_id,omitempty" db:"referred_by_user_id"`
	ContactUnlocks        int           `json:"contact_unlocks" db:"contact_unlocks"`
	VisibilityBoostExpiry *time.Time    `json:"visibility_boost_expiry,omitempty" db:"visibility_boost_expiry"`
	SuccessStatus         SuccessStatus `json:"success_status" db:"success_status"`
	EngagementDate        *time.Time    `json:"engagement_date,omitempty" db:"engagement_date"`
	MarriageDate          *time.Time    `json:"marriage_date,omitempty" db:"marriage_date"`
	SuccessRewardStatus   *string       `json:"success_reward_status,omitempty" db:"success_reward_status"`
	ContributionType      *string       `json:"contribution_type,omitempty" db:"contribution_type"`

	// Device/network, last-write-wins
	DeviceFingerprint *string `json:"-" db:"device_fingerprint"`
	LastIP            *string `json:"-" db:"last_ip"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// trackedFieldCount is the number of profile fields counted toward completeness.
const trackedFieldCount = 14

// Completeness returns the percentage of tracked profile fields that are filled
func Completeness(p *Profile) int {
	filled := 0
	for _, v := range []string{
		p.FullName, p.Gender, p.City, p.State, p.Education, p.Occupation,
		p.AnnualIncome, p.Religion, p.MotherTongue, p.AboutMe, p.PhotoURL,
		p.CommunityID,
	} {
		if strings.TrimSpace(v) != "" {
			filled++
		}
	}
	if p.BirthDate != nil {
		filled++
	}
	if p.HeightCm != nil && *p.HeightCm > 0 {
		filled++
	}
	return int(float64(filled)/float64(trackedFieldCount)*100 + 0.5)
}

// ComputeBadges derives display badges from verification and milestone state
func ComputeBadges(p *Profile, now time.Time) []string {
	badges := []string{}
	if p.VerificationLevel >= 2 {
		switch strings.ToLower(p.Gender) {
		case "male":
			badges = append(badges, "Verified Groom")
		case "female":
			badges = append(badges, "Verified Bride")
		}
	}
	if p.FamilyVerified {
		badges = append(badges, "Family Approved")
	}
	if p.BirthDate != nil {
		age := int(now.Sub(*p.BirthDate).Hours() / 24 / 365.25)
		if age >= 30 {
			badges = append(badges, "Second Chance (30+)")
		}
	}
	return badges
}

// SearchResult is a profile annotated with its search ordering score
type SearchResult struct {
	Profile
	RankScore int `json:"rank_score"`
}

// RankScore orders search results: trust plus premium, verification and
// visibility-boost bonuses
func RankScore(p *Profile, now time.Time) int {
	score := p.TrustScore
	if p.PremiumStatus {
		score += 15
	}
	score += p.VerificationLevel * 5
	if p.VisibilityBoostExpiry != nil && !p.VisibilityBoostExpiry.Before(now) {
		score += 5
	}
	return score
}

// UpdateProfileRequest carries editable identity fields
type UpdateProfileRequest struct {
	FullName     *string    `json:"full_name,omitempty"`
	Gender       *string    `json:"gender,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	HeightCm     *int       `json:"height_cm,omitempty"`
	City         *string    `json:"city,omitempty"`
	State        *string    `json:"state,omitempty"`
	Education    *string    `json:"education,omitempty"`
	Occupation   *string    `json:"occupation,omitempty"`
	AnnualIncome *string    `json:"annual_income,omitempty"`
	Religion     *string    `json:"religion,omitempty"`
	MotherTongue *string    `json:"mother_tongue,omitempty"`
	AboutMe      *string    `json:"about_me,omitempty"`
	PhotoURL     *string    `json:"photo_url,omitempty"`
	CommunityID  *string    `json:"community_id,omitempty"`
}

// DeviceFingerprintRequest records a device fingerprint against a profile
type DeviceFingerprintRequest struct {
	ProfileID         uuid.UUID `json:"profile_id" binding:"required"`
	DeviceFingerprint string    `json:"device_fingerprint" binding:"required"`
}
