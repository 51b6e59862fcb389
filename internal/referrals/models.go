package referrals

import (
	"time"

	"github.com/google/uuid"
)

// Referral statuses
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
)

// Verification criteria for a referred profile
const (
	// MinAccountAge guards against freshly minted referral farms
	MinAccountAge = 30 * 24 * time.Hour

	// MinCompleteness is the completeness a referred profile must reach
	MinCompleteness = 80
)

// Bulk unlock: a referrer with this many recorded and verified referrals
// earns a premium term
const (
	BulkUnlockReferrals = 5
	BulkUnlockVerified  = 3
	BulkUnlockMonths    = 3
)

// Referral links a referrer to a profile they brought in
type Referral struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	ReferrerProfileID uuid.UUID  `json:"referrer_profile_id" db:"referrer_profile_id"`
	ReferredProfileID uuid.UUID  `json:"referred_profile_id" db:"referred_profile_id"`
	Status            string     `json:"status" db:"status"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty" db:"verified_at"`
}

// Candidate is the referred profile state the verification criteria check
type Candidate struct {
	CreatedAt        time.Time
	IsActive         bool
	PhoneVerified    bool
	Completeness     int
	PANDuplicates    int
	DeviceDuplicates int
}

// Counts is a referrer's standing
type Counts struct {
	ReferralCount         int `json:"referral_count"`
	VerifiedReferralCount int `json:"verified_referral_count"`
}

// Stats is the platform-wide referral summary for admins
type Stats struct {
	TotalReferrals    int `json:"total_referrals"`
	VerifiedReferrals int `json:"verified_referrals"`
	PendingReferrals  int `json:"pending_referrals"`
	UniqueReferrers   int `json:"unique_referrers"`
}

// RecordRequest records that a profile was referred
type RecordRequest struct {
	ReferredProfileID uuid.UUID `json:"referred_profile_id" binding:"required"`
}

// VerifyRequest verifies a referral
type VerifyRequest struct {
	ReferrerProfileID uuid.UUID `json:"referrer_profile_id" binding:"required"`
	ReferredProfileID uuid.UUID `json:"referred_profile_id" binding:"required"`
}

// AdminGrantRequest grants the referral premium term manually
type AdminGrantRequest struct {
	ProfileID uuid.UUID `json:"profile_id" binding:"required"`
}
