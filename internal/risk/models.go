package risk

import (
	"time"

	"github.com/google/uuid"
)

// Fraud signal reasons recorded as fraud flags
const (
	ReasonDuplicatePAN     = "duplicate_pan"
	ReasonSharedDevice     = "shared_device"
	ReasonInterestRateHigh = "interest_rate_high"
	ReasonSpamMessageReuse = "spam_message_reuse"
)

// Risk deltas per signal
const (
	DeltaDuplicatePAN     = 50
	DeltaSharedDevice     = 30
	DeltaInterestRateHigh = 30
	DeltaSpamMessageReuse = 20
)

// MaxRiskScore caps the accumulated score
const MaxRiskScore = 100

// DeactivationThreshold is the score at or above which a profile is
// deactivated and queued for moderation
const DeactivationThreshold = 70

// moderationItemHighRisk matches the moderation queue's high_risk item type
const moderationItemHighRisk = "high_risk"

// highSeverity reasons forfeit hope points even below the threshold
var highSeverity = map[string]bool{
	ReasonDuplicatePAN:     true,
	ReasonSharedDevice:     true,
	ReasonInterestRateHigh: true,
	ReasonSpamMessageReuse: true,
}

// HighSeverity reports whether a reason forfeits hope points on its own
func HighSeverity(reason string) bool {
	return highSeverity[reason]
}

// FlaggedProfile summarizes a profile carrying fraud flags, for admin review
type FlaggedProfile struct {
	ID                uuid.UUID  `json:"id"`
	UserID            string     `json:"user_id"`
	FullName          string     `json:"full_name"`
	RiskScore         int        `json:"risk_score"`
	FraudFlags        []string   `json:"fraud_flags"`
	IsActive          bool       `json:"is_active"`
	VerificationLevel int        `json:"verification_level"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CreatedAt         time.Time  `json:"created_at"`
	LastIP            *string    `json:"last_ip,omitempty"`
	DeviceFingerprint *string    `json:"device_fingerprint,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
}
