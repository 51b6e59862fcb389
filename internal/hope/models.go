package hope

import (
	"time"

	"github.com/google/uuid"
)

// Award events and their point values
const (
	EventProfileUpdate   = "profile_update"
	EventProfileComplete = "profile_complete"
	EventAttend          = "event_attend"
	EventCounseling      = "counseling"
	EventRuralHelp       = "rural_help"
	EventEngagement      = "engagement"
)

// awardTable maps award events to point values
var awardTable = map[string]int{
	EventProfileUpdate:   5,
	EventProfileComplete: 10,
	EventAttend:          15,
	EventCounseling:      15,
	EventRuralHelp:       20,
	EventEngagement:      50,
}

// AwardFor returns the point value for an event, or 0 for an unknown event
func AwardFor(event string) int {
	return awardTable[event]
}

// Redeemable rewards and their costs
const (
	RewardContactUnlock   = "contact_unlock"
	RewardVisibilityBoost = "visibility_boost"
	RewardMiniPremium     = "mini_premium"

	CostContactUnlock   = 50
	CostVisibilityBoost = 100
	CostMiniPremium     = 200
)

// BoostDuration is the visibility boost term
const BoostDuration = 7 * 24 * time.Hour

// ValidityMonths is how long earned points stay redeemable
const ValidityMonths = 12

// Balance is a profile's hope point standing
type Balance struct {
	Points int        `json:"hope_points"`
	Expiry *time.Time `json:"hope_points_expiry,omitempty"`
}

// AwardRequest credits points for an event
type AwardRequest struct {
	ProfileID uuid.UUID `json:"profile_id" binding:"required"`
	Event     string    `json:"event" binding:"required"`
}

// RedeemRequest spends points on a reward
type RedeemRequest struct {
	Reward string `json:"reward" binding:"required"`
}
