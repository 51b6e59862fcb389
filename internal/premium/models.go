package premium

import (
	"time"

	"github.com/google/uuid"
)

// Grant sources, recorded on the append-only grants ledger
const (
	SourcePaid             = "paid"
	SourcePaidUPI          = "paid_upi"
	SourceReferrals        = "referrals"
	SourceReferralsAdmin   = "referrals_admin"
	SourceContribution     = "contribution"
	SourceFullVerification = "full_verification"
	SourceSuccessReward    = "success_reward"
	SourceHopePoints       = "hope_points"
)

// Payment statuses
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Paid plans: both grant the same term, the tiers differ in price and perks
// outside this engine
const (
	PlanBasic = "basic"
	PlanPro   = "pro"

	PlanBasicAmount = 999
	PlanProAmount   = 1999

	// PaidTermMonths is the premium term for a paid plan
	PaidTermMonths = 3
)

// PlanAmount returns the fee for a plan, or 0 for an unknown plan
func PlanAmount(plan string) int {
	switch plan {
	case PlanBasic:
		return PlanBasicAmount
	case PlanPro:
		return PlanProAmount
	default:
		return 0
	}
}

// Grant is one entry on the premium grants ledger
type Grant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProfileID uuid.UUID `json:"profile_id" db:"profile_id"`
	Source    string    `json:"source" db:"source"`
	Months    int       `json:"months" db:"months"`
	StartsAt  time.Time `json:"starts_at" db:"starts_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	Reason    *string   `json:"reason,omitempty" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Payment is a purchase record
type Payment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProfileID uuid.UUID `json:"profile_id" db:"profile_id"`
	Plan      string    `json:"plan" db:"plan"`
	Amount    int       `json:"amount" db:"amount"`
	Method    string    `json:"method" db:"method"`
	Status    string    `json:"status" db:"status"`
	TxnRef    string    `json:"txn_ref" db:"txn_ref"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty" db:"paid_at"`
}

// State is the current premium standing of a profile
type State struct {
	Active bool
	Expiry *time.Time
}

// RewardState is the slice of profile state the full-verification reward
// checks against
type RewardState struct {
	VerificationLevel   int
	Completeness        int
	SuccessRewardStatus *string
}

// PurchaseRequest buys a paid plan
type PurchaseRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// UPIInitiateRequest starts a UPI payment
type UPIInitiateRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// UPIConfirmRequest completes a UPI payment
type UPIConfirmRequest struct {
	TxnRef string `json:"txn_ref" binding:"required"`
}

// RevokeRequest revokes premium from a profile
type RevokeRequest struct {
	ProfileID uuid.UUID `json:"profile_id" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}
