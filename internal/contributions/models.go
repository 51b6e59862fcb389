package contributions

import (
	"time"

	"github.com/google/uuid"
)

// Contribution statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Reward policy for approved contributions
const (
	// PointsPerApproval is credited to the helper on each approval
	PointsPerApproval = 20

	// PremiumAtApprovals is the approval count that earns a premium term
	PremiumAtApprovals = 2
	PremiumMonths      = 3
)

// RuralSupportType marks helpers who earned the contribution premium
const RuralSupportType = "rural_support"

// Contribution is community help submitted for review
type Contribution struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	HelperProfileID uuid.UUID  `json:"helper_profile_id" db:"helper_profile_id"`
	TargetProfileID uuid.UUID  `json:"target_profile_id" db:"target_profile_id"`
	Kind            string     `json:"kind" db:"kind"`
	Description     string     `json:"description" db:"description"`
	Status          string     `json:"status" db:"status"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy      *string    `json:"reviewed_by,omitempty" db:"reviewed_by"`
}

// SubmitRequest submits a contribution for review
type SubmitRequest struct {
	TargetProfileID uuid.UUID `json:"target_profile_id" binding:"required"`
	Kind            string    `json:"kind" binding:"required"`
	Description     string    `json:"description" binding:"required"`
}
