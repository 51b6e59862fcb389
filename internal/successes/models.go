package successes

import (
	"time"

	"github.com/google/uuid"
)

// Success lifecycle statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusClosed   = "closed"
)

// DefaultGrantMonths is the premium term awarded to each party on approval
const DefaultGrantMonths = 6

// Success is a reported engagement between two profiles
type Success struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Profile1ID    uuid.UUID  `json:"profile1_id" db:"profile1_id"`
	Profile2ID    uuid.UUID  `json:"profile2_id" db:"profile2_id"`
	Status        string     `json:"status" db:"status"`
	GrantedMonths int        `json:"granted_months" db:"granted_months"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	MarriedAt     *time.Time `json:"married_at,omitempty" db:"married_at"`
}

// ReportRequest reports an engagement with another profile
type ReportRequest struct {
	PartnerProfileID uuid.UUID `json:"partner_profile_id" binding:"required"`
}
