package interests

import (
	"time"

	"github.com/google/uuid"
)

// Rate windows watched for abuse
const (
	// BurstWindow and BurstLimit: more than BurstLimit interests inside the
	// window is a spray signal
	BurstWindow = time.Hour
	BurstLimit  = 20

	// ReuseWindow and ReuseRecipients: the same message to this many distinct
	// recipients inside the window is a spam signal
	ReuseWindow     = 10 * time.Minute
	ReuseRecipients = 5
)

// Interest is an expression of interest from one profile to another
type Interest struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FromProfileID uuid.UUID `json:"from_profile_id" db:"from_profile_id"`
	ToProfileID   uuid.UUID `json:"to_profile_id" db:"to_profile_id"`
	Message       string    `json:"message" db:"message"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Block stops a profile from contacting another
type Block struct {
	ID               uuid.UUID `json:"id" db:"id"`
	BlockerProfileID uuid.UUID `json:"blocker_profile_id" db:"blocker_profile_id"`
	BlockedProfileID uuid.UUID `json:"blocked_profile_id" db:"blocked_profile_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// SendRequest sends an interest
type SendRequest struct {
	ToProfileID uuid.UUID `json:"to_profile_id" binding:"required"`
	Message     string    `json:"message"`
}

// BlockRequest blocks a profile
type BlockRequest struct {
	BlockedProfileID uuid.UUID `json:"blocked_profile_id" binding:"required"`
}
