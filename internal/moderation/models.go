package moderation

import (
	"time"

	"github.com/google/uuid"
)

// Report statuses
const (
	ReportOpen     = "open"
	ReportResolved = "resolved"
	ReportRejected = "rejected"
)

// Queue item statuses
const (
	ItemPending  = "pending"
	ItemResolved = "resolved"
)

// Queue item types produced by the engine
const (
	ItemHighRisk        = "high_risk"
	ItemDeletionRequest = "deletion_request"
	ItemUserReport      = "user_report"
)

// Report is a user-filed complaint against another profile
type Report struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	ReporterProfileID uuid.UUID  `json:"reporter_profile_id" db:"reporter_profile_id"`
	ReportedProfileID uuid.UUID  `json:"reported_profile_id" db:"reported_profile_id"`
	Reason            string     `json:"reason" db:"reason"`
	Details           string     `json:"details" db:"details"`
	Status            string     `json:"status" db:"status"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy        *string    `json:"resolved_by,omitempty" db:"resolved_by"`
}

// QueueItem is a unit of work awaiting moderator review
type QueueItem struct {
	ID         uuid.UUID              `json:"id" db:"id"`
	ItemType   string                 `json:"item_type" db:"item_type"`
	ProfileID  uuid.UUID              `json:"profile_id" db:"profile_id"`
	Payload    map[string]interface{} `json:"payload" db:"payload"`
	Status     string                 `json:"status" db:"status"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
	ResolvedAt *time.Time             `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy *string                `json:"resolved_by,omitempty" db:"resolved_by"`
}

// SubmitReportRequest files a report against a profile
type SubmitReportRequest struct {
	ReportedProfileID uuid.UUID `json:"reported_profile_id" binding:"required"`
	Reason            string    `json:"reason" binding:"required,oneof=fake_profile financial_scam harassment misrepresentation"`
	Details           string    `json:"details"`
}
