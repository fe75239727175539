package models

import (
	"time"

	"github.com/google/uuid"
)

// Email types dispatched by the workflow.
const (
	EmailTypeInvitation      = "invitation"
	EmailTypeLevelTwoLink    = "level2_link"
	EmailTypeAttendeeSummary = "attendee_summary"
)

// Dispatch outcomes. Simulated marks a send skipped because no SMTP host is
// configured; it counts as success for the caller.
const (
	EmailStatusSent      = "sent"
	EmailStatusFailed    = "failed"
	EmailStatusSimulated = "simulated"
)

// EmailLog records one outbound dispatch attempt.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	GraduateID     *uuid.UUID `json:"graduate_id,omitempty"`
	EmailType      string     `json:"email_type"`
	RecipientEmail string     `json:"recipient_email"`
	Subject        string     `json:"subject,omitempty"`
	Status         string     `json:"status"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
