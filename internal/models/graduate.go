package models

import (
	"time"

	"github.com/google/uuid"
)

// Stage is a graduate's position in the registration workflow.
type Stage int

const (
	// StageDetails: invited, identity and attendance not yet submitted.
	StageDetails Stage = 1
	// StageGuests: attendance recorded, guest list pending.
	StageGuests Stage = 2
	// StageAmend: guest list submitted, amendments and final confirmation pending.
	StageAmend Stage = 3
)

// Valid reports whether s is one of the defined workflow stages.
func (s Stage) Valid() bool {
	return s >= StageDetails && s <= StageAmend
}

// Graduate is an invitee of the ceremony. Rows are created by the admin
// invitation batch and mutated by each stage transition; they are never
// deleted. The token pair gates the next stage transition: each successful
// Level-1/Level-2 submission overwrites it, so at most one live token exists
// per graduate.
type Graduate struct {
	ID                   uuid.UUID  `json:"id"`
	Email                string     `json:"email"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Promotion            string     `json:"promotion"`
	IsAttending          *bool      `json:"is_attending"` // null until Level 1 completes
	RegistrationStage    Stage      `json:"registration_stage"`
	RegistrationComplete bool       `json:"registration_complete"`
	RegistrationToken    *string    `json:"-"`
	TokenExpiry          *time.Time `json:"-"`
	RegistrationDate     time.Time  `json:"registration_date"`
	LastUpdated          time.Time  `json:"last_updated"`
}
