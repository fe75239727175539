package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendee is a guest accompanying a graduate to the ceremony. The set
// belonging to a graduate is replaced wholesale on Level 2 submission and
// amended row-by-row on Level 3.
type Attendee struct {
	ID          uuid.UUID `json:"id"`
	GraduateID  uuid.UUID `json:"graduate_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth Date      `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
