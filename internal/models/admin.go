package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleAdmin is the role granted to accounts created via /admin/create and
// the role required to manage other administrator accounts.
const RoleAdmin = "admin"

// Administrator is a back-office account. The password hash never leaves
// the process.
type Administrator struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
