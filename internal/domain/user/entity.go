package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the account capability tier (matches user_role enum).
// The trust registry moves accounts between member and restricted;
// reviewer and admin are granted manually.
type Role string

const (
	RoleMember     Role = "member"
	RoleRestricted Role = "restricted"
	RoleReviewer   Role = "reviewer"
	RoleAdmin      Role = "admin"
)

// Status represents account status (matches user_status enum)
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

// User represents a user account (matches users table)
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	Status       Status    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsReviewer returns true if user may act on the moderation queue
func (u *User) IsReviewer() bool {
	return u.Role == RoleReviewer || u.Role == RoleAdmin
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsRestricted returns true if user sits in the restricted tier
func (u *User) IsRestricted() bool {
	return u.Role == RoleRestricted
}
