package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a coarse capability label used for authorization decisions.
type Role string

const (
	// RoleStudent is the default role assigned on registration.
	RoleStudent Role = "student"
	// RoleInstructor can author course material.
	RoleInstructor Role = "instructor"
	// RoleAdmin manages users and contact submissions.
	RoleAdmin Role = "admin"
)

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// Create inserts a new user. Email uniqueness is enforced by the store and
	// reported as ErrDuplicateEmail.
	Create(ctx context.Context, user User) (User, error)
	// Save persists the mutable fields of an existing user.
	Save(ctx context.Context, user User) (User, error)
}

// User represents a stored identity with its authentication material.
type User struct {
	ID                uuid.UUID
	FullName          string
	Email             string
	PasswordHash      string `json:"-"`
	Role              Role
	IsActive          bool
	Avatar            string
	Bio               string
	PasswordChangedAt *time.Time
	LastLoginAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Public returns a copy of the user without the password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// PasswordChangedAfter reports whether the password was changed after a token
// issued at issuedAt. Comparison is done on whole epoch seconds, the
// resolution of token timestamps.
func (u User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > issuedAt.Unix()
}

// Registration carries the data needed to create a user.
type Registration struct {
	FullName string
	Email    string
	Password string
	// Role overrides the default student role when non-empty.
	Role Role
}

// ProfileUpdate lists the profile fields a user may change. Nil fields are left intact.
type ProfileUpdate struct {
	FullName *string
	Bio      *string
}

// Session is the result of a successful credential exchange.
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time
}
