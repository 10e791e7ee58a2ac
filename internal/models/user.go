package models

import "time"

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleLearner UserRole = "learner"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleLearner
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken is the server-side record of an issued refresh credential.
// Only the SHA-256 of the token value is stored.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash []byte
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
