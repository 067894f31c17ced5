package domain

import "time"

// Role constrains what an account is allowed to do in the console.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type Account struct {
	ID           int64
	Username     string // unique, case-sensitive, immutable after creation
	Email        string // unique
	PasswordHash string // bcrypt encoded, never empty for a persisted account
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
