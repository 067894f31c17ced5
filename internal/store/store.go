package store

import (
	"context"
	"errors"

	"github.com/ecotech-solutions/ecotech/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories so the service layer never sees
// driver details, and so tests can substitute an in-memory fake without any
// global state.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// UpdateFields carries a partial account update. Nil fields are left
// untouched by the driver.
type UpdateFields struct {
	Email        *string
	Role         *domain.Role
	PasswordHash *string
}

// IsZero reports whether no field was supplied.
func (f UpdateFields) IsZero() bool {
	return f.Email == nil && f.Role == nil && f.PasswordHash == nil
}

type Accounts interface {
	// Insert creates a new account and returns the storage-assigned id.
	// Uniqueness of username and email is enforced by storage constraints,
	// never pre-checked in memory, so it stays correct under concurrent
	// writers. Conflicts surface as ErrAlreadyExists.
	Insert(ctx context.Context, a domain.Account) (int64, error)

	// GetByUsername returns the account with the exact (case-sensitive)
	// username, or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (domain.Account, error)

	// GetByID returns the account with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (domain.Account, error)

	// ListAll returns every account ordered by id ascending.
	ListAll(ctx context.Context) ([]domain.Account, error)

	// Update applies the supplied fields only and returns the updated row.
	// Returns ErrNotFound for an unknown id and ErrAlreadyExists when the
	// new email collides with another account.
	Update(ctx context.Context, id int64, fields UpdateFields) (domain.Account, error)

	// Delete removes the account. Returns ErrNotFound if no row matched.
	// Deleted ids are never reused.
	Delete(ctx context.Context, id int64) error
}
