package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecotech-solutions/ecotech/internal/domain"
	"github.com/ecotech-solutions/ecotech/internal/store"
	"github.com/ecotech-solutions/ecotech/pkg/cryptox"
)

// AccountService orchestrates account CRUD and credential checks on top of
// the store and the password hasher. It owns validation and the translation
// of storage errors into the domain taxonomy.
type AccountService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
}

// UpdateRequest carries a partial account update. Nil fields are left
// untouched. A supplied password is re-hashed before it reaches storage.
type UpdateRequest struct {
	Email    *string
	Role     *domain.Role
	Password *string
}

// Create validates, hashes the password and inserts the account. The
// returned account carries the storage-assigned id.
func (s *AccountService) Create(
	ctx context.Context,
	username, email, password string,
	role domain.Role,
) (domain.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return domain.Account{}, validationError("username must not be empty")
	}
	if err := validateEmail(email); err != nil {
		return domain.Account{}, err
	}
	if !role.Valid() {
		return domain.Account{}, validationError(fmt.Sprintf("role must be %q or %q", domain.RoleUser, domain.RoleAdmin))
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooShort) {
			return domain.Account{}, validationError(
				fmt.Sprintf("password must be at least %d characters", cryptox.MinPasswordLength))
		}
		return domain.Account{}, fmt.Errorf("hashing password: %w", err)
	}

	account := domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	id, err := s.Store.Accounts().Insert(ctx, account)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrDuplicateAccount
		}
		return domain.Account{}, fmt.Errorf("inserting account: %w", err)
	}
	account.ID = id

	return account, nil
}

// GetByUsername fetches an account by its exact username.
func (s *AccountService) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("looking up account: %w", err)
	}
	return account, nil
}

// GetByID fetches an account by id.
func (s *AccountService) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	account, err := s.Store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("looking up account: %w", err)
	}
	return account, nil
}

// List returns every account ordered by id.
func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.Store.Accounts().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

// Authenticate verifies the credentials and returns the account. An unknown
// username and a wrong password both produce ErrInvalidCredentials; the two
// cases are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrInvalidCredentials
		}
		return domain.Account{}, fmt.Errorf("looking up account: %w", err)
	}

	if !s.Hasher.Verify(password, account.PasswordHash) {
		return domain.Account{}, ErrInvalidCredentials
	}

	return account, nil
}

// Update applies a partial update. Unspecified fields stay untouched; a new
// password is hashed here so plaintext never reaches the store.
func (s *AccountService) Update(ctx context.Context, id int64, req UpdateRequest) (domain.Account, error) {
	fields := store.UpdateFields{}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if err := validateEmail(email); err != nil {
			return domain.Account{}, err
		}
		fields.Email = &email
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return domain.Account{}, validationError(fmt.Sprintf("role must be %q or %q", domain.RoleUser, domain.RoleAdmin))
		}
		fields.Role = req.Role
	}
	if req.Password != nil {
		hash, err := s.Hasher.Hash(*req.Password)
		if err != nil {
			if errors.Is(err, cryptox.ErrPasswordTooShort) {
				return domain.Account{}, validationError(
					fmt.Sprintf("password must be at least %d characters", cryptox.MinPasswordLength))
			}
			return domain.Account{}, fmt.Errorf("hashing password: %w", err)
		}
		fields.PasswordHash = &hash
	}

	account, err := s.Store.Accounts().Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Account{}, ErrAccountNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.Account{}, ErrDuplicateAccount
		}
		return domain.Account{}, fmt.Errorf("updating account: %w", err)
	}
	return account, nil
}

// Delete removes an account. The requesting account can never delete itself;
// the guard runs before any storage access.
func (s *AccountService) Delete(ctx context.Context, id, requestingID int64) error {
	if id == requestingID {
		return ErrSelfDeletion
	}

	if err := s.Store.Accounts().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("deleting account: %w", err)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return validationError("email must not be empty")
	}
	if !strings.Contains(email, "@") {
		return validationError("email must contain '@'")
	}
	return nil
}
