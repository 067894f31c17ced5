package service

import (
	"context"
	"errors"

	"github.com/ecotech-solutions/ecotech/internal/domain"
	"github.com/ecotech-solutions/ecotech/pkg/idx"
)

// DefaultMaxAttempts is the login attempt budget for a fresh session.
const DefaultMaxAttempts = 3

// SessionState is the position of a Session in its login state machine.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticated
	StateLocked
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Session is a bounded-attempt login state machine. Each caller owns its own
// instance; there is no process-wide "current user". The type carries no
// locking because a session belongs to exactly one client. A service
// embedding this must construct one Session per connected client and decide
// its own lockout policy (e.g. a cooldown window); the state machine itself
// never terminates the process.
type Session struct {
	id       idx.ID
	accounts Authenticator
	max      int

	state     SessionState
	remaining int
	current   *domain.Account
}

// Authenticator is the slice of AccountService the session depends on.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (domain.Account, error)
}

// NewSession returns an unauthenticated session with the given attempt
// budget. Budgets below 1 fall back to DefaultMaxAttempts.
func NewSession(accounts Authenticator, maxAttempts int) *Session {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Session{
		id:        idx.New(),
		accounts:  accounts,
		max:       maxAttempts,
		state:     StateUnauthenticated,
		remaining: maxAttempts,
	}
}

// ID identifies this session in logs.
func (s *Session) ID() idx.ID { return s.id }

// State reports the current state machine position.
func (s *Session) State() SessionState { return s.state }

// AttemptsRemaining reports how many failed logins are still tolerated.
func (s *Session) AttemptsRemaining() int { return s.remaining }

// Current returns the authenticated account, or nil outside StateAuthenticated.
func (s *Session) Current() *domain.Account { return s.current }

// Attempt runs one login attempt. Exactly one unit of budget is consumed per
// credential failure; no attempt is ever silently retried. A locked session
// rejects the call outright without consulting storage. Errors that are not
// credential failures (e.g. storage connectivity) pass through untouched and
// leave the budget alone.
func (s *Session) Attempt(ctx context.Context, username, password string) (domain.Account, error) {
	switch s.state {
	case StateLocked:
		return domain.Account{}, ErrSessionLocked
	case StateAuthenticated:
		return domain.Account{}, ErrAlreadyAuthenticated
	}

	account, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.remaining--
			if s.remaining <= 0 {
				s.state = StateLocked
				return domain.Account{}, ErrSessionLocked
			}
			return domain.Account{}, err
		}
		return domain.Account{}, err
	}

	s.state = StateAuthenticated
	s.current = &account
	return account, nil
}

// Logout returns an authenticated session to its initial state with a full
// attempt budget, ready for a fresh login cycle.
func (s *Session) Logout() error {
	if s.state != StateAuthenticated {
		return errors.New("session: not authenticated")
	}
	s.state = StateUnauthenticated
	s.current = nil
	s.remaining = s.max
	return nil
}
