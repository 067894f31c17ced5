package service

import "errors"

// Domain error taxonomy. Callers discriminate with errors.Is; the underlying
// storage error text never crosses this boundary.
var (
	// ErrValidation reports malformed input. Recoverable by re-prompting.
	ErrValidation = errors.New("invalid input")

	// ErrDuplicateAccount reports a username or email uniqueness conflict.
	ErrDuplicateAccount = errors.New("username or email already in use")

	// ErrAccountNotFound reports a lookup miss.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned for BOTH an unknown username and a
	// wrong password. The single shared message is what makes username
	// enumeration impossible; never split it into two errors.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrSelfDeletion reports an attempt to delete the requesting account.
	ErrSelfDeletion = errors.New("cannot delete the currently authenticated account")

	// ErrSessionLocked reports an exhausted login attempt budget.
	ErrSessionLocked = errors.New("session locked: too many failed login attempts")

	// ErrAlreadyAuthenticated reports a login attempt on a session that
	// already holds an account.
	ErrAlreadyAuthenticated = errors.New("session already authenticated")
)

func validationError(msg string) error {
	return &fieldError{kind: ErrValidation, msg: msg}
}

// fieldError attaches a field-specific message to a taxonomy sentinel so the
// console can show something actionable while errors.Is still matches.
type fieldError struct {
	kind error
	msg  string
}

func (e *fieldError) Error() string { return e.msg }
func (e *fieldError) Unwrap() error { return e.kind }
