package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the minimum accepted plaintext length.
	MinPasswordLength = 6

	// DefaultCost is the bcrypt work factor (2^12 internal rounds). It is a
	// deliberate security/performance trade-off; override it through
	// NewHasher rather than editing this constant.
	DefaultCost = 12
)

// ErrPasswordTooShort reports a plaintext that fails the length policy.
var ErrPasswordTooShort = errors.New("cryptox: password shorter than minimum length")

// Hasher produces and verifies salted one-way password hashes. The zero
// value is not usable; construct it with NewHasher.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside the
// range bcrypt accepts fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost reports the configured work factor.
func (h *Hasher) Cost() int { return h.cost }

// Hash generates a self-describing bcrypt hash embedding a fresh random salt
// and the configured cost. Two calls on the same input yield different
// strings; both verify.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches encodedHash. Malformed hashes
// report no match rather than an error, so a caller cannot tell a corrupt
// stored hash apart from a wrong password. bcrypt's comparison is
// constant-time over the digest.
func (h *Hasher) Verify(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}
