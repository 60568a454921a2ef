package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinimumCost is the lowest bcrypt work factor a [Hasher] accepts.
const MinimumCost = 10

// maxPasswordLen is the longest input bcrypt will consider.
const maxPasswordLen = 72

// ErrPasswordTooLong is returned when a password exceeds what bcrypt can hash
// without truncation.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// Hasher produces and checks salted bcrypt digests at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost. Costs below
// [MinimumCost] or above bcrypt.MaxCost are rejected.
func NewHasher(cost int) (*Hasher, error) {
	if cost < MinimumCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", MinimumCost, bcrypt.MaxCost, cost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns a new digest for password. Every call uses a fresh salt, so
// hashing the same password twice yields different digests.
func (h *Hasher) Hash(password string) ([]byte, error) {
	if len(password) > maxPasswordLen {
		return nil, ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		// bcrypt errors never include the input
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Verify reports whether password matches digest.
func (h *Hasher) Verify(password string, digest []byte) bool {
	return ComparePassword(password, digest) == nil
}

// ComparePassword returns an error if the provided password does not resolve to
// the given hash.
func ComparePassword[T ~string | ~[]byte](password T, hash []byte) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}

