// Package password wraps bcrypt hashing behind a small interface so services
// and tests never touch the library directly.
package password

import "golang.org/x/crypto/bcrypt"

// Cost matches the work factor of the original service. bcrypt embeds the
// cost and salt in the hash, so Verify needs no side-channel state.
const Cost = 10

// Hasher produces and checks salted one-way password hashes.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
	// DummyVerify burns a full comparison without a real hash, so the
	// unknown-account login path costs the same as a wrong password.
	DummyVerify(plaintext string) bool
}

// BcryptHasher implements Hasher with golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = Cost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is treated
// as a mismatch, never an error.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// dummyHash is a valid bcrypt hash of a random string, compared against when
// no real hash exists for the supplied email.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (h *BcryptHasher) DummyVerify(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
	return false
}
