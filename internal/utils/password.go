package utils

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCodec hashes and verifies user passwords with bcrypt.
// The zero value uses bcrypt.DefaultCost.
type PasswordCodec struct {
	Cost int
}

// NewPasswordCodec returns a codec for the given cost, falling back to
// bcrypt.DefaultCost when the cost is outside bcrypt's accepted range.
func NewPasswordCodec(cost int) PasswordCodec {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordCodec{Cost: cost}
}

// Hash returns a salted bcrypt hash of password. The result encodes the
// algorithm version, cost and salt. Passwords of any length are accepted.
func (c PasswordCodec) Hash(password string) (string, error) {
	cost := c.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether candidate matches hash. A malformed hash never
// matches.
func (c PasswordCodec) Verify(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(candidate)) == nil
}

// prehash maps a password of any length to 44 bytes, under bcrypt's 72 byte
// input limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
