package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor applied when no explicit cost is
// configured. bcrypt embeds the cost and a random salt into the encoded
// hash, so two hashes of the same password differ yet both verify.
const DefaultBcryptCost = bcrypt.DefaultCost

// HashPassword computes a salted bcrypt hash of the given plaintext using
// the provided work factor. A cost outside the supported range falls back
// to [DefaultBcryptCost].
//
// Returns the encoded hash string or an error if hashing fails (e.g. the
// plaintext exceeds bcrypt's 72-byte input limit).
func HashPassword(plaintext string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches the encoded bcrypt hash.
// A malformed hash is treated as a verification failure, never a panic or
// an error the caller has to handle.
func VerifyPassword(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
