// Package auth provides password hashing and the JWT session manager.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"prayerchain/internal/logger"
)

// HashPassword returns a bcrypt hash for the provided plaintext.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash. The
// comparison is constant-time.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidPassword reports whether plaintext matches the stored hash. A
// library failure (corrupt hash, unsupported cost) is logged and treated
// as a non-match; it is never surfaced to the caller.
func ValidPassword(log *logger.Logger, hash, password string) bool {
	err := CheckPassword(hash, password)
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		log.Error("password comparison failed", "err", err)
	}
	return false
}
