package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const hashCost = 10

// HashPassword bcrypt-hashes a plaintext password. Called explicitly by the
// signup/reset handlers before the entity is persisted, so the hashing
// contract is visible at the call site.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
