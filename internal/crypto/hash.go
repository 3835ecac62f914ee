package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for new hashes. Stored hashes embed their
// own cost, so raising this never invalidates existing credentials.
const bcryptCost = 12

// HashPassword hashes a password with bcrypt. The salt is generated and
// embedded in the returned hash string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored bcrypt
// hash. Comparison cost is dominated by the hash computation itself, so it
// does not vary usefully with how wrong the password is.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
