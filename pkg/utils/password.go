package utils

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the single work factor used for every registration variant.
const BcryptCost = 10

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash safely compares a plaintext password against its hash.
// A mismatch returns false, never an error.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
