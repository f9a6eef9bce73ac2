// Package crypto provides password hashing and verification.
package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var cost = bcrypt.DefaultCost

// SetCost changes the bcrypt cost used by HashPassword. Zero restores the
// default; out-of-range values are clamped to bcrypt's limits.
func SetCost(c int) {
	switch {
	case c == 0:
		cost = bcrypt.DefaultCost
	case c < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case c > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	default:
		cost = c
	}
}

// Cost returns the bcrypt cost currently in use.
func Cost() int {
	return cost
}

// HashPassword generates a salted bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

// CheckPasswordHash verifies if the given password matches the bcrypt hash.
func CheckPasswordHash(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
