// Package auth holds password hashing helpers. Raw passwords are hashed
// immediately and never stored, logged or returned.
package auth

import "golang.org/x/crypto/bcrypt"

const hashCost = 10

// HashPassword returns the salted bcrypt hash of a raw password.
func HashPassword(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether raw matches the stored hash.
func VerifyPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
