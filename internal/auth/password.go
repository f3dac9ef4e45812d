// Package auth derives and checks password verifiers. Passwords are never
// stored; the database keeps an argon2id verifier alongside a per-account
// random salt.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

func deriveVerifier(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

// HashPassword returns a fresh salt and the matching verifier for password.
func HashPassword(password string) (salt, verifier []byte, err error) {
	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generating salt: %w", err)
	}
	return salt, deriveVerifier(password, salt), nil
}

// VerifyPassword reports whether password matches the stored salt/verifier
// pair, comparing in constant time.
func VerifyPassword(password string, salt, verifier []byte) bool {
	candidate := deriveVerifier(password, salt)
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}
