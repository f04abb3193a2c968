// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package sec

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptPrefixes are the recognized hash-algorithm markers. A value starting
// with one of these is treated as already hashed. This is a format heuristic,
// not a cryptographic check.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// IsHashed reports whether the value carries a recognized bcrypt prefix.
func IsHashed(value string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// EnsureHashed returns a bcrypt hash of the value, hashing at most once.
//
// # Idempotence
//
// An already-hashed value is returned unchanged, so repeated updates through
// this function can never produce a hash-of-a-hash. An empty value is
// returned as-is and never causes an error.
func EnsureHashed(rawOrHash string) (string, error) {
	if rawOrHash == "" {
		return "", nil
	}

	if IsHashed(rawOrHash) {
		return rawOrHash, nil
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(rawOrHash), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// CheckPassword compares a plain-text password with its stored hash.
// bcrypt performs the comparison in constant time to resist timing attacks.
func CheckPassword(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
