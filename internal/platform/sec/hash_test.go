// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangtk/passport/internal/platform/sec"
)

/*
TestEnsureHashed_HashesRawPassword verifies that a plaintext password comes back
as a bcrypt digest that still matches the original.
*/
func TestEnsureHashed_HashesRawPassword(t *testing.T) {
	hashed, err := sec.EnsureHashed("Secret123!")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret123!", hashed)
	assert.True(t, strings.HasPrefix(hashed, "$2"))
	assert.True(t, sec.IsHashed(hashed))
	assert.True(t, sec.CheckPassword("Secret123!", hashed))
	assert.False(t, sec.CheckPassword("Secret123", hashed))
}

/*
TestEnsureHashed_Idempotent verifies that applying the helper to an already
hashed value is a no-op, so a stored digest is never double-hashed.
*/
func TestEnsureHashed_Idempotent(t *testing.T) {
	first, err := sec.EnsureHashed("Secret123!")
	require.NoError(t, err)

	second, err := sec.EnsureHashed(first)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, sec.CheckPassword("Secret123!", second))
}

func TestEnsureHashed_EmptyStaysEmpty(t *testing.T) {
	hashed, err := sec.EnsureHashed("")
	require.NoError(t, err)
	assert.Empty(t, hashed)
}

func TestIsHashed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		hashed bool
	}{
		{"bcrypt_2a", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", true},
		{"bcrypt_2b", "$2b$12$abcdefghijklmnopqrstuv", true},
		{"bcrypt_2y", "$2y$10$abcdefghijklmnopqrstuv", true},
		{"plaintext", "Secret123!", false},
		{"empty", "", false},
		{"dollar_only", "$argon2id$something", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hashed, sec.IsHashed(tt.input))
		})
	}
}

func TestCheckPassword_RejectsGarbageHash(t *testing.T) {
	assert.False(t, sec.CheckPassword("Secret123!", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPassword("Secret123!", ""))
}
