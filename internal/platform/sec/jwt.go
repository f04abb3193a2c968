// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, token
// signing and verification) from the domain logic. It acts as an
// Infrastructure service injected into the Application layer.
package sec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Failure Taxonomy

var (
	// ErrTokenMalformed covers every structural failure: the token does not
	// parse, uses an unexpected algorithm, or its signature does not verify.
	// Signature failures are potential tampering and callers log them at
	// error level.
	ErrTokenMalformed = errors.New("sec: token is malformed or its signature is invalid")

	// ErrTokenExpired means the token parsed and its signature verified, but
	// the current time is at or past the 'exp' claim. This is the expected,
	// non-adversarial end of a token's life and is logged at warn level.
	ErrTokenExpired = errors.New("sec: token has expired")
)

// # Claims

// AuthorityList is the 'authorities' claim: the role names granted to the subject.
//
// # Legacy Tolerance
//
// Historically two producers serialized this claim differently: the canonical
// plain array of strings, and an array of objects each carrying an "authority"
// key. Decoding accepts both shapes for compatibility with tokens minted by
// the older producer; encoding always emits the canonical string array. The
// object form is deprecated input only — do not rely on it in new clients.
type AuthorityList []string

// UnmarshalJSON attempts the strict string-array decode first, then falls back
// to the legacy object shape.
func (list *AuthorityList) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		*list = plain
		return nil
	}

	var legacy []struct {
		Authority string `json:"authority"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("sec: authorities claim has unsupported shape: %w", err)
	}

	names := make([]string, 0, len(legacy))
	for _, entry := range legacy {
		names = append(names, entry.Authority)
	}

	*list = names
	return nil
}

// Contains reports whether the list grants the given authority name.
func (list AuthorityList) Contains(authority string) bool {
	for _, name := range list {
		if name == authority {
			return true
		}
	}
	return false
}

// AuthClaims is the payload embedded inside a signed access token.
//
// # Why self-contained?
//
// By carrying the subject and its authorities inside the token itself, the
// validation middleware reconstructs the request principal WITHOUT touching
// the database. The server keeps no per-session record.
type AuthClaims struct {
	jwt.RegisteredClaims

	Authorities AuthorityList `json:"authorities"`
}

// # Token Service

// TokenService issues and validates signed access tokens using HS256.
//
// One instance is shared by the login endpoint (issue path) and the
// validation middleware (verify path) so both sides always use the same
// process-wide key.
type TokenService struct {
	key      SigningKey
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

// TokenServiceOption customizes a [TokenService].
type TokenServiceOption func(*TokenService)

// WithClock overrides the time source. Intended for tests that need to sit
// exactly on the expiration boundary.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a TokenService sealed with the given key.
//
// The lifetime is fixed for every token the service issues; it is a
// process-wide constant, not configurable per call.
func NewTokenService(key SigningKey, issuer string, lifetime time.Duration, options ...TokenServiceOption) *TokenService {
	service := &TokenService{
		key:      key,
		issuer:   issuer,
		lifetime: lifetime,
		now:      time.Now,
	}

	for _, option := range options {
		option(service)
	}

	return service
}

// Issue creates a signed compact token for the subject with the given authorities.
//
// # Claims
//   - sub: the principal identifier (username).
//   - authorities: the granted role names.
//   - iat: issuance time.
//   - exp: iat + the fixed lifetime.
func (service *TokenService) Issue(subject string, authorities []string) (string, error) {
	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.lifetime)),
		},
		Authorities: authorities,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(service.key))
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Validate parses a compact token string and returns its verified claims.
//
// The signature is checked before any claim value is trusted; a token that
// fails structurally or cryptographically yields [ErrTokenMalformed], and a
// verified token past its 'exp' yields [ErrTokenExpired]. Partially-trusted
// claims are never returned alongside an error.
func (service *TokenService) Validate(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(service.key), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(service.now),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
