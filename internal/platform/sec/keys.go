// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SigningKeySize is the byte length of the HMAC signing key (256-bit for HS256).
const SigningKeySize = 32

// SigningKey is the process-wide symmetric key used to seal and verify tokens.
//
// # Lifecycle
//
// The key is created exactly once during startup and injected into the single
// [TokenService] shared by the issuing and validating paths. It is immutable
// after creation and is never regenerated per call.
//
// # Restart Behavior
//
// When no external key is configured, the key lives only in process memory.
// Every outstanding token becomes invalid on restart, which is an accepted
// trade-off of the stateless design: there is no revocation list, so the key
// is the only kill switch.
type SigningKey []byte

// NewSigningKey generates a fresh random signing key from the OS entropy source.
func NewSigningKey() (SigningKey, error) {
	key := make([]byte, SigningKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("sec: failed to generate signing key: %w", err)
	}
	return key, nil
}

// ParseSigningKey decodes a hex-encoded signing key supplied via configuration.
//
// Deployments running more than one replica must share a key this way,
// otherwise tokens issued by one replica are rejected by the others.
func ParseSigningKey(encoded string) (SigningKey, error) {
	key, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("sec: signing key is not valid hex: %w", err)
	}

	if len(key) != SigningKeySize {
		return nil, fmt.Errorf("sec: signing key must be %d bytes, got %d", SigningKeySize, len(key))
	}

	return key, nil
}
