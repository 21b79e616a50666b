// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidStaffKey = errors.New("invalid staff key")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateOTP creates a random numeric one-time code of the given number
// of digits. Codes are uniform over the digit space (rejection sampling),
// zero-padded so "004213" stays six characters.
func GenerateOTP(digits int) (string, error) {
	if digits < 4 || digits > 9 {
		return "", fmt.Errorf("otp length %d out of range", digits)
	}

	max := uint64(1)
	for i := 0; i < digits; i++ {
		max *= 10
	}

	// Rejection sampling to avoid modulo bias
	limit := (^uint64(0) / max) * max
	for {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		n := binary.BigEndian.Uint64(buf[:])
		if n < limit {
			return fmt.Sprintf("%0*d", digits, n%max), nil
		}
	}
}

// GenerateSessionToken creates a random secure token for a verified voter.
// The token authorizes exactly one ballot submission.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return "tok_" + strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateStaffKey creates an HMAC-based access key for a staff role
// (admin or officer). Deterministic from role and salt, so the service can
// validate a key without storing it.
func GenerateStaffKey(role, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(role))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateStaffKey checks if the provided key is valid for the role
func ValidateStaffKey(role, key, salt string) error {
	expected := GenerateStaffKey(role, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidStaffKey
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for audit-log privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
