// Package creds generates the ephemeral per-session credentials handed to VPN
// clients together with a connection payload. They are throwaway values scoped
// to a single session lifetime, not account credentials.
package creds

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	usernameBytes = 6
	passwordBytes = 12
)

func NewUsername() (string, error) {
	b := make([]byte, usernameBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session username: %w", err)
	}
	return "u" + hex.EncodeToString(b), nil
}

func NewPassword() (string, error) {
	b := make([]byte, passwordBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session password: %w", err)
	}
	return hex.EncodeToString(b), nil
}
