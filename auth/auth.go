// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// CodeAlphabet is the symbol set for session codes (lowercase letters + digits)
const CodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

const (
	DefaultCodeLength = 4
	MaxCodeLength     = 10

	minUsernameLen = 2
	maxUsernameLen = 50
)

var (
	ErrInvalidToken    = errors.New("invalid token format")
	ErrInvalidUsername = errors.New("username must be 2-50 characters of letters, digits, or _.@+-")
)

// GenerateCode returns length symbols drawn uniformly from CodeAlphabet.
// Uniqueness is not guaranteed; callers rely on the session.code index.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length %d", length)
	}

	size := big.NewInt(int64(len(CodeAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to generate session code: %w", err)
		}
		b[i] = CodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// IsValidCode reports whether code could have come from GenerateCode
func IsValidCode(code string) bool {
	if len(code) < 1 || len(code) > MaxCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(CodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}

// ValidateUsername checks length and the allowed character set
func ValidateUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return ErrInvalidUsername
	}
	for _, c := range username {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("_.@+-", c):
		default:
			return ErrInvalidUsername
		}
	}
	return nil
}

// GenerateUserToken creates a bearer token of the form <username>.<mac>.
// This is deterministic and verifiable without storage.
func GenerateUserToken(username, secret string) (string, error) {
	if err := ValidateUsername(username); err != nil {
		return "", err
	}
	return username + "." + sign(username, secret), nil
}

// ParseUserToken verifies a token and returns the username it names
func ParseUserToken(token, secret string) (string, error) {
	// The MAC is base64url and never contains '.', usernames may
	i := strings.LastIndexByte(token, '.')
	if i <= 0 || i == len(token)-1 {
		return "", ErrInvalidToken
	}
	username, mac := token[:i], token[i+1:]
	if err := ValidateUsername(username); err != nil {
		return "", ErrInvalidToken
	}

	expected := sign(username, secret)
	if !hmac.Equal([]byte(mac), []byte(expected)) {
		return "", ErrInvalidToken
	}
	return username, nil
}

func sign(username, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(username))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}
