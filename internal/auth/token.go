package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Session token format: st_{secret}
// Example: st_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	// TokenSecretLen is the secret length (hex encoded 16 bytes).
	TokenSecretLen = 32
)

var (
	// ErrInvalidTokenFormat indicates the token format is invalid.
	ErrInvalidTokenFormat = errors.New("invalid session token format")
	// tokenFormatRegex validates the token format.
	tokenFormatRegex = regexp.MustCompile(`^st_([a-f0-9]{32})$`)
)

// GenerateSessionToken creates a new opaque bearer token for a login
// session. The plaintext is handed to the client once; only a digest is
// used server-side as the session cache key.
func GenerateSessionToken() (string, error) {
	secretBytes := make([]byte, 16)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return "st_" + hex.EncodeToString(secretBytes), nil
}

// ValidateTokenFormat checks if the token matches the expected format.
func ValidateTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}

// TokenDigest returns a truncated SHA256 hash of a token for use as a
// session cache key. This is NOT for password storage.
func TokenDigest(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:16]) // first 16 bytes (32 hex chars)
}
