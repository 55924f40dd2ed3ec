package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

var hashSalt string

func init() {
	// Load salt from environment or generate a default one
	// In production, set LOG_HASH_SALT environment variable
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

// HashUserID creates a privacy-preserving hash of a chat user id.
// This allows tracking user actions without exposing actual user ids.
func HashUserID(userID string) string {
	data := fmt.Sprintf("%s:%s", userID, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// Return first 8 characters for readability
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeMessage redacts a chat message but preserves length information
// for debugging.
func SanitizeMessage(msg string) string {
	if msg == "" {
		return "<empty>"
	}

	words := strings.Fields(msg)
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(words), len(msg))
}

// SanitizeText is a general-purpose sanitizer for any user-provided text.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	// For short text, show only the length
	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}

	// For longer text, show prefix and length
	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
