package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const gameIDLength = 8

// GenerateNewSessionID - generates a new unique player ID.
func GenerateNewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateGameID - generates a short game ID that can be shared with the opponent.
func GenerateGameID() (string, error) {
	b := make([]byte, gameIDLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(b), nil
}
