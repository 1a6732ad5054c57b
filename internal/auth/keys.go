// Package auth provides password hashing and token issuance for brain accounts.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// KeyLength is the size of the generated signing key. PASETO v4.local
	// requires exactly 256 bits; HS256 accepts it as a secret.
	KeyLength = 32

	keyHexLength = KeyLength * 2
	keyFileName  = "auth.key"
)

// LoadOrGenerateKey loads the token signing key stored in <dataPath>/auth.key,
// generating and persisting a new one on first start.
// The file holds the key hex-encoded and is readable by the owner only.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, keyFileName)

	//#nosec G304 -- Key path is derived from the configured data path
	if keyBytes, err := os.ReadFile(keyPath); err == nil {
		keyHex := strings.TrimSpace(string(keyBytes))

		if len(keyHex) != keyHexLength {
			return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", keyHexLength, len(keyHex))
		}

		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid auth key format: not valid hex: %w", err)
		}

		return key, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read auth key: %w", err)
	}

	key := make([]byte, KeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save auth key: %w", err)
	}

	return key, nil
}
