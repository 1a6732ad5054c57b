package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	shareTokenAlphabet = "0123456789abcdef"

	// ShareTokenLength is the number of hex characters in a share token.
	// 32 hex characters carry 128 bits from crypto/rand.
	ShareTokenLength = 32
)

// ShareToken returns a new unguessable public identifier for a shared record.
// The token is drawn from crypto/rand and never derived from record data.
func ShareToken() (string, error) {
	token, err := gonanoid.Generate(shareTokenAlphabet, ShareTokenLength)
	if err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return token, nil
}

// IsShareToken reports whether s has the shape of a share token.
// It is a cheap pre-check before touching storage.
func IsShareToken(s string) bool {
	if len(s) != ShareTokenLength {
		return false
	}
	return strings.Trim(s, shareTokenAlphabet) == ""
}

// MustShareToken is like ShareToken but panics if generation fails.
func MustShareToken() string {
	token, err := ShareToken()
	if err != nil {
		panic(fmt.Sprintf("failed to generate share token: %v", err))
	}
	return token
}
