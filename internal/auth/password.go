package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

const (
	// DefaultBcryptCost matches the work factor existing accounts were hashed with.
	DefaultBcryptCost = 10

	argon2Memory      = 64 * 1024
	argon2Iterations  = 3
	argon2Parallelism = 4
	argon2SaltLength  = 16
	argon2KeyLength   = 32

	// Stops oversized inputs from burning CPU in the slow hash.
	maxPasswordLength = 1024
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// ErrPasswordTooLong is returned when a password exceeds maxPasswordLength.
var ErrPasswordTooLong = errors.New("password exceeds maximum length")

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	// Hash returns a salted, encoded hash. Two calls with the same input differ.
	Hash(password string) (string, error)

	// Verify reports whether password matches encodedHash.
	// Malformed hashes verify as false, never as an error.
	Verify(password, encodedHash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher. A cost outside bcrypt's range falls back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements PasswordHasher.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if err := checkPassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Verify implements PasswordHasher.
func (h *BcryptHasher) Verify(password, encodedHash string) bool {
	if len(password) > maxPasswordLength {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}

// Argon2idHasher implements PasswordHasher with argon2id in PHC string format.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash implements PasswordHasher.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if err := checkPassword(password); err != nil {
		return "", err
	}

	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		argon2Iterations,
		argon2Memory,
		argon2Parallelism,
		argon2KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Iterations,
		argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify implements PasswordHasher.
func (h *Argon2idHasher) Verify(password, encodedHash string) bool {
	if len(password) > maxPasswordLength {
		return false
	}

	salt, hash, params, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return false
	}

	testHash := argon2.IDKey(
		[]byte(password),
		salt,
		params.iterations,
		params.memory,
		params.parallelism,
		params.keyLength,
	)

	return subtle.ConstantTimeCompare(hash, testHash) == 1
}

// argon2Params holds the parameters extracted from an encoded hash.
type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	keyLength   uint32
}

func decodeArgon2Hash(encodedHash string) (salt, hash []byte, params *argon2Params, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, errors.New("invalid hash format")
	}
	if parts[1] != AlgorithmArgon2id {
		return nil, nil, nil, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("incompatible version: %d", version)
	}

	params = &argon2Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.iterations, &params.parallelism); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.iterations == 0 || params.parallelism == 0 {
		return nil, nil, nil, errors.New("invalid parameters: zero cost")
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid salt encoding: %w", err)
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(hash) == 0 {
		return nil, nil, nil, errors.New("empty hash")
	}

	//nolint:gosec // Length was produced by argon2KeyLength, never near uint32 max
	params.keyLength = uint32(len(hash))

	return salt, hash, params, nil
}

// Hasher hashes new passwords with one algorithm and verifies stored hashes
// with whichever algorithm produced them, so switching algorithms does not
// lock out existing accounts.
type Hasher struct {
	primary  PasswordHasher
	bcrypt   *BcryptHasher
	argon2id *Argon2idHasher
}

// NewHasher creates a Hasher that hashes with the named algorithm.
func NewHasher(algorithm string, bcryptCost int) (*Hasher, error) {
	h := &Hasher{
		bcrypt:   NewBcryptHasher(bcryptCost),
		argon2id: NewArgon2idHasher(),
	}

	switch algorithm {
	case AlgorithmBcrypt, "":
		h.primary = h.bcrypt
	case AlgorithmArgon2id:
		h.primary = h.argon2id
	default:
		return nil, fmt.Errorf("unsupported password hasher %q", algorithm)
	}

	return h, nil
}

// Hash implements PasswordHasher.
func (h *Hasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

// Verify implements PasswordHasher.
func (h *Hasher) Verify(password, encodedHash string) bool {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return h.argon2id.Verify(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return h.bcrypt.Verify(password, encodedHash)
	default:
		return false
	}
}

func checkPassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
