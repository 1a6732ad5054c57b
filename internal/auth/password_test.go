package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secr3t!pw")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, h.Verify("Secr3t!pw", hash))
	assert.False(t, h.Verify("Secr3t!pW", hash))
}

func TestBcryptHasher_SaltsEveryHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("Secr3t!pw")
	require.NoError(t, err)
	b, err := h.Hash("Secr3t!pw")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	h := NewBcryptHasher(0)

	hash, err := h.Hash("Secr3t!pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestArgon2idHasher_HashAndVerify(t *testing.T) {
	h := NewArgon2idHasher()

	hash, err := h.Hash("Secr3t!pw")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	assert.True(t, h.Verify("Secr3t!pw", hash))
	assert.False(t, h.Verify("wrong", hash))
}

func TestHash_RejectsEmptyPassword(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = NewArgon2idHasher().Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHasher_VerifiesEitherAlgorithm(t *testing.T) {
	bcryptHash, err := NewBcryptHasher(bcrypt.MinCost).Hash("Secr3t!pw")
	require.NoError(t, err)
	argonHash, err := NewArgon2idHasher().Hash("Secr3t!pw")
	require.NoError(t, err)

	for _, algorithm := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		t.Run(algorithm, func(t *testing.T) {
			h, err := NewHasher(algorithm, bcrypt.MinCost)
			require.NoError(t, err)

			assert.True(t, h.Verify("Secr3t!pw", bcryptHash))
			assert.True(t, h.Verify("Secr3t!pw", argonHash))
		})
	}
}

func TestHasher_HashesWithConfiguredAlgorithm(t *testing.T) {
	h, err := NewHasher(AlgorithmArgon2id, 0)
	require.NoError(t, err)

	hash, err := h.Hash("Secr3t!pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
}

func TestHasher_UnknownAlgorithm(t *testing.T) {
	_, err := NewHasher("md5", 0)
	assert.Error(t, err)
}

func TestHasher_MalformedHashesNeverMatch(t *testing.T) {
	h, err := NewHasher(AlgorithmBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	for _, hash := range []string{
		"",
		"plaintext",
		"$2a$10$tooshort",
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$!!!",
		"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=0,p=4$c2FsdA$aGFzaA",
	} {
		assert.False(t, h.Verify("Secr3t!pw", hash), "hash %q", hash)
	}
}
