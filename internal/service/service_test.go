package service

import (
	"path/filepath"
	"testing"

	"github.com/secondbrain/brain-server/internal/auth"
	domainerrors "github.com/secondbrain/brain-server/internal/errors"
	"github.com/secondbrain/brain-server/internal/store"
	"github.com/secondbrain/brain-server/internal/validation"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreCurrent())
}

type testServices struct {
	store   *store.Badger
	tokens  *auth.TokenService
	auth    *AuthService
	tags    *TagService
	content *ContentService
}

// setupServices wires every service against a fresh Badger store in a temp dir.
func setupServices(t *testing.T) *testServices {
	t.Helper()

	dir := t.TempDir()
	s, err := store.New(filepath.Join(dir, "badger"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(auth.FormatJWT, key, 0)
	require.NoError(t, err)

	tags := NewTagService(s, nil)
	return &testServices{
		store:   s,
		tokens:  tokens,
		auth:    NewAuthService(s, auth.NewBcryptHasher(bcrypt.MinCost), tokens, nil),
		tags:    tags,
		content: NewContentService(s, tags, validation.New(), nil),
	}
}

// requireCode asserts err is a domain error with the given code and returns it.
func requireCode(t *testing.T, err error, code domainerrors.Code) *domainerrors.Error {
	t.Helper()

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code, "message: %s", domainErr.Message)
	return domainErr
}
