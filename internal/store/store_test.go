package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/secondbrain/brain-server/internal/store"
	"github.com/secondbrain/brain-server/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *store.Badger {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "badger"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestBadger_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return setupTestStore(t)
	})
}

func TestBadger_PingAfterClose(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "badger"), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Error(t, s.Ping(context.Background()))
}

func TestBadger_CanceledContext(t *testing.T) {
	s := setupTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListTags(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.GetUser(ctx, "user-x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBadger_ReopenKeepsData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")

	s, err := store.New(dir, nil)
	require.NoError(t, err)
	tag := storetestTag("persisted")
	require.NoError(t, s.CreateTag(context.Background(), tag))
	require.NoError(t, s.Close())

	s, err = store.New(dir, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetTagByTitle(context.Background(), "persisted")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, got.ID)
}
