// Package storetest is a conformance suite for store.Store implementations.
// Each backend's tests call Run with a constructor for a fresh, empty store.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/secondbrain/brain-server/internal/domain"
	"github.com/secondbrain/brain-server/internal/id"
	"github.com/secondbrain/brain-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a new empty store. The factory owns cleanup (t.Cleanup).
type Factory func(t *testing.T) store.Store

// Run executes the whole suite.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("UsernameUnique", func(t *testing.T) { testUsernameUnique(t, newStore(t)) })
	t.Run("Tags", func(t *testing.T) { testTags(t, newStore(t)) })
	t.Run("ConcurrentTagCreate", func(t *testing.T) { testConcurrentTagCreate(t, newStore(t)) })
	t.Run("Content", func(t *testing.T) { testContent(t, newStore(t)) })
	t.Run("OwnerTitleLookup", func(t *testing.T) { testOwnerTitleLookup(t, newStore(t)) })
	t.Run("DeleteByOwner", func(t *testing.T) { testDeleteByOwner(t, newStore(t)) })
	t.Run("ShareToken", func(t *testing.T) { testShareToken(t, newStore(t)) })
	t.Run("ConcurrentShareToken", func(t *testing.T) { testConcurrentShareToken(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(context.Background())) })
}

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// at returns a deterministic timestamp n seconds after epoch.
func at(n int) time.Time {
	return epoch.Add(time.Duration(n) * time.Second)
}

func newUser(t *testing.T, s store.Store, username string, created int) *domain.User {
	t.Helper()

	u := &domain.User{
		Base:         domain.Base{ID: id.MustGenerate("user"), CreatedAt: at(created), UpdatedAt: at(created)},
		Username:     username,
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplace",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func newTag(t *testing.T, s store.Store, title string) *domain.Tag {
	t.Helper()

	tag := &domain.Tag{
		Base:  domain.Base{ID: id.MustGenerate("tag"), CreatedAt: epoch, UpdatedAt: epoch},
		Title: title,
	}
	require.NoError(t, s.CreateTag(context.Background(), tag))
	return tag
}

func newContent(t *testing.T, s store.Store, owner *domain.User, link, title string, created int, tagIDs ...string) *domain.Content {
	t.Helper()

	if tagIDs == nil {
		tagIDs = []string{}
	}
	c := &domain.Content{
		Base:    domain.Base{ID: id.MustGenerate("content"), CreatedAt: at(created), UpdatedAt: at(created)},
		Link:    link,
		Type:    domain.ContentTypeArticle,
		Title:   title,
		TagIDs:  tagIDs,
		OwnerID: owner.ID,
	}
	require.NoError(t, s.CreateContent(context.Background(), c))
	return c
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	bob := newUser(t, s, "bob", 2)
	alice := newUser(t, s, "alice", 1)

	got, err := s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, alice.PasswordHash, got.PasswordHash)
	assert.True(t, alice.CreatedAt.Equal(got.CreatedAt))

	got, err = s.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	_, err = s.GetUser(ctx, "user-missing")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetUserByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, store.ErrUserNotFound, "usernames match exactly")

	users, err := s.GetUsersByIDs(ctx, []string{bob.ID, "user-missing", alice.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, bob.ID, users[0].ID)
	assert.Equal(t, alice.ID, users[1].ID)

	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func testUsernameUnique(t *testing.T, s store.Store) {
	newUser(t, s, "alice", 1)

	dup := &domain.User{
		Base:         domain.Base{ID: id.MustGenerate("user"), CreatedAt: at(2), UpdatedAt: at(2)},
		Username:     "alice",
		PasswordHash: "x",
	}
	err := s.CreateUser(context.Background(), dup)
	assert.ErrorIs(t, err, store.ErrUsernameExists)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.GetUser(context.Background(), dup.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func testTags(t *testing.T, s store.Store) {
	ctx := context.Background()
	golang := newTag(t, s, "go")
	rust := newTag(t, s, "rust")
	newTag(t, s, "Go")

	got, err := s.GetTagByTitle(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, golang.ID, got.ID)

	_, err = s.GetTagByTitle(ctx, "zig")
	assert.ErrorIs(t, err, store.ErrTagNotFound)

	err = s.CreateTag(ctx, &domain.Tag{
		Base:  domain.Base{ID: id.MustGenerate("tag"), CreatedAt: epoch, UpdatedAt: epoch},
		Title: "go",
	})
	assert.ErrorIs(t, err, store.ErrTagExists)

	tags, err := s.GetTagsByIDs(ctx, []string{rust.ID, golang.ID, "tag-missing"})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "rust", tags[0].Title)
	assert.Equal(t, "go", tags[1].Title)

	tags, err = s.ListTags(ctx)
	require.NoError(t, err)
	titles := make([]string, len(tags))
	for i, tag := range tags {
		titles[i] = tag.Title
	}
	assert.Equal(t, []string{"Go", "go", "rust"}, titles)
}

func testConcurrentTagCreate(t *testing.T, s store.Store) {
	const writers = 8
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []string
		errs      []error
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tag := &domain.Tag{
				Base:  domain.Base{ID: id.MustGenerate("tag"), CreatedAt: epoch, UpdatedAt: epoch},
				Title: "contended",
			}
			err := s.CreateTag(ctx, tag)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded = append(succeeded, tag.ID)
			} else {
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()

	require.Len(t, succeeded, 1, "exactly one writer wins")
	for _, err := range errs {
		assert.ErrorIs(t, err, store.ErrTagExists)
	}

	got, err := s.GetTagByTitle(ctx, "contended")
	require.NoError(t, err)
	assert.Equal(t, succeeded[0], got.ID)
}

func testContent(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := newUser(t, s, "alice", 1)
	bob := newUser(t, s, "bob", 2)
	golang := newTag(t, s, "go")
	db := newTag(t, s, "db")

	second := newContent(t, s, alice, "http://b", "b", 20, db.ID)
	first := newContent(t, s, alice, "http://a", "a", 10, golang.ID, golang.ID, db.ID)
	newContent(t, s, bob, "http://c", "c", 5)

	items, err := s.ListContentByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, first.ID, items[0].ID, "oldest first")
	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, []string{golang.ID, golang.ID, db.ID}, items[0].TagIDs, "tag order and duplicates preserved")
	assert.Equal(t, domain.ContentTypeArticle, items[0].Type)
	assert.Equal(t, alice.ID, items[0].OwnerID)
	assert.False(t, items[0].IsShared())

	items, err = s.ListContentByOwner(ctx, "user-nobody")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func testOwnerTitleLookup(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := newUser(t, s, "alice", 1)
	bob := newUser(t, s, "bob", 2)

	newer := newContent(t, s, alice, "http://new", "dup", 30)
	older := newContent(t, s, alice, "http://old", "dup", 10)
	newContent(t, s, bob, "http://bob", "mine", 5)

	got, err := s.GetContentByOwnerTitle(ctx, alice.ID, "dup")
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)
	assert.NotEqual(t, newer.ID, got.ID)

	_, err = s.GetContentByOwnerTitle(ctx, alice.ID, "mine")
	assert.ErrorIs(t, err, store.ErrContentNotFound, "other owners' content is invisible")
}

func testDeleteByOwner(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := newUser(t, s, "alice", 1)
	bob := newUser(t, s, "bob", 2)

	older := newContent(t, s, alice, "http://x", "t1", 10)
	newer := newContent(t, s, alice, "http://x", "t1", 20)
	other := newContent(t, s, alice, "http://x", "t2", 30)

	deleted, err := s.DeleteContentByOwner(ctx, bob.ID, "http://x", "t1")
	require.NoError(t, err)
	assert.False(t, deleted, "non-owner deletes nothing")

	deleted, err = s.DeleteContentByOwner(ctx, alice.ID, "http://y", "t1")
	require.NoError(t, err)
	assert.False(t, deleted, "link must match")

	deleted, err = s.DeleteContentByOwner(ctx, alice.ID, "http://x", "t1")
	require.NoError(t, err)
	assert.True(t, deleted)

	items, err := s.ListContentByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2, "at most one record per delete")
	assert.Equal(t, newer.ID, items[0].ID)
	assert.Equal(t, other.ID, items[1].ID)
	assert.NotEqual(t, older.ID, items[0].ID)
}

func testShareToken(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := newUser(t, s, "alice", 1)
	tag := newTag(t, s, "go")
	c := newContent(t, s, alice, "http://x", "t1", 10, tag.ID)
	d := newContent(t, s, alice, "http://y", "t2", 20)

	token := id.MustShareToken()
	got, err := s.AssignShareToken(ctx, c.ID, token)
	require.NoError(t, err)
	assert.Equal(t, token, got)

	got, err = s.AssignShareToken(ctx, c.ID, id.MustShareToken())
	require.NoError(t, err)
	assert.Equal(t, token, got, "first token is kept")

	_, err = s.AssignShareToken(ctx, d.ID, token)
	assert.ErrorIs(t, err, store.ErrShareTokenTaken)

	_, err = s.AssignShareToken(ctx, "content-missing", id.MustShareToken())
	assert.ErrorIs(t, err, store.ErrContentNotFound)

	shared, err := s.GetContentByShareToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, c.ID, shared.ID)
	assert.Equal(t, token, shared.ShareToken)
	assert.Equal(t, []string{tag.ID}, shared.TagIDs)

	_, err = s.GetContentByShareToken(ctx, id.MustShareToken())
	assert.ErrorIs(t, err, store.ErrContentNotFound)

	_, err = s.GetContentByShareToken(ctx, "")
	assert.ErrorIs(t, err, store.ErrContentNotFound)

	deleted, err := s.DeleteContentByOwner(ctx, alice.ID, "http://x", "t1")
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = s.GetContentByShareToken(ctx, token)
	assert.ErrorIs(t, err, store.ErrContentNotFound, "share link dies with its content")
}

func testConcurrentShareToken(t *testing.T, s store.Store) {
	const callers = 8
	ctx := context.Background()
	alice := newUser(t, s, "alice", 1)
	c := newContent(t, s, alice, "http://x", "t1", 10)

	results := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.AssignShareToken(ctx, c.ID, id.MustShareToken())
		}()
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i], "caller %d", i)
		assert.Equal(t, results[0], results[i], fmt.Sprintf("caller %d converged", i))
	}

	stored, err := s.GetContentByShareToken(ctx, results[0])
	require.NoError(t, err)
	assert.Equal(t, c.ID, stored.ID)
}
