package dto

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/secondbrain/brain-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users map[string]*domain.User
	tags  map[string]*domain.Tag
	calls int
}

func (f *fakeStore) GetUsersByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	f.calls++
	var out []*domain.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTagsByIDs(_ context.Context, ids []string) ([]*domain.Tag, error) {
	f.calls++
	var out []*domain.Tag
	for _, id := range ids {
		if t, ok := f.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[string]*domain.User{
			"user-1": {Base: domain.Base{ID: "user-1"}, Username: "alice", PasswordHash: "$2a$10$secret"},
		},
		tags: map[string]*domain.Tag{
			"tag-go": {Base: domain.Base{ID: "tag-go"}, Title: "go"},
			"tag-db": {Base: domain.Base{ID: "tag-db"}, Title: "db"},
		},
	}
}

func TestEnrichContent_ResolvesOwnerAndTags(t *testing.T) {
	fs := newFakeStore()
	e := NewEnricher(fs)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	items := []*domain.Content{
		{
			Base:    domain.Base{ID: "c-1", CreatedAt: created},
			Link:    "http://x",
			Type:    domain.ContentTypeArticle,
			Title:   "t1",
			TagIDs:  []string{"tag-go", "tag-missing", "tag-go", "tag-db"},
			OwnerID: "user-1",
		},
		{
			Base:    domain.Base{ID: "c-2"},
			Title:   "orphan",
			OwnerID: "user-gone",
		},
	}

	views, err := e.EnrichContent(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 2, fs.calls, "one batch per entity type")

	first := views[0]
	assert.Equal(t, "c-1", first.ID)
	assert.Equal(t, Owner{ID: "user-1", Username: "alice"}, first.Owner)
	assert.Equal(t, []Tag{{"tag-go", "go"}, {"tag-go", "go"}, {"tag-db", "db"}}, first.Tags)
	assert.Equal(t, created, first.CreatedAt)

	assert.Equal(t, Owner{ID: "user-gone"}, views[1].Owner)
	assert.Empty(t, views[1].Tags)
}

func TestEnrichContent_NeverSerializesPasswordHash(t *testing.T) {
	e := NewEnricher(newFakeStore())

	view, err := e.EnrichOne(context.Background(), &domain.Content{
		Base:    domain.Base{ID: "c-1"},
		OwnerID: "user-1",
	})
	require.NoError(t, err)

	body, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret")
	assert.NotContains(t, string(body), "password")
}

func TestEnrichContent_Empty(t *testing.T) {
	fs := newFakeStore()
	views, err := NewEnricher(fs).EnrichContent(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
	assert.Zero(t, fs.calls)
}
