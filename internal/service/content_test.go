package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/secondbrain/brain-server/internal/domain"
	domainerrors "github.com/secondbrain/brain-server/internal/errors"
	"github.com/secondbrain/brain-server/internal/id"
	"github.com/secondbrain/brain-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signup(t *testing.T, svc *testServices, username string) *domain.User {
	t.Helper()
	u, err := svc.auth.Signup(context.Background(), Credentials{Username: username, Password: "Str0ng!Pass"})
	require.NoError(t, err)
	return u
}

func createContent(t *testing.T, svc *testServices, owner *domain.User, title string, tags ...string) *domain.Content {
	t.Helper()
	c, err := svc.content.Create(context.Background(), owner.ID, CreateContentRequest{
		Link:  "http://" + title,
		Type:  "article",
		Title: title,
		Tags:  tags,
	})
	require.NoError(t, err)
	return c
}

func TestContentService_CreateAndList(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")
	bob := signup(t, svc, "bob")

	createContent(t, svc, alice, "t1", "go", "db")
	createContent(t, svc, bob, "t2")

	items, err := svc.content.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "t1", item.Title)
	assert.Equal(t, domain.ContentTypeArticle, item.Type)
	assert.Equal(t, "alice", item.Owner.Username)
	require.Len(t, item.Tags, 2)
	assert.Equal(t, "go", item.Tags[0].Title)
	assert.Equal(t, "db", item.Tags[1].Title)
}

func TestContentService_CreateRejectsInvalidType(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")

	_, err := svc.content.Create(ctx, alice.ID, CreateContentRequest{
		Link:  "http://x",
		Type:  "document",
		Title: "t1",
		Tags:  []string{"go"},
	})
	domainErr := requireCode(t, err, domainerrors.CodeInvalidInput)
	assert.Equal(t, validation.MsgInvalidContentType, domainErr.Message)

	items, err := svc.content.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "no record written")

	tags, err := svc.tags.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags, "tags are not resolved for rejected content")
}

func TestContentService_CreateRejectsMissingFields(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")

	for name, req := range map[string]CreateContentRequest{
		"link":  {Type: "video", Title: "t"},
		"type":  {Link: "http://x", Title: "t"},
		"title": {Link: "http://x", Type: "video"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.content.Create(ctx, alice.ID, req)
			domainErr := requireCode(t, err, domainerrors.CodeInvalidInput)
			assert.Equal(t, validation.MsgMissingFields, domainErr.Message)
		})
	}

	_, err := svc.content.Create(ctx, "", CreateContentRequest{Link: "http://x", Type: "video", Title: "t"})
	requireCode(t, err, domainerrors.CodeInvalidInput)
}

func TestContentService_DeleteMissingIsStillSuccess(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")
	createContent(t, svc, alice, "t1")

	deleted, err := svc.content.Delete(ctx, alice.ID, DeleteContentRequest{Link: "http://nope", Title: "t1"})
	require.NoError(t, err, "deleting nothing is not an error")
	assert.False(t, deleted)

	items, err := svc.content.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "existing records untouched")
}

func TestContentService_DeleteIsOwnerScoped(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")
	mallory := signup(t, svc, "mallory")
	createContent(t, svc, alice, "t1")

	deleted, err := svc.content.Delete(ctx, mallory.ID, DeleteContentRequest{Link: "http://t1", Title: "t1"})
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.content.Delete(ctx, alice.ID, DeleteContentRequest{Link: "http://t1", Title: "t1"})
	require.NoError(t, err)
	assert.True(t, deleted)

	items, err := svc.content.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestContentService_DeleteRequiresLinkAndTitle(t *testing.T) {
	svc := setupServices(t)
	alice := signup(t, svc, "alice")

	_, err := svc.content.Delete(context.Background(), alice.ID, DeleteContentRequest{Title: "t1"})
	requireCode(t, err, domainerrors.CodeInvalidInput)
}

func TestContentService_ShareIsIdempotent(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")
	createContent(t, svc, alice, "t1", "go")

	first, err := svc.content.Share(ctx, alice.ID, "t1")
	require.NoError(t, err)
	assert.True(t, id.IsShareToken(first))
	assert.GreaterOrEqual(t, len(first), 24)

	second, err := svc.content.Share(ctx, alice.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestContentService_ConcurrentShareConverges(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")
	createContent(t, svc, alice, "t1")

	const callers = 8
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens[i], errs[i] = svc.content.Share(ctx, alice.ID, "t1")
		}()
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, tokens[0], tokens[i])
	}
}

func TestContentService_ShareHidesOtherOwnersContent(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")
	mallory := signup(t, svc, "mallory")
	createContent(t, svc, alice, "t1")

	_, errOther := svc.content.Share(ctx, mallory.ID, "t1")
	_, errMissing := svc.content.Share(ctx, alice.ID, "nope")

	other := requireCode(t, errOther, domainerrors.CodeNotFound)
	missing := requireCode(t, errMissing, domainerrors.CodeNotFound)
	assert.Equal(t, missing.Message, other.Message, "not owned looks exactly like missing")
}

func TestContentService_GetShared(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")
	c := createContent(t, svc, alice, "t1", "go")

	token, err := svc.content.Share(ctx, alice.ID, "t1")
	require.NoError(t, err)

	view, err := svc.content.GetShared(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, c.ID, view.ID)
	assert.Equal(t, "t1", view.Title)
	assert.Equal(t, "alice", view.Owner.Username)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "go", view.Tags[0].Title)

	body, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "$2a$")
}

func TestContentService_GetSharedUnknownTokens(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	for _, token := range []string{"", "short", id.MustShareToken(), strings.Repeat("z", id.ShareTokenLength)} {
		_, err := svc.content.GetShared(ctx, token)
		domainErr := requireCode(t, err, domainerrors.CodeNotFound)
		assert.Equal(t, MsgInvalidShareLink, domainErr.Message)
	}
}
