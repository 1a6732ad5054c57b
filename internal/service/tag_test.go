package service

import (
	"context"
	"sync"
	"testing"

	domainerrors "github.com/secondbrain/brain-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService_ResolvePreservesOrderAndDuplicates(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	ids, err := svc.tags.Resolve(ctx, []string{"a", "a", "b"})
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[1])
	assert.NotEqual(t, ids[0], ids[2])

	tags, err := svc.tags.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2, "tag a is created exactly once")
	assert.Equal(t, "a", tags[0].Title)
	assert.Equal(t, ids[0], tags[0].ID)
}

func TestTagService_ResolveReusesExistingTags(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	first, err := svc.tags.Resolve(ctx, []string{"go"})
	require.NoError(t, err)
	second, err := svc.tags.Resolve(ctx, []string{"go"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTagService_ResolveNormalizesUnicode(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	ids, err := svc.tags.Resolve(ctx, []string{composed, decomposed})
	require.NoError(t, err)
	assert.Equal(t, ids[0], ids[1])
}

func TestTagService_ResolveRejectsBlankTitles(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	_, err := svc.tags.Resolve(ctx, []string{"go", "  "})
	requireCode(t, err, domainerrors.CodeInvalidInput)

	tags, err := svc.tags.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags, "no tag is created when any title is rejected")
}

func TestTagService_ResolveEmpty(t *testing.T) {
	svc := setupServices(t)

	ids, err := svc.tags.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTagService_ConcurrentResolveConverges(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	const callers = 8
	results := make([][]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.tags.Resolve(ctx, []string{"fresh"})
		}()
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}

	tags, err := svc.tags.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}
