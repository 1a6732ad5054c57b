package store

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/secondbrain/brain-server/internal/domain"
)

// CreateTag creates a new global tag.
// Returns ErrTagExists when a tag with the same title exists, including
// when a concurrent creator of the same title committed first.
func (s *Badger) CreateTag(ctx context.Context, t *domain.Tag) error {
	if t.ID == "" {
		return errors.New("create tag: empty id")
	}
	return translate(s.tags.Create(ctx, t.ID, t), nil, ErrTagExists)
}

// GetTagByTitle retrieves a tag by exact title.
func (s *Badger) GetTagByTitle(ctx context.Context, title string) (*domain.Tag, error) {
	t, err := s.tags.GetByIndex(ctx, indexTitle, title)
	if err != nil {
		return nil, translate(err, ErrTagNotFound, nil)
	}
	return t, nil
}

// GetTagsByIDs retrieves tags in the order of ids. Unknown IDs are skipped.
func (s *Badger) GetTagsByIDs(ctx context.Context, ids []string) ([]*domain.Tag, error) {
	tags := make([]*domain.Tag, 0, len(ids))
	err := s.view(ctx, func(txn *badger.Txn) error {
		tags = tags[:0]
		for _, id := range ids {
			t, err := s.tags.getTxn(txn, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			tags = append(tags, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListTags returns all tags ordered by title.
func (s *Badger) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.tags.All(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(tags, func(a, b *domain.Tag) int {
		return strings.Compare(a.Title, b.Title)
	})
	return tags, nil
}
