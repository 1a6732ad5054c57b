package store

import (
	"context"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/secondbrain/brain-server/internal/domain"
)

// errShareTokenSet aborts an AssignShareToken transaction without writing.
var errShareTokenSet = errors.New("share token already set")

// CreateContent stores a new content record.
func (s *Badger) CreateContent(ctx context.Context, c *domain.Content) error {
	if c.ID == "" {
		return errors.New("create content: empty id")
	}
	return translate(s.content.Create(ctx, c.ID, c), nil, ErrShareTokenTaken)
}

// GetContentByOwnerTitle returns the owner's content with the given title.
// When several records share the title the oldest is returned.
func (s *Badger) GetContentByOwnerTitle(ctx context.Context, ownerID, title string) (*domain.Content, error) {
	items, err := s.ListContentByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	for _, c := range items {
		if c.Title == title {
			return c, nil
		}
	}
	return nil, ErrContentNotFound
}

// ListContentByOwner returns all content owned by ownerID, oldest first.
func (s *Badger) ListContentByOwner(ctx context.Context, ownerID string) ([]*domain.Content, error) {
	items, err := s.content.ListByIndex(ctx, indexOwner, ownerID)
	if err != nil {
		return nil, err
	}
	sortContent(items)
	return items, nil
}

// DeleteContentByOwner deletes at most one record owned by ownerID whose
// link and title both match exactly, preferring the oldest. It reports
// whether a record was deleted; no match is not an error.
func (s *Badger) DeleteContentByOwner(ctx context.Context, ownerID, link, title string) (bool, error) {
	var deleted bool
	err := s.update(ctx, func(txn *badger.Txn) error {
		deleted = false

		items, err := s.content.listByIndexTxn(txn, indexOwner, ownerID)
		if err != nil {
			return err
		}
		sortContent(items)

		for _, c := range items {
			if c.Link != link || c.Title != title {
				continue
			}
			if err := s.content.deleteTxn(txn, c.ID, c); err != nil {
				return err
			}
			deleted = true
			return nil
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// AssignShareToken sets the share token of a content record unless it
// already has one, and returns the token the record ends up with.
//
// Concurrent callers converge on a single token: whichever transaction
// commits first wins, and the loser is retried and observes the winner's
// token. Returns ErrShareTokenTaken if token already belongs to a
// different record.
func (s *Badger) AssignShareToken(ctx context.Context, contentID, token string) (string, error) {
	if token == "" {
		return "", errors.New("assign share token: empty token")
	}

	var existing string
	_, err := s.content.Modify(ctx, contentID, func(c *domain.Content) error {
		existing = c.ShareToken
		if existing != "" {
			return errShareTokenSet
		}
		c.ShareToken = token
		c.Touch()
		return nil
	})

	switch {
	case errors.Is(err, errShareTokenSet):
		return existing, nil
	case err != nil:
		return "", translate(err, ErrContentNotFound, ErrShareTokenTaken)
	default:
		return token, nil
	}
}

// GetContentByShareToken retrieves the content published under token.
func (s *Badger) GetContentByShareToken(ctx context.Context, token string) (*domain.Content, error) {
	if token == "" {
		return nil, ErrContentNotFound
	}

	c, err := s.content.GetByIndex(ctx, indexShareToken, token)
	if err != nil {
		return nil, translate(err, ErrContentNotFound, nil)
	}
	return c, nil
}

func sortContent(items []*domain.Content) {
	slices.SortFunc(items, func(a, b *domain.Content) int {
		return compareBase(&a.Base, &b.Base)
	})
}
