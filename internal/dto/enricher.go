package dto

import (
	"context"
	"fmt"

	"github.com/secondbrain/brain-server/internal/domain"
)

// Store defines the interface for fetching related entities during enrichment.
// This allows Enricher to remain testable and independent of concrete store implementation.
type Store interface {
	GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	GetTagsByIDs(ctx context.Context, ids []string) ([]*domain.Tag, error)
}

// Enricher denormalizes content records for client consumption.
//
// Design philosophy:
//   - Batch fetching: one query per entity type, not per record
//   - Graceful degradation: missing owners or tags leave empty fields, not errors
//   - Owners are copied field by field, so password hashes cannot leak
type Enricher struct {
	store Store
}

// NewEnricher creates a new enricher.
func NewEnricher(store Store) *Enricher {
	return &Enricher{store: store}
}

// EnrichContent resolves tags and owners for a batch of content records,
// keeping the input order.
func (e *Enricher) EnrichContent(ctx context.Context, items []*domain.Content) ([]Content, error) {
	if len(items) == 0 {
		return []Content{}, nil
	}

	ownerIDs := make([]string, 0, len(items))
	tagIDs := make([]string, 0)
	seenOwner := make(map[string]bool)
	seenTag := make(map[string]bool)
	for _, c := range items {
		if !seenOwner[c.OwnerID] {
			seenOwner[c.OwnerID] = true
			ownerIDs = append(ownerIDs, c.OwnerID)
		}
		for _, tagID := range c.TagIDs {
			if !seenTag[tagID] {
				seenTag[tagID] = true
				tagIDs = append(tagIDs, tagID)
			}
		}
	}

	users, err := e.store.GetUsersByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch owners: %w", err)
	}
	userMap := make(map[string]*domain.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	tagMap := make(map[string]*domain.Tag, len(tagIDs))
	if len(tagIDs) > 0 {
		tags, err := e.store.GetTagsByIDs(ctx, tagIDs)
		if err != nil {
			return nil, fmt.Errorf("fetch tags: %w", err)
		}
		for _, t := range tags {
			tagMap[t.ID] = t
		}
	}

	out := make([]Content, len(items))
	for i, c := range items {
		view := Content{
			ID:        c.ID,
			Link:      c.Link,
			Type:      c.Type,
			Title:     c.Title,
			Tags:      make([]Tag, 0, len(c.TagIDs)),
			Owner:     Owner{ID: c.OwnerID},
			CreatedAt: c.CreatedAt,
		}
		if u, ok := userMap[c.OwnerID]; ok {
			view.Owner.Username = u.Username
		}
		for _, tagID := range c.TagIDs {
			if t, ok := tagMap[tagID]; ok {
				view.Tags = append(view.Tags, NewTag(t))
			}
		}
		out[i] = view
	}

	return out, nil
}

// EnrichOne is EnrichContent for a single record.
func (e *Enricher) EnrichOne(ctx context.Context, c *domain.Content) (*Content, error) {
	views, err := e.EnrichContent(ctx, []*domain.Content{c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
