// Package store defines the persistence interface for the brain server and
// its default Badger implementation.
package store

import (
	"context"

	"github.com/secondbrain/brain-server/internal/domain"
)

// Store defines the interface for all persistence operations.
// Uniqueness of usernames, tag titles and share tokens is enforced here,
// including under concurrent writers.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTagByTitle(ctx context.Context, title string) (*domain.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []string) ([]*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)

	// Content
	CreateContent(ctx context.Context, content *domain.Content) error
	GetContentByOwnerTitle(ctx context.Context, ownerID, title string) (*domain.Content, error)
	ListContentByOwner(ctx context.Context, ownerID string) ([]*domain.Content, error)
	DeleteContentByOwner(ctx context.Context, ownerID, link, title string) (bool, error)
	AssignShareToken(ctx context.Context, contentID, token string) (string, error)
	GetContentByShareToken(ctx context.Context, token string) (*domain.Content, error)
}
