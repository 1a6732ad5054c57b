package store

import (
	"context"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/secondbrain/brain-server/internal/domain"
)

// CreateUser stores a new user.
// Returns ErrUsernameExists if the username is taken, including when a
// concurrent signup for the same username commits first.
func (s *Badger) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		return errors.New("create user: empty id")
	}
	return translate(s.users.Create(ctx, user.ID, user), nil, ErrUsernameExists)
}

// GetUser retrieves a user by ID.
func (s *Badger) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, translate(err, ErrUserNotFound, nil)
	}
	return u, nil
}

// GetUserByUsername retrieves a user by exact username.
func (s *Badger) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.users.GetByIndex(ctx, indexUsername, username)
	if err != nil {
		return nil, translate(err, ErrUserNotFound, nil)
	}
	return u, nil
}

// GetUsersByIDs retrieves users in the order of ids. Unknown IDs are skipped.
func (s *Badger) GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	err := s.view(ctx, func(txn *badger.Txn) error {
		users = users[:0]
		for _, id := range ids {
			u, err := s.users.getTxn(txn, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListUsers returns all users, oldest first.
func (s *Badger) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(users, func(a, b *domain.User) int {
		return compareBase(&a.Base, &b.Base)
	})
	return users, nil
}

// compareBase orders records by creation time, breaking ties by ID.
func compareBase(a, b *domain.Base) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}
