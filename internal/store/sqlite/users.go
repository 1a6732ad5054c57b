package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/secondbrain/brain-server/internal/domain"
	"github.com/secondbrain/brain-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, username, password_hash, created_at, updated_at`

func scanUser(scanner rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		createdAt string
		updatedAt string
	)

	if err := scanner.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user.
// Returns store.ErrUsernameExists on duplicate username.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID,
		u.Username,
		u.PasswordHash,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if isUniqueViolation(err, "users.username") {
		return store.ErrUsernameExists
	}
	return err
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return userOrNotFound(scanUser(row))
}

// GetUserByUsername retrieves a user by exact username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return userOrNotFound(scanUser(row))
}

// GetUsersByIDs retrieves users in the order of ids. Unknown IDs are skipped.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}

	users, err := s.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders(len(ids))+`)`,
		stringArgs(ids)...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	ordered := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}

// ListUsers returns all users, oldest first.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func userOrNotFound(u *domain.User, err error) (*domain.User, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
