package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/secondbrain/brain-server/internal/domain"
	"github.com/secondbrain/brain-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, title, created_at, updated_at`

func scanTag(scanner rowScanner) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
		updatedAt string
	)

	if err := scanner.Scan(&t.ID, &t.Title, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a new tag.
// Returns store.ErrTagExists on duplicate title; the UNIQUE constraint makes
// the loser of a concurrent insert fail the same way.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (`+tagColumns+`)
		VALUES (?, ?, ?, ?)`,
		t.ID,
		t.Title,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if isUniqueViolation(err, "tags.title") {
		return store.ErrTagExists
	}
	return err
}

// GetTagByTitle retrieves a tag by exact title.
func (s *Store) GetTagByTitle(ctx context.Context, title string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE title = ?`, title)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagsByIDs retrieves tags in the order of ids. Unknown IDs are skipped.
func (s *Store) GetTagsByIDs(ctx context.Context, ids []string) ([]*domain.Tag, error) {
	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}

	tags, err := s.queryTags(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id IN (`+placeholders(len(ids))+`)`,
		stringArgs(ids)...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	ordered := make([]*domain.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

// ListTags returns all tags ordered by title.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.queryTags(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY title ASC`)
}

func (s *Store) queryTags(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
