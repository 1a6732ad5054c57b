package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/secondbrain/brain-server/internal/domain"
	"github.com/secondbrain/brain-server/internal/store"
)

// contentColumns is the ordered list of columns selected in content queries.
// Must match the scan order in scanContent.
const contentColumns = `id, owner_id, link, type, title, share_token, created_at, updated_at`

func scanContent(scanner rowScanner) (*domain.Content, error) {
	var (
		c          domain.Content
		shareToken sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Link,
		&c.Type,
		&c.Title,
		&shareToken,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.ShareToken = shareToken.String
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	c.TagIDs = []string{}
	return &c, nil
}

// CreateContent inserts a content record and its ordered tag references
// in one transaction.
func (s *Store) CreateContent(ctx context.Context, c *domain.Content) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO content (`+contentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.OwnerID,
		c.Link,
		string(c.Type),
		c.Title,
		nullString(c.ShareToken),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if isUniqueViolation(err, "content.share_token") {
		return store.ErrShareTokenTaken
	}
	if err != nil {
		return fmt.Errorf("insert content: %w", err)
	}

	for i, tagID := range c.TagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO content_tags (content_id, position, tag_id) VALUES (?, ?, ?)`,
			c.ID, i, tagID,
		); err != nil {
			return fmt.Errorf("insert content tag: %w", err)
		}
	}

	return tx.Commit()
}

// GetContentByOwnerTitle returns the owner's content with the given title.
// When several records share the title the oldest is returned.
func (s *Store) GetContentByOwnerTitle(ctx context.Context, ownerID, title string) (*domain.Content, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+` FROM content
		WHERE owner_id = ? AND title = ?
		ORDER BY created_at ASC, id ASC
		LIMIT 1`,
		ownerID, title)

	return s.contentOrNotFound(ctx, row)
}

// ListContentByOwner returns all content owned by ownerID, oldest first.
func (s *Store) ListContentByOwner(ctx context.Context, ownerID string) ([]*domain.Content, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contentColumns+` FROM content
		WHERE owner_id = ?
		ORDER BY created_at ASC, id ASC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Release the connection before loading tags.
	rows.Close()

	if err := s.loadTagIDs(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteContentByOwner deletes at most one record owned by ownerID whose
// link and title both match exactly, preferring the oldest. It reports
// whether a record was deleted; no match is not an error.
func (s *Store) DeleteContentByOwner(ctx context.Context, ownerID, link, title string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM content WHERE id = (
			SELECT id FROM content
			WHERE owner_id = ? AND link = ? AND title = ?
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		)`,
		ownerID, link, title)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AssignShareToken sets the share token of a content record unless it
// already has one, and returns the token the record ends up with.
// The conditional UPDATE is the compare-and-set: of two concurrent callers
// only one matches "share_token IS NULL", and both re-read the winner.
func (s *Store) AssignShareToken(ctx context.Context, contentID, token string) (string, error) {
	if token == "" {
		return "", errors.New("assign share token: empty token")
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE content SET share_token = ?, updated_at = ?
		WHERE id = ? AND share_token IS NULL`,
		token, formatTime(time.Now()), contentID)
	if isUniqueViolation(err, "content.share_token") {
		return "", store.ErrShareTokenTaken
	}
	if err != nil {
		return "", err
	}

	var current sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT share_token FROM content WHERE id = ?`, contentID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrContentNotFound
	}
	if err != nil {
		return "", err
	}
	if !current.Valid {
		return "", fmt.Errorf("share token for %s was not persisted", contentID)
	}
	return current.String, nil
}

// GetContentByShareToken retrieves the content published under token.
func (s *Store) GetContentByShareToken(ctx context.Context, token string) (*domain.Content, error) {
	if token == "" {
		return nil, store.ErrContentNotFound
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM content WHERE share_token = ?`, token)
	return s.contentOrNotFound(ctx, row)
}

func (s *Store) contentOrNotFound(ctx context.Context, row *sql.Row) (*domain.Content, error) {
	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadTagIDs(ctx, []*domain.Content{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// loadTagIDs fills TagIDs of every item in stored order.
func (s *Store) loadTagIDs(ctx context.Context, items []*domain.Content) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Content, len(items))
	ids := make([]string, len(items))
	for i, c := range items {
		byID[c.ID] = c
		ids[i] = c.ID
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT content_id, tag_id FROM content_tags
		WHERE content_id IN (`+placeholders(len(ids))+`)
		ORDER BY content_id, position`,
		stringArgs(ids)...)
	if err != nil {
		return fmt.Errorf("load content tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var contentID, tagID string
		if err := rows.Scan(&contentID, &tagID); err != nil {
			return err
		}
		if c, ok := byID[contentID]; ok {
			c.TagIDs = append(c.TagIDs, tagID)
		}
	}
	return rows.Err()
}
