package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/secondbrain/brain-server/internal/domain"
)

// maxTxnAttempts bounds retries of a read-write transaction that lost an
// optimistic concurrency race to another writer.
const maxTxnAttempts = 8

// Key prefixes.
const (
	userPrefix    = "user:"
	tagPrefix     = "tag:"
	contentPrefix = "content:"
)

// Index names.
const (
	indexUsername   = "username"
	indexTitle      = "title"
	indexOwner      = "owner"
	indexShareToken = "share"
)

// Badger is the default Store backed by a Badger database.
//
// Badger transactions are serializable: a transaction that read a key
// another transaction committed in the meantime fails with
// badger.ErrConflict. Every unique index check reads the index key, so two
// writers racing for the same username, tag title or share token cannot
// both commit.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger

	users   *Entity[domain.User]
	tags    *Entity[domain.Tag]
	content *Entity[domain.Content]
}

var _ Store = (*Badger)(nil)

// New opens (or creates) a Badger database at path.
func New(path string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Badger{
		db:     db,
		logger: logger,
	}
	s.initEntities()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return s, nil
}

func (s *Badger) initEntities() {
	s.users = NewEntity[domain.User](s, userPrefix).
		WithUniqueIndex(indexUsername, func(u *domain.User) []string {
			return []string{u.Username}
		})

	s.tags = NewEntity[domain.Tag](s, tagPrefix).
		WithUniqueIndex(indexTitle, func(t *domain.Tag) []string {
			return []string{t.Title}
		})

	s.content = NewEntity[domain.Content](s, contentPrefix).
		WithIndex(indexOwner, func(c *domain.Content) []string {
			return []string{c.OwnerID}
		}).
		WithUniqueIndex(indexShareToken, func(c *domain.Content) []string {
			if c.ShareToken == "" {
				return nil
			}
			return []string{c.ShareToken}
		})
}

// Ping reports whether the database is open and readable.
func (s *Badger) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return s.view(ctx, func(*badger.Txn) error { return nil })
}

// Close gracefully closes the database connection. Closing twice is a no-op.
func (s *Badger) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// view runs fn in a read-only transaction.
func (s *Badger) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

// update runs fn in a read-write transaction, retrying on badger.ErrConflict.
// fn must reset any captured results at the start of each run.
func (s *Badger) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := range maxTxnAttempts {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}

		if s.logger != nil {
			s.logger.Debug("Retrying conflicted transaction", "attempt", attempt+1)
		}
	}
	return fmt.Errorf("transaction retries exhausted: %w", err)
}
