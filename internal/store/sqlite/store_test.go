package sqlite

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/secondbrain/brain-server/internal/store"
	"github.com/secondbrain/brain-server/internal/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newTestStore(t)
	})
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	for _, table := range []string{"users", "tags", "content", "content_tags"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s.Close()

	// Re-open should work (schema is idempotent).
	s, err = Open(dbPath, nil)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	s.Close()
}

func TestContentTypeConstraint(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(`INSERT INTO users (id, username, password_hash, created_at, updated_at)
		VALUES ('user-1', 'alice', 'x', '2026-01-01T00:00:00.000000000Z', '2026-01-01T00:00:00.000000000Z')`)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	_, err = s.db.Exec(`INSERT INTO content (id, owner_id, link, type, title, created_at, updated_at)
		VALUES ('c-1', 'user-1', 'http://x', 'document', 't', '2026-01-01T00:00:00.000000000Z', '2026-01-01T00:00:00.000000000Z')`)
	if err == nil {
		t.Fatal("expected CHECK constraint to reject unknown content type")
	}
}
