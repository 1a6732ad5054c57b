package providers

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/secondbrain/brain-server/internal/config"
	"github.com/secondbrain/brain-server/internal/logger"
	"github.com/secondbrain/brain-server/internal/store"
	"github.com/secondbrain/brain-server/internal/store/sqlite"
)

const (
	badgerDirName  = "badger"
	sqliteFileName = "brain.db"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
	Path string
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// OpenStore opens the backend selected by cfg.Storage.Driver under the data path.
// It returns the store and the path it was opened at.
func OpenStore(cfg config.StorageConfig, log *slog.Logger) (store.Store, string, error) {
	if err := os.MkdirAll(cfg.DataPath, 0o700); err != nil {
		return nil, "", fmt.Errorf("create data directory: %w", err)
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		path := filepath.Join(cfg.DataPath, sqliteFileName)
		st, err := sqlite.Open(path, log)
		if err != nil {
			return nil, "", err
		}
		return st, path, nil
	case config.DriverBadger, "":
		path := filepath.Join(cfg.DataPath, badgerDirName)
		st, err := store.New(path, log)
		if err != nil {
			return nil, "", err
		}
		return st, path, nil
	default:
		return nil, "", fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	log = log.WithField("driver", cfg.Storage.Driver)

	st, path, err := OpenStore(cfg.Storage, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", path)

	return &StoreHandle{Store: st, Path: path}, nil
}
