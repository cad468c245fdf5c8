package matrix

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/matrix/internal/core/config"
	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/internal/store/jsonfile"
	"github.com/colonyops/matrix/internal/store/memory"
	"github.com/colonyops/matrix/internal/store/sqlite"
	"github.com/rs/zerolog"
)

type openedBackend struct {
	backend   task.Backend
	tasksFile string
	close     func() error
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (openedBackend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return openedBackend{backend: memory.New()}, nil

	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return openedBackend{}, fmt.Errorf("create data directory: %w", err)
		}

		db, err := openDatabase(cfg, log)
		if err != nil {
			return openedBackend{}, err
		}

		legacy := jsonfile.NewTaskStore(cfg.DataDir, cfg.Storage.Key)
		n, err := sqlite.MigrateFrom(ctx, db, legacy)
		if err != nil {
			// The JSON file is left in place; the board starts from the database.
			log.Warn().Err(err).Str("path", legacy.Path()).Msg("failed to import tasks from json file")
		} else if n > 0 {
			log.Info().Int("count", n).Str("path", legacy.Path()).Msg("imported tasks from json file")
		}

		return openedBackend{backend: sqlite.NewTaskStore(db), close: db.Close}, nil

	default:
		store := jsonfile.NewTaskStore(cfg.DataDir, cfg.Storage.Key)
		return openedBackend{backend: store, tasksFile: store.Path()}, nil
	}
}

// openDatabase opens the SQLite database, moving a corrupted file aside and
// starting over once.
func openDatabase(cfg *config.Config, log zerolog.Logger) (*sqlite.DB, error) {
	opts := sqlite.OpenOptions{
		Key:          cfg.Storage.Key,
		MaxOpenConns: cfg.Storage.Database.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Database.MaxIdleConns,
		BusyTimeout:  cfg.Storage.Database.BusyTimeout,
	}

	db, err := sqlite.Open(cfg.DataDir, opts)
	if err == nil {
		return db, nil
	}
	if !sqlite.IsCorruptionError(err) {
		return nil, err
	}

	backup, rerr := sqlite.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, fmt.Errorf("%w (recovery failed: %w)", err, rerr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database was corrupted, moved aside")

	return sqlite.Open(cfg.DataDir, opts)
}
