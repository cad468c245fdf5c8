package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/matrix/internal/core/task"
)

// MigrateFrom copies the collection held by legacy into the database when
// nothing was saved under the database's key yet. It returns the number of imported tasks.
// A legacy backend with nothing stored is not an error.
func MigrateFrom(ctx context.Context, db *DB, legacy task.Backend) (int, error) {
	store := NewTaskStore(db)

	exists, err := store.Exists(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing tasks: %w", err)
	}
	if exists {
		return 0, nil
	}

	tasks, err := legacy.Load(ctx)
	if errors.Is(err, task.ErrNoData) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load legacy tasks: %w", err)
	}

	if err := store.Save(ctx, tasks); err != nil {
		return 0, fmt.Errorf("failed to import tasks: %w", err)
	}

	return len(tasks), nil
}
