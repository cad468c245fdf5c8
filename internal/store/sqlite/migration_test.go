package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/colonyops/matrix/internal/core/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	tasks []task.Task
	err   error
}

func (s stubBackend) Load(context.Context) ([]task.Task, error) { return s.tasks, s.err }

func (s stubBackend) Save(context.Context, []task.Task) error { return nil }

func TestMigrateFrom(t *testing.T) {
	ctx := context.Background()
	seed := task.Seed(time.Now())

	t.Run("imports into empty database", func(t *testing.T) {
		database := openTestDB(t)

		n, err := MigrateFrom(ctx, database, stubBackend{tasks: seed})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		got, err := NewTaskStore(database).Load(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("legacy without data is skipped", func(t *testing.T) {
		n, err := MigrateFrom(ctx, openTestDB(t), stubBackend{err: task.ErrNoData})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("populated database is left alone", func(t *testing.T) {
		database := openTestDB(t)
		require.NoError(t, NewTaskStore(database).Save(ctx, seed[:1]))

		n, err := MigrateFrom(ctx, database, stubBackend{tasks: seed})
		require.NoError(t, err)
		assert.Zero(t, n)

		count, err := NewTaskStore(database).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("legacy failure is returned", func(t *testing.T) {
		_, err := MigrateFrom(ctx, openTestDB(t), stubBackend{err: errors.New("boom")})
		require.Error(t, err)
	})
}
