package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/colonyops/matrix/internal/core/config"
	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageCheck(t *testing.T) {
	tests := []struct {
		name    string
		backend func() *memory.Backend
		want    Status
	}{
		{
			name:    "stored",
			backend: func() *memory.Backend { return memory.New(task.Task{ID: "a", Quadrant: task.QuadrantDoNow}) },
			want:    StatusPass,
		},
		{
			name:    "nothing stored",
			backend: func() *memory.Backend { return memory.New() },
			want:    StatusWarn,
		},
		{
			name: "malformed",
			backend: func() *memory.Backend {
				b := memory.New()
				b.FailLoads(task.ErrMalformed)
				return b
			},
			want: StatusFail,
		},
		{
			name: "other error",
			backend: func() *memory.Backend {
				b := memory.New()
				b.FailLoads(errors.New("disk on fire"))
				return b
			},
			want: StatusFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewStorageCheck("json", tt.backend()).Run(context.Background())
			require.Len(t, result.Items, 1)
			assert.Equal(t, "json", result.Items[0].Label)
			assert.Equal(t, tt.want, result.Items[0].Status)
		})
	}
}

type recordingPatcher struct {
	patched []string
}

func (p *recordingPatcher) Patch(id string, patch task.Patch) (task.Task, bool) {
	p.patched = append(p.patched, id)
	return task.Task{ID: id}, patch.ClearDueTime
}

func TestBoardCheck(t *testing.T) {
	at, err := task.ParseTimeOfDay("10:00")
	require.NoError(t, err)

	stored := []task.Task{
		{ID: "a", Quadrant: task.QuadrantDoNow},
		{ID: "a", Quadrant: task.QuadrantDoLater},
		{ID: "", Quadrant: task.QuadrantDoLater},
		{ID: "b", Quadrant: task.QuadrantDoNow, Completed: true},
		{ID: "c", Quadrant: task.QuadrantDelegate, DueTime: at},
	}

	t.Run("reports", func(t *testing.T) {
		patcher := &recordingPatcher{}
		result := NewBoardCheck(memory.New(stored...), patcher, false).Run(context.Background())

		require.Len(t, result.Items, 4)
		for _, item := range result.Items {
			assert.Equal(t, StatusWarn, item.Status, item.Label)
		}
		assert.Equal(t, 1, CountFixable([]Result{result}))
		assert.Empty(t, patcher.patched)
	})

	t.Run("autofix", func(t *testing.T) {
		patcher := &recordingPatcher{}
		result := NewBoardCheck(memory.New(stored...), patcher, true).Run(context.Background())

		assert.Equal(t, []string{"c"}, patcher.patched)
		last := result.Items[len(result.Items)-1]
		assert.Equal(t, "c", last.Label)
		assert.Equal(t, StatusPass, last.Status)
		assert.Equal(t, 0, CountFixable([]Result{result}))
	})

	t.Run("healthy", func(t *testing.T) {
		result := NewBoardCheck(memory.New(stored[0]), nil, true).Run(context.Background())
		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusPass, result.Items[0].Status)
	})

	t.Run("load failure is left to the storage check", func(t *testing.T) {
		result := NewBoardCheck(memory.New(), nil, false).Run(context.Background())
		assert.Empty(t, result.Items)
	})
}

func TestConfigCheck(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	result := NewConfigCheck(&cfg, filepath.Join(cfg.DataDir, "missing.yaml")).Run(context.Background())
	passed, warned, failed := Summary([]Result{result})
	assert.Equal(t, 2, passed)
	assert.Zero(t, warned)
	assert.Zero(t, failed)
	assert.Equal(t, "not found, using defaults", result.Items[0].Detail)

	file := filepath.Join(cfg.DataDir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.DataDir = file
	cfg.Storage.Backend = config.BackendMemory

	result = NewConfigCheck(&cfg, "").Run(context.Background())
	_, warned, failed = Summary([]Result{result})
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}

func TestRunAll(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		NewStorageCheck("memory", memory.New()),
		NewBoardCheck(memory.New(), nil, false),
	})
	require.Len(t, results, 2)
	assert.Equal(t, "Storage", results[0].Name)
	assert.Equal(t, "Board", results[1].Name)
}
