// Package memory provides an in-process task.Backend. Nothing survives the
// process; it backs tests and the "memory" storage backend.
package memory

import (
	"context"
	"sync"

	"github.com/colonyops/matrix/internal/core/task"
)

// Backend keeps the last saved collection in memory. Load and Save failures
// can be injected to exercise recovery paths.
type Backend struct {
	mu      sync.Mutex
	tasks   []task.Task
	stored  bool
	saves   int
	loadErr error
	saveErr error
}

var _ task.Backend = (*Backend)(nil)

// New returns an empty backend. When tasks are given they are stored as if
// saved before.
func New(tasks ...task.Task) *Backend {
	b := &Backend{}
	if len(tasks) > 0 {
		b.tasks = task.CloneAll(tasks)
		b.stored = true
	}
	return b
}

func (b *Backend) Load(ctx context.Context) ([]task.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loadErr != nil {
		return nil, b.loadErr
	}
	if !b.stored {
		return nil, task.ErrNoData
	}
	return task.CloneAll(b.tasks), nil
}

func (b *Backend) Save(ctx context.Context, tasks []task.Task) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if b.saveErr != nil {
		return b.saveErr
	}

	b.tasks = task.CloneAll(tasks)
	b.stored = true
	b.saves++
	return nil
}

// FailLoads makes every Load return err. Pass nil to clear.
func (b *Backend) FailLoads(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loadErr = err
}

// FailSaves makes every Save return err. Pass nil to clear.
func (b *Backend) FailSaves(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saveErr = err
}

// Stored returns a copy of the last saved collection.
func (b *Backend) Stored() []task.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return task.CloneAll(b.tasks)
}

// Saves returns the number of successful saves.
func (b *Backend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}
