package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/matrix/internal/core/task"
)

// StorageCheck loads the stored collection and reports whether the board
// can start from it.
type StorageCheck struct {
	backend task.Backend
	label   string
}

// NewStorageCheck creates a storage check. label names the backend in the
// output.
func NewStorageCheck(label string, backend task.Backend) *StorageCheck {
	return &StorageCheck{backend: backend, label: label}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	tasks, err := c.backend.Load(ctx)
	item := CheckItem{Label: c.label}

	switch {
	case err == nil:
		item.Status = StatusPass
		item.Detail = fmt.Sprintf("%d task(s) stored", len(tasks))
	case errors.Is(err, task.ErrNoData):
		item.Status = StatusWarn
		item.Detail = "nothing saved yet; the board starts from the seed tasks"
	case errors.Is(err, task.ErrVersionMismatch):
		item.Status = StatusFail
		item.Detail = "saved by another version; the board starts over and the next change overwrites it"
	case errors.Is(err, task.ErrMalformed):
		item.Status = StatusFail
		item.Detail = "unreadable; the board starts over and the next change overwrites it"
	default:
		item.Status = StatusFail
		item.Detail = err.Error()
	}

	result.Items = append(result.Items, item)
	return result
}
