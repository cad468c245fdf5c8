package task

import "context"

// CurrentVersion is the schema version written by every backend. It forms
// the suffix of the default storage key.
const CurrentVersion = 1

// DefaultStorageKey is the versioned key tasks are persisted under.
const DefaultStorageKey = "tasks_v1"

// Backend is the durable storage collaborator. It persists the whole ordered
// collection; collection order is the ordering authority within a quadrant.
type Backend interface {
	// Load returns the stored collection in order.
	// Returns ErrNoData if nothing was stored, ErrMalformed if the stored data
	// cannot be decoded and ErrVersionMismatch for an incompatible schema.
	Load(ctx context.Context) ([]Task, error)

	// Save replaces the stored collection with tasks.
	Save(ctx context.Context, tasks []Task) error
}
