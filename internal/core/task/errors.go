package task

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned by a Backend when nothing has been stored yet.
	ErrNoData = errors.New("no stored tasks")
	// ErrMalformed is returned by a Backend when stored data cannot be decoded.
	ErrMalformed = errors.New("malformed task data")
	// ErrVersionMismatch is returned when stored data uses another schema version.
	ErrVersionMismatch = errors.New("task data version mismatch")
	// ErrInvalidQuadrant is returned for a value outside the quadrant set.
	ErrInvalidQuadrant = errors.New("invalid quadrant")
)

// InvariantError reports a task whose completion facts disagree.
type InvariantError struct {
	TaskID string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("task %s: %s", e.TaskID, e.Reason)
}
