package logging

import "context"

type contextKey string

const (
	taskIDKey   contextKey = "task_id"
	quadrantKey contextKey = "quadrant"
)

// WithTaskID adds a task ID to the context.
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, taskIDKey, taskID)
}

// WithQuadrant adds a quadrant name to the context.
func WithQuadrant(ctx context.Context, quadrant string) context.Context {
	return context.WithValue(ctx, quadrantKey, quadrant)
}

// GetTaskID retrieves the task ID from the context.
// Returns empty string if not present.
func GetTaskID(ctx context.Context) string {
	if id, ok := ctx.Value(taskIDKey).(string); ok {
		return id
	}
	return ""
}

// GetQuadrant retrieves the quadrant from the context.
// Returns empty string if not present.
func GetQuadrant(ctx context.Context) string {
	if q, ok := ctx.Value(quadrantKey).(string); ok {
		return q
	}
	return ""
}
