package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts task_id and quadrant from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if taskID := GetTaskID(ctx); taskID != "" {
		e.Str("task_id", taskID)
	}

	if quadrant := GetQuadrant(ctx); quadrant != "" {
		e.Str("quadrant", quadrant)
	}
}
