// Package logging holds zerolog helpers shared by the board components.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger from the global logger with a component
// identifier under the "cmp" key.
func Component(name string) zerolog.Logger {
	return For(log.Logger, name)
}

// For derives a component logger from parent. The ContextHook is attached so
// events logged with .Ctx(ctx) pick up task_id and quadrant.
func For(parent zerolog.Logger, name string) zerolog.Logger {
	return parent.With().Str("cmp", name).Logger().Hook(ContextHook{})
}
