// Package matrix assembles the board, its persistence and the event bus into
// the App consumed by the commands.
package matrix

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/matrix/internal/board"
	"github.com/colonyops/matrix/internal/core/config"
	"github.com/colonyops/matrix/internal/core/eventbus"
	"github.com/colonyops/matrix/internal/core/logging"
	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/internal/persist"
	"github.com/rs/zerolog"
)

// busBuffer is the number of undelivered events the bus holds.
const busBuffer = 64

// App is the central entry point for all board operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Config  *config.Config
	Backend task.Backend
	Bus     *eventbus.EventBus
	Store   *board.Store
	Board   *board.Board
	Saves   *eventbus.SaveIndicator

	// TasksFile is the JSON file backing the board, empty for other backends.
	TasksFile string

	cancelBus context.CancelFunc
	closers   []func() error
}

// New assembles an App around an opened backend. Extra store options are
// applied after the ones derived from cfg.
func New(ctx context.Context, cfg *config.Config, backend task.Backend, logger zerolog.Logger, opts ...board.Option) *App {
	bus := eventbus.New(busBuffer)
	if cfg.LogEvents {
		eventbus.RegisterDebugLogger(bus, logging.For(logger, "bus"))
	}

	busCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	go bus.Start(busCtx)

	writer := persist.NewWriter(backend,
		persist.WithLogger(logging.For(logger, "writer")),
		persist.WithBus(bus),
		persist.WithTimeout(cfg.Storage.SaveTimeout),
	)

	// The indicator must subscribe before the store can publish.
	saves := eventbus.NewSaveIndicator(bus)

	storeOpts := []board.Option{
		board.WithLogger(logging.For(logger, "store")),
		board.WithBus(bus),
		board.WithWriter(writer),
		board.WithSeed(cfg.Seed),
	}
	store := board.New(ctx, backend, append(storeOpts, opts...)...)

	return &App{
		Config:    cfg,
		Backend:   backend,
		Bus:       bus,
		Store:     store,
		Board:     board.NewBoard(store, logging.For(logger, "board")),
		Saves:     saves,
		cancelBus: cancel,
	}
}

// Open opens the backend selected by cfg and assembles the App around it.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	b, err := openBackend(ctx, cfg, logging.For(logger, "backend"))
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Storage.Backend, err)
	}

	app := New(ctx, cfg, b.backend, logger)
	app.TasksFile = b.tasksFile
	if b.close != nil {
		app.closers = append(app.closers, b.close)
	}

	return app, nil
}

// Close writes pending changes, stops the bus and releases the backend.
// ctx bounds the final write.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	a.Board.Detach()
	if err := a.Store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush tasks: %w", err))
	}

	if a.cancelBus != nil {
		a.cancelBus()
	}

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
