// Package persist writes task snapshots to durable storage in the background.
package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/colonyops/matrix/internal/core/eventbus"
	"github.com/colonyops/matrix/internal/core/task"
	"github.com/rs/zerolog"
)

// DefaultSaveTimeout bounds a single backend Save.
const DefaultSaveTimeout = 5 * time.Second

// ErrClosed is returned by Flush after Close has stopped the worker with
// snapshots still unwritten.
var ErrClosed = errors.New("writer closed")

// Status is the outcome of the most recent save attempt.
type Status struct {
	OK       bool
	Err      error
	At       time.Time
	Attempts int
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the writer logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Writer) { w.log = l }
}

// WithBus publishes save outcomes on bus.
func WithBus(bus *eventbus.EventBus) Option {
	return func(w *Writer) { w.bus = bus }
}

// WithTimeout bounds each backend Save call.
func WithTimeout(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithClock overrides time.Now for status timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// Writer persists the latest enqueued snapshot on a single worker goroutine.
// Enqueue never blocks; a snapshot that has not been picked up yet is
// replaced by a newer one.
type Writer struct {
	backend task.Backend
	log     zerolog.Logger
	bus     *eventbus.EventBus
	timeout time.Duration
	now     func() time.Time

	mu         sync.Mutex
	pending    []task.Task
	hasPending bool
	enqueued   uint64
	written    uint64
	progress   chan struct{}
	status     Status
	closed     bool

	trigger chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

// NewWriter starts a writer for backend.
func NewWriter(backend task.Backend, opts ...Option) *Writer {
	w := &Writer{
		backend:  backend,
		log:      zerolog.Nop(),
		timeout:  DefaultSaveTimeout,
		now:      time.Now,
		progress: make(chan struct{}),
		trigger:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.run()
	return w
}

// Enqueue schedules tasks to be saved. The slice is owned by the writer
// after the call.
func (w *Writer) Enqueue(tasks []task.Task) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.log.Warn().Int("count", len(tasks)).Msg("enqueue after close, snapshot dropped")
		return
	}

	if w.hasPending {
		w.log.Debug().Msg("replacing unwritten snapshot")
	}
	w.pending = tasks
	w.hasPending = true
	w.enqueued++
	w.mu.Unlock()

	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Flush waits until every snapshot enqueued before the call has been
// attempted. Save failures are not returned; see Status.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.enqueued
	w.mu.Unlock()

	for {
		w.mu.Lock()
		if w.written >= target {
			w.mu.Unlock()
			return nil
		}
		progress := w.progress
		w.mu.Unlock()

		select {
		case <-progress:
		case <-w.done:
			w.mu.Lock()
			caughtUp := w.written >= target
			w.mu.Unlock()
			if caughtUp {
				return nil
			}
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close flushes pending work and stops the worker. It is safe to call more
// than once.
func (w *Writer) Close(ctx context.Context) error {
	err := w.Flush(ctx)

	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.stop)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// Status returns the outcome of the latest save attempt.
func (w *Writer) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *Writer) run() {
	defer close(w.done)

	for {
		select {
		case <-w.trigger:
			w.writePending()
		case <-w.stop:
			w.writePending()
			return
		}
	}
}

func (w *Writer) writePending() {
	w.mu.Lock()
	if !w.hasPending {
		w.mu.Unlock()
		return
	}
	tasks := w.pending
	seq := w.enqueued
	w.pending = nil
	w.hasPending = false
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	err := w.backend.Save(ctx, tasks)
	cancel()

	at := w.now()

	w.mu.Lock()
	w.written = seq
	w.status.Attempts++
	w.status.At = at
	w.status.OK = err == nil
	w.status.Err = err
	close(w.progress)
	w.progress = make(chan struct{})
	w.mu.Unlock()

	if err != nil {
		w.log.Error().Err(err).Int("count", len(tasks)).Msg("failed to save tasks")
		w.bus.PublishStoreSaveFailed(eventbus.StoreSaveFailedPayload{Count: len(tasks), Err: err, At: at})
		return
	}

	w.log.Debug().Int("count", len(tasks)).Msg("tasks saved")
	w.bus.PublishStoreSaved(eventbus.StoreSavedPayload{Count: len(tasks), At: at})
}
