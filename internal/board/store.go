// Package board holds the in-memory task collection and the per-quadrant
// views built from it.
package board

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/colonyops/matrix/internal/core/eventbus"
	"github.com/colonyops/matrix/internal/core/task"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Saver receives every committed collection for durable storage.
// Implementations must not block in Enqueue.
type Saver interface {
	Enqueue(tasks []task.Task)
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

// Listener is called after every committed mutation with a copy of the new
// collection.
type Listener func(tasks []task.Task)

// CreateInput describes a new task.
type CreateInput struct {
	Title       string
	Description string
	Tags        []string
	DueDate     task.Date
	DueTime     task.TimeOfDay
	Quadrant    task.Quadrant
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the task id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithBus publishes change and seed events on bus.
func WithBus(bus *eventbus.EventBus) Option {
	return func(s *Store) { s.bus = bus }
}

// WithWriter hands committed collections to saver.
func WithWriter(saver Saver) Option {
	return func(s *Store) { s.saver = saver }
}

// WithSeed controls whether an unusable backend yields the seed tasks (the
// default) or an empty board.
func WithSeed(enabled bool) Option {
	return func(s *Store) { s.seed = enabled }
}

// defaultListenerWait bounds how long a mutation waits for running
// listeners before it is treated as a call from inside one.
const defaultListenerWait = 2 * time.Second

// NewTaskID returns a fresh task id.
func NewTaskID() string {
	return "task_" + uuid.NewString()
}

// Store owns the task collection. Mutations are applied synchronously and
// are visible through Snapshot before any persistence happens. Commits and
// listener notification are serialised, so listeners never observe two
// mutations interleaved. Listeners must not call mutating methods: such a
// call gives up after listenerWait, logs an error and changes nothing.
type Store struct {
	log   zerolog.Logger
	bus   *eventbus.EventBus
	saver Saver
	now   func() time.Time
	newID func() string
	seed  bool

	// sem is the commit lock; a channel so acquiring it can time out.
	sem          chan struct{}
	notifying    atomic.Bool
	listenerWait time.Duration
	tasks        atomic.Pointer[[]task.Task]

	lmu       sync.Mutex
	listeners []subscription
	nextSub   int
}

type subscription struct {
	id int
	fn Listener
}

// New loads the collection from backend. Missing, unreadable, malformed or
// incompatible data falls back to the seed tasks.
func New(ctx context.Context, backend task.Backend, opts ...Option) *Store {
	s := &Store{
		log:   zerolog.Nop(),
		now:   time.Now,
		newID: NewTaskID,
		seed:  true,

		sem:          make(chan struct{}, 1),
		listenerWait: defaultListenerWait,
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks := s.load(ctx, backend)
	s.tasks.Store(&tasks)
	return s
}

func (s *Store) load(ctx context.Context, backend task.Backend) []task.Task {
	if backend == nil {
		return s.fallback("no backend")
	}

	tasks, err := backend.Load(ctx)
	switch {
	case err == nil:
		return s.sanitize(tasks)
	case errors.Is(err, task.ErrNoData):
		s.log.Debug().Msg("no stored tasks")
		return s.fallback("empty")
	case errors.Is(err, task.ErrVersionMismatch):
		s.log.Warn().Err(err).Msg("stored tasks use another version, starting over")
		return s.fallback("version-mismatch")
	case errors.Is(err, task.ErrMalformed):
		s.log.Warn().Err(err).Msg("stored tasks are malformed, starting over")
		return s.fallback("malformed")
	default:
		s.log.Warn().Err(err).Msg("failed to load tasks, starting over")
		return s.fallback("load-failed")
	}
}

func (s *Store) fallback(reason string) []task.Task {
	if !s.seed {
		return []task.Task{}
	}

	s.bus.PublishStoreSeeded(eventbus.StoreSeededPayload{Reason: reason})
	return task.Seed(s.now())
}

// sanitize repairs loaded tasks and drops entries without an id or with a
// duplicate id (first occurrence wins).
func (s *Store) sanitize(loaded []task.Task) []task.Task {
	out := make([]task.Task, 0, len(loaded))
	seen := make(map[string]bool, len(loaded))

	for _, t := range loaded {
		if t.ID == "" {
			s.log.Warn().Str("title", t.Title).Msg("dropping stored task without id")
			continue
		}
		if seen[t.ID] {
			s.log.Warn().Str("task_id", t.ID).Msg("dropping duplicate stored task")
			continue
		}
		seen[t.ID] = true

		fixed := task.Normalize(t)
		if !fixed.Equal(t) {
			s.log.Debug().Str("task_id", t.ID).Msg("repaired stored task")
		}
		out = append(out, fixed)
	}

	return out
}

// Snapshot returns a copy of the current collection in collection order.
func (s *Store) Snapshot() []task.Task {
	return task.CloneAll(*s.tasks.Load())
}

// Get returns the task with id.
func (s *Store) Get(id string) (task.Task, bool) {
	cur := *s.tasks.Load()
	i := indexOf(cur, id)
	if i < 0 {
		return task.Task{}, false
	}
	return cur[i].Clone(), true
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(*s.tasks.Load())
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.lmu.Lock()
	defer s.lmu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()

		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

// Create appends a new task. Creating into COMPLETED yields a completed
// task with no origin; an empty or unknown quadrant means UNCATEGORIZED.
func (s *Store) Create(in CreateInput) task.Task {
	if !s.lock("create") {
		return task.Task{}
	}
	defer s.unlock()

	q := in.Quadrant
	if !q.IsValid() {
		if q != "" {
			s.log.Warn().Str("quadrant", string(q)).Msg("unknown quadrant, using UNCATEGORIZED")
		}
		q = task.QuadrantUncategorized
	}

	now := s.now()
	t := task.Task{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Tags:        task.NormalizeTags(in.Tags),
		DueDate:     in.DueDate,
		DueTime:     in.DueTime,
		Completed:   q == task.QuadrantCompleted,
		Quadrant:    q,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	cur := *s.tasks.Load()
	next := make([]task.Task, 0, len(cur)+1)
	next = append(next, cur...)
	next = append(next, t)

	s.commit(next, "create", t.ID)
	return t.Clone()
}

// Patch applies p to the task with id through task.Transition and returns
// the result. An unknown id or a patch naming an unknown quadrant changes
// nothing and reports false. An empty patch changes nothing.
func (s *Store) Patch(id string, p task.Patch) (task.Task, bool) {
	if err := p.Validate(); err != nil {
		s.log.Warn().Err(err).Str("task_id", id).Msg("rejected patch")
		return task.Task{}, false
	}

	if !s.lock("patch") {
		return task.Task{}, false
	}
	defer s.unlock()

	cur := *s.tasks.Load()
	i := indexOf(cur, id)
	if i < 0 {
		s.log.Warn().Str("task_id", id).Msg("patch: task not found")
		return task.Task{}, false
	}

	if p.IsEmpty() {
		return cur[i].Clone(), true
	}

	next := slices.Clone(cur)
	next[i] = task.Transition(cur[i], p, s.now())

	s.commit(next, "patch", id)
	return next[i].Clone(), true
}

// Delete removes the task with id. Unknown ids report false.
func (s *Store) Delete(id string) bool {
	if !s.lock("delete") {
		return false
	}
	defer s.unlock()

	cur := *s.tasks.Load()
	i := indexOf(cur, id)
	if i < 0 {
		s.log.Warn().Str("task_id", id).Msg("delete: task not found")
		return false
	}

	next := slices.Delete(slices.Clone(cur), i, i+1)
	s.commit(next, "delete", id)
	return true
}

// SetOrder makes ids the order of quadrant q. See reorder for the rules.
func (s *Store) SetOrder(q task.Quadrant, ids []string) {
	if !q.IsValid() {
		s.log.Warn().Str("quadrant", string(q)).Msg("set order: unknown quadrant")
		return
	}

	if !s.lock("order") {
		return
	}
	defer s.unlock()

	cur := *s.tasks.Load()
	next, changed := reorder(cur, q, ids, s.now(), s.log)
	if !changed {
		return
	}

	s.commit(next, "order", "")
}

// Flush waits for pending durable writes.
func (s *Store) Flush(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Flush(ctx)
}

// Close flushes and stops the writer.
func (s *Store) Close(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Close(ctx)
}

// lock takes the commit lock. While listeners run it waits at most
// listenerWait; a listener mutating the store would otherwise block forever.
func (s *Store) lock(op string) bool {
	if !s.notifying.Load() {
		s.sem <- struct{}{}
		return true
	}

	timer := time.NewTimer(s.listenerWait)
	defer timer.Stop()

	select {
	case s.sem <- struct{}{}:
		return true
	case <-timer.C:
		s.log.Error().
			Str("op", op).
			Dur("waited", s.listenerWait).
			Msg("mutation while change listeners run, dropped; listeners must not mutate the store")
		return false
	}
}

func (s *Store) unlock() { <-s.sem }

// commit publishes next as the current collection. Callers hold the lock.
func (s *Store) commit(next []task.Task, reason, id string) {
	s.tasks.Store(&next)

	s.log.Debug().
		Str("reason", reason).
		Str("task_id", id).
		Int("count", len(next)).
		Msg("committed")

	if s.saver != nil {
		s.saver.Enqueue(task.CloneAll(next))
	}

	s.lmu.Lock()
	listeners := slices.Clone(s.listeners)
	s.lmu.Unlock()

	s.notify(listeners, next)

	s.bus.PublishTasksChanged(eventbus.TasksChangedPayload{
		Reason: reason,
		TaskID: id,
		Count:  len(next),
	})
}

func (s *Store) notify(listeners []subscription, tasks []task.Task) {
	s.notifying.Store(true)
	defer s.notifying.Store(false)

	for _, sub := range listeners {
		sub.fn(task.CloneAll(tasks))
	}
}

func indexOf(tasks []task.Task, id string) int {
	return slices.IndexFunc(tasks, func(t task.Task) bool { return t.ID == id })
}
