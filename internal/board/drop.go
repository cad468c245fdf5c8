package board

import (
	"errors"
	"fmt"
	"slices"

	"github.com/colonyops/matrix/internal/core/task"
	"github.com/rs/zerolog"
)

// ErrStaleDrop is returned when a drop names a task that is no longer in
// the source quadrant.
var ErrStaleDrop = errors.New("stale drop")

// DropEvent is a completed drag gesture: the task left Source at
// SourceIndex and was released in Dest at DestIndex.
type DropEvent struct {
	TaskID      string
	Source      task.Quadrant
	Dest        task.Quadrant
	SourceIndex int
	DestIndex   int
}

// Board pairs a Store with an attached Projector and turns drop gestures
// into store mutations.
type Board struct {
	store     *Store
	projector *Projector
	log       zerolog.Logger
	detach    func()
}

// NewBoard attaches a fresh projector to store.
func NewBoard(store *Store, log zerolog.Logger) *Board {
	p := NewProjector()
	return &Board{
		store:     store,
		projector: p,
		log:       log,
		detach:    p.Attach(store),
	}
}

// Store returns the underlying store.
func (b *Board) Store() *Store { return b.store }

// Projection returns the current projection.
func (b *Board) Projection() Projection { return b.projector.Current() }

// Detach stops the projector following the store.
func (b *Board) Detach() { b.detach() }

// Drop applies ev. Within one quadrant it reorders; across quadrants it
// moves the task through the state machine and then fixes the order of both
// quadrants.
func (b *Board) Drop(ev DropEvent) error {
	if !ev.Source.IsValid() || !ev.Dest.IsValid() {
		return fmt.Errorf("drop %s: %w", ev.TaskID, task.ErrInvalidQuadrant)
	}

	proj := b.projector.Current()
	src := proj.Sequence(ev.Source).IDs()

	from := ev.SourceIndex
	if from < 0 || from >= len(src) || src[from] != ev.TaskID {
		from = slices.Index(src, ev.TaskID)
		if from < 0 {
			b.log.Warn().
				Str("task_id", ev.TaskID).
				Str("quadrant", string(ev.Source)).
				Msg("drop: task not in source quadrant")
			return fmt.Errorf("%w: %s not in %s", ErrStaleDrop, ev.TaskID, ev.Source)
		}
		b.log.Debug().Str("task_id", ev.TaskID).Int("index", from).Msg("drop: source index corrected")
	}

	if ev.Source == ev.Dest {
		ids := slices.Delete(src, from, from+1)
		to := clamp(ev.DestIndex, len(ids))
		ids = slices.Insert(ids, to, ev.TaskID)

		b.store.SetOrder(ev.Dest, ids)
		return nil
	}

	dst := proj.Sequence(ev.Dest).IDs()
	srcIDs := slices.Delete(src, from, from+1)
	to := clamp(ev.DestIndex, len(dst))
	dstIDs := slices.Insert(dst, to, ev.TaskID)

	if _, ok := b.store.Patch(ev.TaskID, task.SetQuadrant(ev.Dest)); !ok {
		return fmt.Errorf("%w: %s", ErrStaleDrop, ev.TaskID)
	}
	b.store.SetOrder(ev.Source, srcIDs)
	b.store.SetOrder(ev.Dest, dstIDs)
	return nil
}

// Reconcile commits proposal, an externally rearranged copy of a quadrant's
// sequence, as the quadrant's order.
func (b *Board) Reconcile(q task.Quadrant, proposal []task.Task) {
	ids := make([]string, len(proposal))
	for i, t := range proposal {
		ids[i] = t.ID
	}
	b.store.SetOrder(q, ids)
}

func clamp(i, n int) int {
	return max(0, min(i, n))
}
