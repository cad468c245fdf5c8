package board

import (
	"time"

	"github.com/colonyops/matrix/internal/core/task"
	"github.com/rs/zerolog"
)

// reorder computes the collection after setting the order of quadrant q.
//
// Named tasks (unknown ids skipped, repeats collapsed) come first in the
// given order. Any named task outside q is moved into q through
// task.Transition. Tasks already in q but not named follow in their
// previous relative order. Everything else keeps its relative order ahead of
// the quadrant. UpdatedAt is refreshed only for tasks that changed quadrant
// or position within q.
//
// It reports false when the per-quadrant orders and task values would not
// change.
func reorder(cur []task.Task, q task.Quadrant, ids []string, now time.Time, log zerolog.Logger) ([]task.Task, bool) {
	byID := make(map[string]int, len(cur))
	oldPos := make(map[string]int)
	for i, t := range cur {
		byID[t.ID] = i
		if t.Quadrant == q {
			oldPos[t.ID] = len(oldPos)
		}
	}

	named := make(map[string]bool, len(ids))
	seq := make([]task.Task, 0, len(ids)+len(oldPos))

	for _, id := range ids {
		if named[id] {
			continue
		}
		i, ok := byID[id]
		if !ok {
			log.Debug().Str("task_id", id).Str("quadrant", string(q)).Msg("set order: skipping unknown task")
			continue
		}
		named[id] = true

		t := cur[i]
		if t.Quadrant != q {
			t = task.Transition(t, task.SetQuadrant(q), now)
		}
		seq = append(seq, t)
	}

	for _, t := range cur {
		if t.Quadrant == q && !named[t.ID] {
			seq = append(seq, t)
		}
	}

	changed := false
	for i, t := range seq {
		pos, wasIn := oldPos[t.ID]
		switch {
		case !wasIn:
			changed = true
		case pos != i:
			seq[i] = task.Touch(t, now)
			changed = true
		}
	}
	if !changed {
		return cur, false
	}

	next := make([]task.Task, 0, len(cur))
	for _, t := range cur {
		if t.Quadrant != q && !named[t.ID] {
			next = append(next, t)
		}
	}
	next = append(next, seq...)

	return next, true
}
