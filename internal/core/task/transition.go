package task

import "time"

// Transition applies p to current and returns the resulting task. It is the
// single place where the completion flag and COMPLETED membership are kept in
// step. Rules are evaluated in order and a later rule overrides an earlier one:
//
//  1. Completed=true on an open task outside COMPLETED: remember the quadrant
//     as origin and move to COMPLETED.
//  2. Completed=false on a completed task in COMPLETED: return to the origin
//     (UNCATEGORIZED when none) and forget it.
//  3. Quadrant=COMPLETED from any other quadrant: same as rule 1.
//  4. Quadrant=X (not COMPLETED) while in COMPLETED: adopt X, re-open the task
//     and forget the origin.
//  5. Anything else applies as given.
//
// UpdatedAt is refreshed (never moving backwards) for any non-empty patch,
// even one whose values equal the current ones.
func Transition(current Task, p Patch, now time.Time) Task {
	if p.IsEmpty() {
		return current.Clone()
	}

	next := p.applyFields(current.Clone())

	if p.Quadrant != nil {
		next.Quadrant = *p.Quadrant
	}
	if p.Completed != nil {
		next.Completed = *p.Completed
	}

	fired := false

	// 1. complete via flag
	if p.Completed != nil && *p.Completed && !current.Completed && current.Quadrant != QuadrantCompleted {
		next = complete(next, current.Quadrant)
		fired = true
	}

	// 2. uncomplete via flag
	if p.Completed != nil && !*p.Completed && current.Completed && current.Quadrant == QuadrantCompleted {
		origin := current.PreviousQuadrant
		if !origin.CanBeOrigin() {
			origin = QuadrantUncategorized
		}
		next.Quadrant = origin
		next.Completed = false
		next.PreviousQuadrant = ""
		fired = true
	}

	// 3. move into COMPLETED
	if p.Quadrant != nil && *p.Quadrant == QuadrantCompleted && current.Quadrant != QuadrantCompleted {
		next = complete(next, current.Quadrant)
		fired = true
	}

	// 4. move out of COMPLETED
	if p.Quadrant != nil && *p.Quadrant != QuadrantCompleted && current.Quadrant == QuadrantCompleted {
		next.Quadrant = *p.Quadrant
		next.Completed = false
		next.PreviousQuadrant = ""
		fired = true
	}

	if !fired {
		// No transition: the completion facts stay as they were.
		next.Quadrant = stateQuadrant(current, p)
		next.Completed = current.Completed
		next.PreviousQuadrant = current.PreviousQuadrant
	}

	next.UpdatedAt = later(now, current.UpdatedAt)
	return next
}

// stateQuadrant is the quadrant a rule-5 patch leaves the task in. A quadrant
// change between two open buckets is applied; anything touching COMPLETED has
// been handled by the rules above.
func stateQuadrant(current Task, p Patch) Quadrant {
	if p.Quadrant != nil && *p.Quadrant != QuadrantCompleted && current.Quadrant != QuadrantCompleted {
		return *p.Quadrant
	}
	return current.Quadrant
}

func complete(t Task, origin Quadrant) Task {
	if origin.CanBeOrigin() {
		t.PreviousQuadrant = origin
	} else {
		t.PreviousQuadrant = ""
	}
	t.Quadrant = QuadrantCompleted
	t.Completed = true
	return t
}

func later(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}

// Touch refreshes UpdatedAt without letting it move backwards. Used when a
// task changes position but none of its fields.
func Touch(t Task, now time.Time) Task {
	t = t.Clone()
	t.UpdatedAt = later(now, t.UpdatedAt)
	return t
}
