package task

import "strings"

// Normalize repairs a task read from storage so the completion invariants
// hold. A completed task found outside COMPLETED is moved there with its
// quadrant recorded as origin; a task in COMPLETED is always completed; an
// origin is only kept while in COMPLETED and only when it is a valid origin.
func Normalize(t Task) Task {
	t = t.Clone()
	t.Title = strings.TrimSpace(t.Title)
	t.Tags = NormalizeTags(t.Tags)

	if !t.Quadrant.IsValid() {
		t.Quadrant = QuadrantUncategorized
	}

	switch {
	case t.Quadrant == QuadrantCompleted:
		t.Completed = true
	case t.Completed:
		t = complete(t, t.Quadrant)
	}

	if t.Quadrant != QuadrantCompleted || !t.PreviousQuadrant.CanBeOrigin() {
		t.PreviousQuadrant = ""
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}

	return t
}

// CheckInvariants returns an error describing the first broken invariant in t,
// or nil when t is consistent.
func CheckInvariants(t Task) error {
	switch {
	case !t.Quadrant.IsValid():
		return &InvariantError{TaskID: t.ID, Reason: "unknown quadrant " + string(t.Quadrant)}
	case t.Completed != (t.Quadrant == QuadrantCompleted):
		return &InvariantError{TaskID: t.ID, Reason: "completed flag disagrees with quadrant"}
	case t.PreviousQuadrant != "" && t.Quadrant != QuadrantCompleted:
		return &InvariantError{TaskID: t.ID, Reason: "origin recorded outside COMPLETED"}
	case t.UpdatedAt.Before(t.CreatedAt):
		return &InvariantError{TaskID: t.ID, Reason: "updatedAt precedes createdAt"}
	}
	return nil
}
