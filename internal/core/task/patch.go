package task

import (
	"slices"
	"strings"
)

// Patch is a partial update to a single task. Nil fields are left untouched.
//
// Only Completed and Quadrant take part in the completion state machine; the
// remaining fields are applied verbatim (after trimming / tag normalisation).
type Patch struct {
	Title       *string
	Description *string

	// Tags replaces the tag list. AddTags and RemoveTags are applied after it.
	Tags       *[]string
	AddTags    []string
	RemoveTags []string

	DueDate      *Date
	ClearDueDate bool
	DueTime      *TimeOfDay
	ClearDueTime bool

	Completed *bool
	Quadrant  *Quadrant
}

// IsEmpty reports whether the patch sets nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Tags == nil &&
		len(p.AddTags) == 0 &&
		len(p.RemoveTags) == 0 &&
		p.DueDate == nil &&
		!p.ClearDueDate &&
		p.DueTime == nil &&
		!p.ClearDueTime &&
		p.Completed == nil &&
		p.Quadrant == nil
}

// Validate checks the fields the state machine inspects.
func (p Patch) Validate() error {
	if p.Quadrant != nil && !p.Quadrant.IsValid() {
		return ErrInvalidQuadrant
	}
	return nil
}

// Ptr returns a pointer to v. Convenient for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// SetCompleted builds a patch toggling the completion flag.
func SetCompleted(done bool) Patch {
	return Patch{Completed: &done}
}

// SetQuadrant builds a patch moving a task to q.
func SetQuadrant(q Quadrant) Patch {
	return Patch{Quadrant: &q}
}

// applyFields copies the non-state fields of p onto t.
func (p Patch) applyFields(t Task) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}

	if p.Tags != nil {
		t.Tags = NormalizeTags(*p.Tags)
	}
	if len(p.AddTags) > 0 {
		t.Tags = NormalizeTags(append(slices.Clone(t.Tags), p.AddTags...))
	}
	if len(p.RemoveTags) > 0 {
		t.Tags = slices.DeleteFunc(slices.Clone(t.Tags), func(tag string) bool {
			return slices.Contains(p.RemoveTags, tag)
		})
	}

	switch {
	case p.ClearDueDate:
		t.DueDate = Date{}
	case p.DueDate != nil:
		t.DueDate = *p.DueDate
	}

	switch {
	case p.ClearDueTime:
		t.DueTime = TimeOfDay{}
	case p.DueTime != nil:
		t.DueTime = *p.DueTime
	}

	return t
}
