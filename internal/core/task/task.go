// Package task defines the task domain model for the urgency/importance board:
// quadrants, tasks, partial patches and the completion state machine.
package task

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Quadrant is the bucket a task currently lives in.
type Quadrant string

const (
	QuadrantDoNow         Quadrant = "DO_NOW"
	QuadrantDoLater       Quadrant = "DO_LATER"
	QuadrantDelegate      Quadrant = "DELEGATE"
	QuadrantEliminate     Quadrant = "ELIMINATE"
	QuadrantUncategorized Quadrant = "UNCATEGORIZED"
	QuadrantCompleted     Quadrant = "COMPLETED"
)

var allQuadrants = []Quadrant{
	QuadrantDoNow,
	QuadrantDoLater,
	QuadrantDelegate,
	QuadrantEliminate,
	QuadrantUncategorized,
	QuadrantCompleted,
}

var quadrantAliases = map[string]Quadrant{
	"now":       QuadrantDoNow,
	"later":     QuadrantDoLater,
	"delegate":  QuadrantDelegate,
	"eliminate": QuadrantEliminate,
	"inbox":     QuadrantUncategorized,
	"done":      QuadrantCompleted,
}

// Quadrants returns every quadrant in display order.
func Quadrants() []Quadrant {
	return slices.Clone(allQuadrants)
}

// ParseQuadrant accepts canonical names (case-insensitive, '-' or '_') and
// the short aliases now, later, delegate, eliminate, inbox and done.
func ParseQuadrant(s string) (Quadrant, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if q, ok := quadrantAliases[key]; ok {
		return q, nil
	}

	q := Quadrant(strings.ToUpper(strings.ReplaceAll(key, "-", "_")))
	if !q.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidQuadrant, s)
	}
	return q, nil
}

// IsValid reports whether q is one of the six known quadrants.
func (q Quadrant) IsValid() bool {
	return slices.Contains(allQuadrants, q)
}

// IsMatrix reports whether q is one of the four urgency/importance quadrants.
func (q Quadrant) IsMatrix() bool {
	switch q {
	case QuadrantDoNow, QuadrantDoLater, QuadrantDelegate, QuadrantEliminate:
		return true
	}
	return false
}

// CanBeOrigin reports whether q may be recorded as the quadrant a task
// returns to when it is un-completed.
func (q Quadrant) CanBeOrigin() bool {
	return q.IsMatrix() || q == QuadrantUncategorized
}

// Meta is display metadata for a quadrant.
type Meta struct {
	Title    string
	Subtitle string
}

var quadrantMeta = map[Quadrant]Meta{
	QuadrantDoNow:         {Title: "Urgent & Important", Subtitle: "Do now"},
	QuadrantDoLater:       {Title: "Urgent & Not Important", Subtitle: "Do later"},
	QuadrantDelegate:      {Title: "Important & Not Urgent", Subtitle: "Delegate"},
	QuadrantEliminate:     {Title: "Not Urgent & Not Important", Subtitle: "Eliminate"},
	QuadrantUncategorized: {Title: "Uncategorized tasks", Subtitle: "Drag into a quadrant when you stop procrastinating"},
	QuadrantCompleted:     {Title: "Completed", Subtitle: "Done and dusted"},
}

// Meta returns the display title and subtitle for q.
func (q Quadrant) Meta() Meta {
	return quadrantMeta[q]
}

// Task is the persisted unit of work.
//
// Invariants:
//   - Quadrant == QuadrantCompleted if and only if Completed is true.
//   - PreviousQuadrant is non-empty only while Quadrant == QuadrantCompleted.
type Task struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Tags             []string  `json:"tags"`
	DueDate          Date      `json:"dueDate,omitzero"`
	DueTime          TimeOfDay `json:"dueTime,omitzero"`
	Completed        bool      `json:"completed"`
	Quadrant         Quadrant  `json:"quadrant"`
	PreviousQuadrant Quadrant  `json:"previousQuadrantId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	t.Tags = slices.Clone(t.Tags)
	return t
}

// Equal reports whether t and o hold identical values.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID &&
		t.Title == o.Title &&
		t.Description == o.Description &&
		slices.Equal(t.Tags, o.Tags) &&
		t.DueDate == o.DueDate &&
		t.DueTime == o.DueTime &&
		t.Completed == o.Completed &&
		t.Quadrant == o.Quadrant &&
		t.PreviousQuadrant == o.PreviousQuadrant &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		t.UpdatedAt.Equal(o.UpdatedAt)
}

// HasTag reports whether t carries the given tag.
func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// CloneAll deep-copies a task collection.
func CloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// NormalizeTags trims tags, drops empty ones and suppresses duplicates while
// preserving insertion order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}
