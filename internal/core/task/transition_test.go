package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Minute)
)

func openTask(q Quadrant) Task {
	return Task{
		ID:        "a",
		Title:     "Write report",
		Tags:      []string{"work"},
		Quadrant:  q,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

func TestTransition_CompleteViaFlag(t *testing.T) {
	got := Transition(openTask(QuadrantDoNow), SetCompleted(true), t1)

	assert.True(t, got.Completed)
	assert.Equal(t, QuadrantCompleted, got.Quadrant)
	assert.Equal(t, QuadrantDoNow, got.PreviousQuadrant)
	assert.Equal(t, t1, got.UpdatedAt)
	require.NoError(t, CheckInvariants(got))
}

func TestTransition_RoundTrips(t *testing.T) {
	tests := []struct {
		name   string
		origin Quadrant
	}{
		{name: "do now", origin: QuadrantDoNow},
		{name: "do later", origin: QuadrantDoLater},
		{name: "delegate", origin: QuadrantDelegate},
		{name: "eliminate", origin: QuadrantEliminate},
		{name: "uncategorized", origin: QuadrantUncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := Transition(openTask(tt.origin), SetCompleted(true), t1)
			back := Transition(done, SetCompleted(false), t1.Add(time.Second))

			assert.False(t, back.Completed)
			assert.Equal(t, tt.origin, back.Quadrant)
			assert.Empty(t, back.PreviousQuadrant)
			require.NoError(t, CheckInvariants(back))
		})
	}
}

func TestTransition_UncompleteWithoutOrigin(t *testing.T) {
	cur := openTask(QuadrantCompleted)
	cur.Completed = true

	got := Transition(cur, SetCompleted(false), t1)

	assert.False(t, got.Completed)
	assert.Equal(t, QuadrantUncategorized, got.Quadrant)
	assert.Empty(t, got.PreviousQuadrant)
}

func TestTransition_MoveIntoCompletedMatchesCheckbox(t *testing.T) {
	viaFlag := Transition(openTask(QuadrantDelegate), SetCompleted(true), t1)
	viaDrop := Transition(openTask(QuadrantDelegate), SetQuadrant(QuadrantCompleted), t1)

	assert.Equal(t, viaFlag, viaDrop)
	assert.True(t, viaDrop.Completed)
	assert.Equal(t, QuadrantDelegate, viaDrop.PreviousQuadrant)
}

func TestTransition_MoveOutOfCompletedIgnoresOrigin(t *testing.T) {
	origins := []Quadrant{"", QuadrantDoNow, QuadrantEliminate, QuadrantUncategorized}

	for _, origin := range origins {
		t.Run(string(origin), func(t *testing.T) {
			cur := openTask(QuadrantCompleted)
			cur.Completed = true
			cur.PreviousQuadrant = origin

			got := Transition(cur, SetQuadrant(QuadrantDoLater), t1)

			assert.False(t, got.Completed)
			assert.Equal(t, QuadrantDoLater, got.Quadrant)
			assert.Empty(t, got.PreviousQuadrant)
		})
	}
}

func TestTransition_PlainMove(t *testing.T) {
	got := Transition(openTask(QuadrantDoNow), SetQuadrant(QuadrantEliminate), t1)

	assert.Equal(t, QuadrantEliminate, got.Quadrant)
	assert.False(t, got.Completed)
	assert.Empty(t, got.PreviousQuadrant)
}

func TestTransition_LaterRuleOverrides(t *testing.T) {
	cur := openTask(QuadrantCompleted)
	cur.Completed = true
	cur.PreviousQuadrant = QuadrantDoNow

	// rule 2 would restore DO_NOW, rule 4 moves to DELEGATE and wins
	got := Transition(cur, Patch{Completed: Ptr(false), Quadrant: Ptr(QuadrantDelegate)}, t1)

	assert.Equal(t, QuadrantDelegate, got.Quadrant)
	assert.False(t, got.Completed)
	assert.Empty(t, got.PreviousQuadrant)
}

func TestTransition_CompleteWithQuadrantStaysCompleted(t *testing.T) {
	got := Transition(openTask(QuadrantDoNow), Patch{Completed: Ptr(true), Quadrant: Ptr(QuadrantDoLater)}, t1)

	assert.Equal(t, QuadrantCompleted, got.Quadrant)
	assert.True(t, got.Completed)
	assert.Equal(t, QuadrantDoNow, got.PreviousQuadrant)
}

func TestTransition_IdenticalValuesRefreshOnlyUpdatedAt(t *testing.T) {
	t.Run("open task", func(t *testing.T) {
		cur := openTask(QuadrantDoNow)
		got := Transition(cur, Patch{
			Title:     Ptr(cur.Title),
			Completed: Ptr(false),
			Quadrant:  Ptr(QuadrantDoNow),
		}, t1)

		want := cur
		want.UpdatedAt = t1
		assert.Equal(t, want, got)
	})

	t.Run("completed task", func(t *testing.T) {
		cur := Transition(openTask(QuadrantDoLater), SetCompleted(true), t0)
		got := Transition(cur, Patch{
			Completed: Ptr(true),
			Quadrant:  Ptr(QuadrantCompleted),
		}, t1)

		assert.Equal(t, QuadrantCompleted, got.Quadrant)
		assert.Equal(t, QuadrantDoLater, got.PreviousQuadrant)
		assert.True(t, got.Completed)
		assert.Equal(t, t1, got.UpdatedAt)
	})
}

func TestTransition_EmptyPatchIsNoop(t *testing.T) {
	cur := openTask(QuadrantDoNow)
	got := Transition(cur, Patch{}, t1)

	assert.Equal(t, cur, got)
}

func TestTransition_UpdatedAtNeverMovesBack(t *testing.T) {
	cur := openTask(QuadrantDoNow)
	cur.UpdatedAt = t1

	got := Transition(cur, Patch{Title: Ptr("earlier clock")}, t0)

	assert.Equal(t, t1, got.UpdatedAt)
}

func TestTransition_FieldUpdates(t *testing.T) {
	due := Date{Year: 2026, Month: time.April, Day: 2}
	at := TimeOfDay{Hour: 14, Minute: 30, Set: true}

	got := Transition(openTask(QuadrantDoNow), Patch{
		Title:       Ptr("  Ship it  "),
		Description: Ptr(" notes "),
		AddTags:     []string{"work", "urgent", " "},
		DueDate:     &due,
		DueTime:     &at,
	}, t1)

	assert.Equal(t, "Ship it", got.Title)
	assert.Equal(t, "notes", got.Description)
	assert.Equal(t, []string{"work", "urgent"}, got.Tags)
	assert.Equal(t, due, got.DueDate)
	assert.Equal(t, at, got.DueTime)

	cleared := Transition(got, Patch{ClearDueDate: true, ClearDueTime: true, RemoveTags: []string{"work"}}, t1)
	assert.True(t, cleared.DueDate.IsZero())
	assert.True(t, cleared.DueTime.IsZero())
	assert.Equal(t, []string{"urgent"}, cleared.Tags)
}

func TestTransition_DoesNotAliasTags(t *testing.T) {
	cur := openTask(QuadrantDoNow)
	got := Transition(cur, Patch{AddTags: []string{"extra"}}, t1)

	got.Tags[0] = "mutated"
	assert.Equal(t, []string{"work"}, cur.Tags)
}

func TestTransition_InvariantsHoldForEveryPatch(t *testing.T) {
	bools := []*bool{nil, Ptr(true), Ptr(false)}
	quadrants := append([]*Quadrant{nil}, func() []*Quadrant {
		out := []*Quadrant{}
		for _, q := range Quadrants() {
			out = append(out, Ptr(q))
		}
		return out
	}()...)

	starts := []Task{}
	for _, q := range Quadrants() {
		starts = append(starts, Normalize(openTask(q)))
	}
	starts = append(starts, Transition(openTask(QuadrantDoLater), SetCompleted(true), t0))

	for _, start := range starts {
		for _, c := range bools {
			for _, q := range quadrants {
				got := Transition(start, Patch{Completed: c, Quadrant: q}, t1)
				require.NoError(t, CheckInvariants(got), "start=%s completed=%v quadrant=%v", start.Quadrant, c, q)
			}
		}
	}
}
