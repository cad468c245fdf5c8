package commands

import (
	"testing"

	"github.com/colonyops/matrix/internal/board"
	"github.com/colonyops/matrix/internal/core/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueLabel(t *testing.T) {
	date, err := task.ParseDate("2026-11-02")
	require.NoError(t, err)
	at, err := task.ParseTimeOfDay("09:05")
	require.NoError(t, err)

	assert.Empty(t, dueLabel(task.Task{}))
	assert.Empty(t, dueLabel(task.Task{DueTime: at}), "a time without a date is not shown")
	assert.Equal(t, "02/11/2026", dueLabel(task.Task{DueDate: date}))
	assert.Equal(t, "02/11/2026 09:05", dueLabel(task.Task{DueDate: date, DueTime: at}))
}

func TestTagFilter(t *testing.T) {
	tk := task.Task{Tags: []string{"work/team", "q3"}}

	tests := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{name: "no patterns", want: true},
		{name: "exact", patterns: []string{"q3"}, want: true},
		{name: "glob", patterns: []string{"work/*"}, want: true},
		{name: "single char", patterns: []string{"q?"}, want: true},
		{name: "all must match", patterns: []string{"work/*", "home"}, want: false},
		{name: "no match", patterns: []string{"personal"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := newTagFilter(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.keep(tk))
		})
	}

	_, err := newTagFilter([]string{"[oops"})
	require.Error(t, err)
}

func TestBoardView(t *testing.T) {
	date, err := task.ParseDate("2026-11-02")
	require.NoError(t, err)

	p := board.NewProjector()
	proj := p.Project([]task.Task{
		{ID: "a", Title: "file taxes", Tags: []string{"home"}, DueDate: date, Quadrant: task.QuadrantDoNow},
		{ID: "b", Title: "plan offsite", Tags: []string{}, Quadrant: task.QuadrantDelegate},
		{ID: "c", Title: "old chore", Tags: []string{}, Completed: true, Quadrant: task.QuadrantCompleted, PreviousQuadrant: task.QuadrantDoLater},
	})

	t.Run("whole board", func(t *testing.T) {
		out := boardView{width: 120}.render(proj, task.Quadrants())

		for _, q := range task.Quadrants() {
			assert.Contains(t, out, q.Meta().Title)
		}
		assert.Contains(t, out, "file taxes")
		assert.Contains(t, out, "02/11/2026")
		assert.Contains(t, out, "#home")
		assert.Contains(t, out, "plan offsite")
		assert.Contains(t, out, "old chore")
		assert.Contains(t, out, "(empty)")
	})

	t.Run("single quadrant with filter", func(t *testing.T) {
		f, err := newTagFilter([]string{"work"})
		require.NoError(t, err)

		out := boardView{width: 80, filter: f}.render(proj, []task.Quadrant{task.QuadrantDoNow})
		assert.Contains(t, out, task.QuadrantDoNow.Meta().Title)
		assert.NotContains(t, out, task.QuadrantDelegate.Meta().Title)
		assert.NotContains(t, out, "file taxes")
		assert.Contains(t, out, "(empty)")
	})
}
