package board

import (
	"testing"

	"github.com/colonyops/matrix/internal/core/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjector_Partition(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Quadrant: task.QuadrantDoNow},
		{ID: "b", Quadrant: task.QuadrantDelegate},
		{ID: "c", Quadrant: task.QuadrantDoNow},
		{ID: "d", Quadrant: task.QuadrantCompleted, Completed: true},
	}

	proj := NewProjector().Project(tasks)

	assert.Equal(t, []string{"a", "c"}, proj.Sequence(task.QuadrantDoNow).IDs())
	assert.Equal(t, []string{"b"}, proj.Sequence(task.QuadrantDelegate).IDs())
	assert.Equal(t, []string{"d"}, proj.Sequence(task.QuadrantCompleted).IDs())
	assert.Zero(t, proj.Sequence(task.QuadrantEliminate).Len())
	assert.Equal(t, len(tasks), proj.Len())

	for _, q := range task.Quadrants() {
		seq := proj.Sequence(q)
		require.NotNil(t, seq)
		assert.Equal(t, q, seq.Quadrant())
		for i := range seq.Len() {
			assert.Equal(t, q, seq.At(i).Quadrant)
		}
	}
}

func TestProjector_ReusesUnchangedSequences(t *testing.T) {
	p := NewProjector()
	tasks := []task.Task{
		{ID: "a", Title: "a", Quadrant: task.QuadrantDoNow},
		{ID: "b", Title: "b", Quadrant: task.QuadrantDoLater},
	}

	first := p.Project(tasks)

	tasks[1].Title = "b2"
	second := p.Project(task.CloneAll(tasks))

	assert.Same(t, first.Sequence(task.QuadrantDoNow), second.Sequence(task.QuadrantDoNow))
	assert.Same(t, first.Sequence(task.QuadrantEliminate), second.Sequence(task.QuadrantEliminate))
	assert.NotSame(t, first.Sequence(task.QuadrantDoLater), second.Sequence(task.QuadrantDoLater))
	assert.Equal(t, "b2", second.Sequence(task.QuadrantDoLater).At(0).Title)
}

func TestProjector_SequenceIsReadOnly(t *testing.T) {
	p := NewProjector()
	proj := p.Project([]task.Task{{ID: "a", Tags: []string{"x"}, Quadrant: task.QuadrantDoNow}})

	seq := proj.Sequence(task.QuadrantDoNow)
	got := seq.Tasks()
	got[0].Tags[0] = "mutated"

	assert.Equal(t, []string{"x"}, seq.At(0).Tags)
}

func TestProjector_AttachFollowsStore(t *testing.T) {
	s := newTestStore(t)
	a := s.Create(CreateInput{Title: "a", Quadrant: task.QuadrantDoNow})
	b := s.Create(CreateInput{Title: "b", Quadrant: task.QuadrantDoNow})
	c := s.Create(CreateInput{Title: "c", Quadrant: task.QuadrantDoNow})
	s.Create(CreateInput{Title: "d", Quadrant: task.QuadrantDelegate})

	p := NewProjector()
	detach := p.Attach(s)
	defer detach()

	before := p.Current()
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, before.Sequence(task.QuadrantDoNow).IDs())

	s.SetOrder(task.QuadrantDoNow, []string{b.ID, a.ID, c.ID})

	after := p.Current()
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, after.Sequence(task.QuadrantDoNow).IDs())
	for _, q := range task.Quadrants() {
		if q == task.QuadrantDoNow {
			continue
		}
		assert.Same(t, before.Sequence(q), after.Sequence(q), "quadrant %s", q)
	}
}
