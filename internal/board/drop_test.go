package board

import (
	"testing"

	"github.com/colonyops/matrix/internal/core/task"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T) (*Board, []task.Task) {
	t.Helper()

	s := newTestStore(t)
	var created []task.Task
	for _, in := range []CreateInput{
		{Title: "a", Quadrant: task.QuadrantDoNow},
		{Title: "b", Quadrant: task.QuadrantDoNow},
		{Title: "c", Quadrant: task.QuadrantDoNow},
		{Title: "d", Quadrant: task.QuadrantDoLater},
	} {
		created = append(created, s.Create(in))
	}

	b := NewBoard(s, zerolog.Nop())
	t.Cleanup(b.Detach)
	return b, created
}

func TestBoard_DropWithinQuadrant(t *testing.T) {
	b, tk := newTestBoard(t)

	err := b.Drop(DropEvent{
		TaskID:      tk[0].ID,
		Source:      task.QuadrantDoNow,
		Dest:        task.QuadrantDoNow,
		SourceIndex: 0,
		DestIndex:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{tk[1].ID, tk[2].ID, tk[0].ID}, b.Projection().Sequence(task.QuadrantDoNow).IDs())
}

func TestBoard_DropAcrossQuadrants(t *testing.T) {
	b, tk := newTestBoard(t)

	err := b.Drop(DropEvent{
		TaskID:      tk[1].ID,
		Source:      task.QuadrantDoNow,
		Dest:        task.QuadrantDoLater,
		SourceIndex: 1,
		DestIndex:   0,
	})
	require.NoError(t, err)

	proj := b.Projection()
	assert.Equal(t, []string{tk[0].ID, tk[2].ID}, proj.Sequence(task.QuadrantDoNow).IDs())
	assert.Equal(t, []string{tk[1].ID, tk[3].ID}, proj.Sequence(task.QuadrantDoLater).IDs())
}

func TestBoard_DropIntoCompletedAndBack(t *testing.T) {
	b, tk := newTestBoard(t)

	require.NoError(t, b.Drop(DropEvent{
		TaskID: tk[0].ID, Source: task.QuadrantDoNow, Dest: task.QuadrantCompleted, DestIndex: 0,
	}))

	got, _ := b.Store().Get(tk[0].ID)
	assert.True(t, got.Completed)
	assert.Equal(t, task.QuadrantDoNow, got.PreviousQuadrant)

	require.NoError(t, b.Drop(DropEvent{
		TaskID: tk[0].ID, Source: task.QuadrantCompleted, Dest: task.QuadrantEliminate, DestIndex: 5,
	}))

	got, _ = b.Store().Get(tk[0].ID)
	assert.False(t, got.Completed)
	assert.Equal(t, task.QuadrantEliminate, got.Quadrant)
	assert.Empty(t, got.PreviousQuadrant)
}

func TestBoard_DropCorrectsStaleIndexAndClamps(t *testing.T) {
	b, tk := newTestBoard(t)

	err := b.Drop(DropEvent{
		TaskID:      tk[2].ID,
		Source:      task.QuadrantDoNow,
		Dest:        task.QuadrantDoNow,
		SourceIndex: 0, // actually at 2
		DestIndex:   -4,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{tk[2].ID, tk[0].ID, tk[1].ID}, b.Projection().Sequence(task.QuadrantDoNow).IDs())
}

func TestBoard_DropStale(t *testing.T) {
	b, tk := newTestBoard(t)

	calls := 0
	b.Store().Subscribe(func([]task.Task) { calls++ })

	err := b.Drop(DropEvent{TaskID: tk[3].ID, Source: task.QuadrantDoNow, Dest: task.QuadrantDelegate})
	require.ErrorIs(t, err, ErrStaleDrop)

	err = b.Drop(DropEvent{TaskID: "ghost", Source: task.QuadrantDoNow, Dest: task.QuadrantDoNow})
	require.ErrorIs(t, err, ErrStaleDrop)

	err = b.Drop(DropEvent{TaskID: tk[0].ID, Source: "SOMEDAY", Dest: task.QuadrantDoNow})
	require.ErrorIs(t, err, task.ErrInvalidQuadrant)

	assert.Zero(t, calls)
}

func TestBoard_Reconcile(t *testing.T) {
	b, tk := newTestBoard(t)

	proposal := b.Projection().Sequence(task.QuadrantDoNow).Tasks()
	proposal[0], proposal[2] = proposal[2], proposal[0]

	b.Reconcile(task.QuadrantDoNow, proposal)

	assert.Equal(t, []string{tk[2].ID, tk[1].ID, tk[0].ID}, b.Projection().Sequence(task.QuadrantDoNow).IDs())
}
