package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuadrant(t *testing.T) {
	tests := []struct {
		in      string
		want    Quadrant
		wantErr bool
	}{
		{in: "DO_NOW", want: QuadrantDoNow},
		{in: "do-later", want: QuadrantDoLater},
		{in: " delegate ", want: QuadrantDelegate},
		{in: "now", want: QuadrantDoNow},
		{in: "inbox", want: QuadrantUncategorized},
		{in: "done", want: QuadrantCompleted},
		{in: "completed", want: QuadrantCompleted},
		{in: "someday", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuadrant(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuadrant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuadrant_Classification(t *testing.T) {
	assert.Len(t, Quadrants(), 6)
	assert.True(t, QuadrantDoNow.IsMatrix())
	assert.False(t, QuadrantUncategorized.IsMatrix())
	assert.True(t, QuadrantUncategorized.CanBeOrigin())
	assert.False(t, QuadrantCompleted.CanBeOrigin())
	assert.Equal(t, "Do now", QuadrantDoNow.Meta().Subtitle)
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"b", " a ", "b", "", "c", "a"})
	assert.Equal(t, []string{"b", "a", "c"}, got)
}

func TestDateAndTime(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2026, Month: time.February, Day: 28}, d)
	assert.Equal(t, "2026-02-28", d.String())
	assert.Equal(t, "28/02/2026", d.Format())

	_, err = ParseDate("28/02/2026")
	require.Error(t, err)

	midnight, err := ParseTimeOfDay("00:00")
	require.NoError(t, err)
	assert.False(t, midnight.IsZero())
	assert.Equal(t, "00:00", midnight.String())

	_, err = ParseTimeOfDay("25:00")
	require.Error(t, err)
}

func TestTask_JSONLayout(t *testing.T) {
	tk := Task{
		ID:        "t1",
		Title:     "Pay rent",
		Tags:      []string{"money"},
		DueDate:   Date{Year: 2026, Month: time.May, Day: 1},
		DueTime:   TimeOfDay{Hour: 9, Minute: 5, Set: true},
		Quadrant:  QuadrantDoNow,
		CreatedAt: t0,
		UpdatedAt: t0,
	}

	data, err := json.Marshal(tk)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2026-05-01", raw["dueDate"])
	assert.Equal(t, "09:05", raw["dueTime"])
	assert.Equal(t, "DO_NOW", raw["quadrant"])
	assert.NotContains(t, raw, "previousQuadrantId")

	var back Task
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, tk.Equal(back))

	tk.DueDate = Date{}
	tk.DueTime = TimeOfDay{}
	data, err = json.Marshal(tk)
	require.NoError(t, err)
	raw = nil
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "dueDate")
	assert.NotContains(t, raw, "dueTime")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Task
		want func(t *testing.T, got Task)
	}{
		{
			name: "completed outside COMPLETED moves in",
			in:   Task{ID: "a", Quadrant: QuadrantDelegate, Completed: true},
			want: func(t *testing.T, got Task) {
				assert.Equal(t, QuadrantCompleted, got.Quadrant)
				assert.Equal(t, QuadrantDelegate, got.PreviousQuadrant)
			},
		},
		{
			name: "in COMPLETED but open becomes completed",
			in:   Task{ID: "a", Quadrant: QuadrantCompleted},
			want: func(t *testing.T, got Task) {
				assert.True(t, got.Completed)
			},
		},
		{
			name: "stray origin is dropped",
			in:   Task{ID: "a", Quadrant: QuadrantDoNow, PreviousQuadrant: QuadrantDoLater},
			want: func(t *testing.T, got Task) {
				assert.Empty(t, got.PreviousQuadrant)
			},
		},
		{
			name: "COMPLETED origin is dropped",
			in:   Task{ID: "a", Quadrant: QuadrantCompleted, Completed: true, PreviousQuadrant: QuadrantCompleted},
			want: func(t *testing.T, got Task) {
				assert.Empty(t, got.PreviousQuadrant)
			},
		},
		{
			name: "unknown quadrant lands in inbox",
			in:   Task{ID: "a", Quadrant: "SOMEDAY"},
			want: func(t *testing.T, got Task) {
				assert.Equal(t, QuadrantUncategorized, got.Quadrant)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			require.NoError(t, CheckInvariants(got))
			tt.want(t, got)
		})
	}
}

func TestSeed(t *testing.T) {
	seed := Seed(t0)
	require.Len(t, seed, 2)
	for _, tk := range seed {
		require.NoError(t, CheckInvariants(tk))
	}
	assert.Equal(t, QuadrantUncategorized, seed[0].Quadrant)
	assert.Equal(t, QuadrantDoNow, seed[1].Quadrant)
}
