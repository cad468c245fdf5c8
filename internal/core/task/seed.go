package task

import "time"

// Seed returns the small fixed collection shown on first run or whenever the
// stored data cannot be used.
func Seed(now time.Time) []Task {
	return []Task{
		{
			ID:          "seed_1",
			Title:       "Drag me to a different quadrant",
			Description: "I'm a task. I move. Much like your deadlines.",
			Tags:        []string{"demo"},
			Quadrant:    QuadrantUncategorized,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "seed_2",
			Title:       "Pay rent",
			Description: "A timeless classic.",
			Tags:        []string{"money"},
			Quadrant:    QuadrantDoNow,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
