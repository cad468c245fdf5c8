package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"
	"github.com/colonyops/matrix/internal/board"
	"github.com/colonyops/matrix/internal/core/task"
	"golang.org/x/term"
)

const defaultWidth = 100

var quadrantColors = map[task.Quadrant]lipgloss.Color{
	task.QuadrantDoNow:         lipgloss.Color("203"),
	task.QuadrantDoLater:       lipgloss.Color("214"),
	task.QuadrantDelegate:      lipgloss.Color("75"),
	task.QuadrantEliminate:     lipgloss.Color("245"),
	task.QuadrantUncategorized: lipgloss.Color("250"),
	task.QuadrantCompleted:     lipgloss.Color("78"),
}

var (
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	idStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	dueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth, true
	}
	return width, true
}

// tagFilter keeps tasks that have, for every pattern, at least one tag
// matching it.
type tagFilter []string

func newTagFilter(patterns []string) (tagFilter, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid tag pattern %q", p)
		}
	}
	return tagFilter(patterns), nil
}

func (f tagFilter) keep(t task.Task) bool {
	for _, pattern := range f {
		matched := false
		for _, tag := range t.Tags {
			if ok, _ := doublestar.Match(pattern, tag); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (f tagFilter) apply(tasks []task.Task) []task.Task {
	if len(f) == 0 {
		return tasks
	}
	out := tasks[:0]
	for _, t := range tasks {
		if f.keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// dueLabel formats the due date for display. A time without a date is not
// shown.
func dueLabel(t task.Task) string {
	if t.DueDate.IsZero() {
		return ""
	}
	if t.DueTime.IsZero() {
		return t.DueDate.Format()
	}
	return t.DueDate.Format() + " " + t.DueTime.String()
}

// boardView renders a projection as lipgloss panels: the four matrix
// quadrants as a two-by-two grid, the rest full width below.
type boardView struct {
	width  int
	filter tagFilter
}

func (v boardView) render(proj board.Projection, quadrants []task.Quadrant) string {
	width := max(v.width, 40)

	if len(quadrants) == 1 {
		return v.panel(proj.Sequence(quadrants[0]), width)
	}

	var (
		grid []string
		rest []string
	)
	for _, q := range quadrants {
		if q.IsMatrix() {
			grid = append(grid, v.panel(proj.Sequence(q), width/2))
		} else {
			rest = append(rest, v.panel(proj.Sequence(q), width))
		}
	}

	rows := make([]string, 0, len(grid)/2+len(rest)+1)
	for i := 0; i < len(grid); i += 2 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, grid[i:min(i+2, len(grid))]...))
	}
	rows = append(rows, rest...)

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// panel renders one quadrant. width includes the border.
func (v boardView) panel(seq *board.Sequence, width int) string {
	q := seq.Quadrant()
	meta := q.Meta()
	color := quadrantColors[q]

	header := lipgloss.NewStyle().Bold(true).Foreground(color).Render(meta.Title) +
		"  " + subtitleStyle.Render(meta.Subtitle)

	lines := []string{header}
	tasks := v.filter.apply(seq.Tasks())
	if len(tasks) == 0 {
		lines = append(lines, emptyStyle.Render("(empty)"))
	}
	for _, t := range tasks {
		lines = append(lines, taskLine(t))
	}

	return panelStyle.
		BorderForeground(color).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

func taskLine(t task.Task) string {
	title := t.Title
	if t.Completed {
		title = doneStyle.Render(title)
	}

	parts := []string{"• " + title}
	if due := dueLabel(t); due != "" {
		parts = append(parts, dueStyle.Render(due))
	}
	if len(t.Tags) > 0 {
		parts = append(parts, tagStyle.Render("#"+strings.Join(t.Tags, " #")))
	}
	parts = append(parts, idStyle.Render(t.ID))

	return strings.Join(parts, "  ")
}
