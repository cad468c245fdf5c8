package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/pkg/iojson"
	"github.com/urfave/cli/v3"
)

// errOut returns the writer for warnings, stderr unless the root command
// was given another one.
func errOut(c *cli.Command) io.Writer {
	if w := c.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// warnNotFound reports a missing task. Missing tasks are not a failure.
// Off a terminal the warning is a JSON error line.
func warnNotFound(c *cli.Command, id string) {
	w := errOut(c)
	msg := fmt.Sprintf("task %s not found", id)
	if _, tty := terminalWidth(w); !tty {
		_ = iojson.WriteError(w, msg, map[string]any{"id": id})
		return
	}
	_, _ = fmt.Fprintln(w, msg)
}

// argAt returns the positional argument at i or an error naming it.
func argAt(c *cli.Command, i int, name string) (string, error) {
	v := strings.TrimSpace(c.Args().Get(i))
	if v == "" {
		return "", fmt.Errorf("missing %s argument", name)
	}
	return v, nil
}

// parseDue parses the --due and --at flag values. Either may be empty.
func parseDue(due, at string) (task.Date, task.TimeOfDay, error) {
	d, err := task.ParseDate(due)
	if err != nil {
		return task.Date{}, task.TimeOfDay{}, err
	}
	tod, err := task.ParseTimeOfDay(at)
	if err != nil {
		return task.Date{}, task.TimeOfDay{}, err
	}
	return d, tod, nil
}

func quadrantUsage() string {
	names := make([]string, 0, len(task.Quadrants()))
	for _, q := range task.Quadrants() {
		names = append(names, string(q))
	}
	return "one of " + strings.Join(names, ", ") + " (or now, later, delegate, eliminate, inbox, done)"
}
