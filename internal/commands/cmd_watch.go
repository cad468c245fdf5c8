package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/matrix/internal/board"
	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/internal/matrix"
	"github.com/colonyops/matrix/internal/store/jsonfile"
	"github.com/colonyops/matrix/pkg/iojson"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type WatchCmd struct {
	flags *Flags
	app   *matrix.App

	// flags
	quadrant   string
	tags       []string
	jsonOutput bool
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags, app *matrix.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Show the board and redraw it when the tasks file changes",
		UsageText: "matrix watch [--quadrant q] [--tag glob]... [--json]",
		Description: `Keeps the board on screen and redraws it whenever another matrix process
saves the tasks file. Only available with the json backend.

With --json, or when output is not a terminal, each change is printed as one
JSON object holding the time and the selected tasks.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "quadrant",
				Aliases:     []string{"q"},
				Usage:       "only show this quadrant",
				Destination: &cmd.quadrant,
			},
			&cli.StringSliceFlag{
				Name:        "tag",
				Aliases:     []string{"t"},
				Usage:       "tag glob pattern (repeatable)",
				Destination: &cmd.tags,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// watchFrame is one JSON line of watch output.
type watchFrame struct {
	At    time.Time   `json:"at"`
	Tasks []task.Task `json:"tasks"`
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.app.TasksFile == "" {
		return fmt.Errorf("watch needs the json backend, storage.backend is %q", cmd.app.Config.Storage.Backend)
	}

	ls := LsCmd{quadrant: cmd.quadrant, tags: cmd.tags}
	quadrants, filter, err := ls.selection()
	if err != nil {
		return err
	}

	watcher, err := jsonfile.NewWatcher(cmd.app.TasksFile)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cmd.app.TasksFile, err)
	}
	defer func() { _ = watcher.Close() }()
	changes := watcher.Changes(ctx)

	source := jsonfile.NewTaskStore(cmd.app.Config.DataDir, cmd.app.Config.Storage.Key)
	projector := board.NewProjector()

	prev := projector.Project(cmd.app.Store.Snapshot())
	if err := cmd.draw(c, prev, quadrants, filter, time.Now()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case at, ok := <-changes:
			if !ok {
				return nil
			}

			tasks, err := source.Load(ctx)
			if err != nil {
				// Usually a save still in progress; the next tick re-reads.
				log.Debug().Err(err).Str("path", source.Path()).Msg("watch: reload failed")
				continue
			}

			for i := range tasks {
				tasks[i] = task.Normalize(tasks[i])
			}

			next := projector.Project(tasks)
			if unchanged(prev, next, quadrants) {
				continue
			}
			prev = next

			if err := cmd.draw(c, next, quadrants, filter, at); err != nil {
				return err
			}
		}
	}
}

// unchanged reports whether every selected quadrant kept its sequence.
func unchanged(prev, next board.Projection, quadrants []task.Quadrant) bool {
	for _, q := range quadrants {
		if prev.Sequence(q) != next.Sequence(q) {
			return false
		}
	}
	return true
}

// draw composes a whole frame before writing it so a redraw never shows
// half a board.
func (cmd *WatchCmd) draw(c *cli.Command, proj board.Projection, quadrants []task.Quadrant, filter tagFilter, at time.Time) error {
	out := c.Root().Writer

	width, tty := terminalWidth(out)
	if cmd.jsonOutput || !tty {
		frame := newScreenFrame(false)
		tasks := []task.Task{}
		for _, q := range quadrants {
			tasks = append(tasks, filter.apply(proj.Sequence(q).Tasks())...)
		}
		if err := iojson.WriteLine(frame, watchFrame{At: at, Tasks: tasks}); err != nil {
			return fmt.Errorf("encode frame: %w", err)
		}
		return frame.flush(out)
	}

	frame := newScreenFrame(true)
	view := boardView{width: width, filter: filter}
	_, _ = fmt.Fprintln(frame, view.render(proj, quadrants))
	_, _ = fmt.Fprintln(frame, subtitleStyle.Render("updated "+at.Format("15:04:05")+", ctrl+c to quit"))
	return frame.flush(out)
}
