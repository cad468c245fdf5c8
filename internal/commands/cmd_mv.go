package commands

import (
	"context"
	"errors"

	"github.com/colonyops/matrix/internal/board"
	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/internal/matrix"
	"github.com/colonyops/matrix/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type MvCmd struct {
	flags *Flags
	app   *matrix.App

	// flags
	index int
}

// NewMvCmd creates a new mv command
func NewMvCmd(flags *Flags, app *matrix.App) *MvCmd {
	return &MvCmd{flags: flags, app: app}
}

// Register adds the mv command to the application
func (cmd *MvCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "mv",
		Usage:         "Move a task to a quadrant or position",
		UsageText:     "matrix mv <id> <quadrant> [--index n]",
		ShellComplete: TaskIDCompleter(cmd.app),
		Description: `Drops a task into a quadrant at the given position, the same way dragging
a card does. Without --index the task goes to the end.

Moving into COMPLETED completes the task; moving out of COMPLETED reopens it.

Examples:
  matrix mv task_1 now
  matrix mv task_1 later --index 0`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "index",
				Aliases:     []string{"i"},
				Usage:       "zero-based position in the destination quadrant",
				Destination: &cmd.index,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *MvCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := argAt(c, 0, "id")
	if err != nil {
		return err
	}
	arg, err := argAt(c, 1, "quadrant")
	if err != nil {
		return err
	}
	dest, err := task.ParseQuadrant(arg)
	if err != nil {
		return err
	}

	current, ok := cmd.app.Store.Get(id)
	if !ok {
		warnNotFound(c, id)
		return nil
	}

	proj := cmd.app.Board.Projection()
	to := proj.Sequence(dest).Len()
	if c.IsSet("index") {
		to = cmd.index
	}

	err = cmd.app.Board.Drop(board.DropEvent{
		TaskID:      id,
		Source:      current.Quadrant,
		Dest:        dest,
		SourceIndex: proj.Sequence(current.Quadrant).IndexOf(id),
		DestIndex:   to,
	})
	if errors.Is(err, board.ErrStaleDrop) {
		warnNotFound(c, id)
		return nil
	}
	if err != nil {
		return err
	}

	moved, _ := cmd.app.Store.Get(id)
	return iojson.WriteLine(c.Root().Writer, moved)
}
