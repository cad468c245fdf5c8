package commands

import (
	"context"

	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/internal/matrix"
	"github.com/colonyops/matrix/pkg/iojson"
	"github.com/urfave/cli/v3"
)

// DoneCmd registers done and undo, the checkbox toggles.
type DoneCmd struct {
	flags *Flags
	app   *matrix.App
}

// NewDoneCmd creates the done/undo commands
func NewDoneCmd(flags *Flags, app *matrix.App) *DoneCmd {
	return &DoneCmd{flags: flags, app: app}
}

// Register adds the done and undo commands to the application
func (cmd *DoneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "done",
			Usage:     "Mark a task completed",
			UsageText: "matrix done <id>",
			Description: `Moves the task to COMPLETED and remembers the quadrant it came from,
so undo can put it back.`,
			Action:        cmd.toggle(true),
			ShellComplete: TaskIDCompleter(cmd.app),
		},
		&cli.Command{
			Name:          "undo",
			Usage:         "Reopen a completed task",
			UsageText:     "matrix undo <id>",
			Description:   "Returns a completed task to the quadrant it was completed from (UNCATEGORIZED if unknown).",
			Action:        cmd.toggle(false),
			ShellComplete: TaskIDCompleter(cmd.app),
		},
	)

	return app
}

func (cmd *DoneCmd) toggle(done bool) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		id, err := argAt(c, 0, "id")
		if err != nil {
			return err
		}

		updated, ok := cmd.app.Store.Patch(id, task.SetCompleted(done))
		if !ok {
			warnNotFound(c, id)
			return nil
		}

		return iojson.WriteLine(c.Root().Writer, updated)
	}
}
