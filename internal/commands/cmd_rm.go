package commands

import (
	"context"

	"github.com/colonyops/matrix/internal/matrix"
	"github.com/urfave/cli/v3"
)

type RmCmd struct {
	flags *Flags
	app   *matrix.App
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *matrix.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "rm",
		Usage:         "Delete tasks",
		UsageText:     "matrix rm <id>...",
		Action:        cmd.run,
		ShellComplete: TaskIDCompleter(cmd.app),
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if _, err := argAt(c, 0, "id"); err != nil {
		return err
	}

	for _, id := range c.Args().Slice() {
		if !cmd.app.Store.Delete(id) {
			warnNotFound(c, id)
		}
	}
	return nil
}
