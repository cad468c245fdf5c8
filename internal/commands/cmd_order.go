package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/internal/matrix"
	"github.com/colonyops/matrix/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type OrderCmd struct {
	flags *Flags
	app   *matrix.App
}

// NewOrderCmd creates a new order command
func NewOrderCmd(flags *Flags, app *matrix.App) *OrderCmd {
	return &OrderCmd{flags: flags, app: app}
}

// Register adds the order command to the application
func (cmd *OrderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "order",
		Usage:     "Set the order of a quadrant",
		UsageText: "matrix order <quadrant> <id>...",
		Description: `Puts the named tasks first in the quadrant, in the given order. Tasks from
other quadrants are moved in. Tasks already in the quadrant that are not named
keep their relative order after the named ones. Unknown ids are ignored.

Prints the quadrant's tasks as JSON lines.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *OrderCmd) run(ctx context.Context, c *cli.Command) error {
	arg, err := argAt(c, 0, "quadrant")
	if err != nil {
		return err
	}
	q, err := task.ParseQuadrant(arg)
	if err != nil {
		return err
	}

	ids := c.Args().Tail()
	if len(ids) == 0 {
		return fmt.Errorf("missing id arguments")
	}

	for _, id := range ids {
		if _, ok := cmd.app.Store.Get(id); !ok {
			warnNotFound(c, id)
		}
	}

	cmd.app.Store.SetOrder(q, ids)

	return iojson.WriteLines(c.Root().Writer, cmd.app.Board.Projection().Sequence(q).Tasks())
}
