package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/matrix/internal/board"
	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/internal/matrix"
	"github.com/colonyops/matrix/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type AddCmd struct {
	flags *Flags
	app   *matrix.App

	// flags
	quadrant    string
	description string
	tags        []string
	due         string
	at          string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *matrix.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Create a task",
		UsageText: "matrix add [options] <title...>",
		Description: `Creates a task and prints it as JSON.

Without --quadrant the task lands in default_quadrant from the config
(UNCATEGORIZED unless changed). Adding straight into COMPLETED creates a
completed task.

Examples:
  matrix add "Renew passport"
  matrix add -q now --due 2026-11-02 --at 09:30 "Submit expenses"
  matrix add -q later -t work -t finance "Review budget"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "quadrant",
				Aliases:     []string{"q"},
				Usage:       "quadrant, " + quadrantUsage(),
				Destination: &cmd.quadrant,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "longer description",
				Destination: &cmd.description,
			},
			&cli.StringSliceFlag{
				Name:        "tag",
				Aliases:     []string{"t"},
				Usage:       "tag (repeatable)",
				Destination: &cmd.tags,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due date (YYYY-MM-DD)",
				Destination: &cmd.due,
			},
			&cli.StringFlag{
				Name:        "at",
				Usage:       "due time (HH:mm, 24h)",
				Destination: &cmd.at,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	title := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if title == "" {
		return fmt.Errorf("missing title argument")
	}

	q := cmd.app.Config.Quadrant()
	if cmd.quadrant != "" {
		parsed, err := task.ParseQuadrant(cmd.quadrant)
		if err != nil {
			return err
		}
		q = parsed
	}

	due, at, err := parseDue(cmd.due, cmd.at)
	if err != nil {
		return err
	}

	created := cmd.app.Store.Create(board.CreateInput{
		Title:       title,
		Description: cmd.description,
		Tags:        cmd.tags,
		DueDate:     due,
		DueTime:     at,
		Quadrant:    q,
	})

	return iojson.WriteLine(c.Root().Writer, created)
}
