package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/matrix/internal/board"
	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/internal/matrix"
	"github.com/colonyops/matrix/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type LsCmd struct {
	flags *Flags
	app   *matrix.App

	// flags
	quadrant   string
	tags       []string
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *matrix.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "Show the board",
		UsageText: "matrix ls [--quadrant q] [--tag glob]... [--json]",
		Description: `Shows every quadrant in board order. On a terminal the board is drawn as
panels; otherwise, or with --json, each task is printed as a JSON line.

--tag takes glob patterns (e.g. "work/*", "proj-?"); a task is shown when
every pattern matches at least one of its tags.`,
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

// Run draws the whole board with no filters. It backs the root command.
func (cmd *LsCmd) Run(ctx context.Context, c *cli.Command) error {
	return printBoard(c, cmd.app.Board.Projection(), task.Quadrants(), nil, false)
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	quadrants, filter, err := cmd.selection()
	if err != nil {
		return err
	}

	return printBoard(c, cmd.app.Board.Projection(), quadrants, filter, cmd.jsonOutput)
}

func (cmd *LsCmd) selection() ([]task.Quadrant, tagFilter, error) {
	filter, err := newTagFilter(cmd.tags)
	if err != nil {
		return nil, nil, err
	}

	if cmd.quadrant == "" {
		return task.Quadrants(), filter, nil
	}

	q, err := task.ParseQuadrant(cmd.quadrant)
	if err != nil {
		return nil, nil, err
	}
	return []task.Quadrant{q}, filter, nil
}

// printBoard writes the selected quadrants to the root writer, as panels on
// a terminal and as JSON lines otherwise.
func printBoard(c *cli.Command, proj board.Projection, quadrants []task.Quadrant, filter tagFilter, forceJSON bool) error {
	out := c.Root().Writer

	width, tty := terminalWidth(out)
	if forceJSON || !tty {
		for _, q := range quadrants {
			if err := iojson.WriteLines(out, filter.apply(proj.Sequence(q).Tasks())); err != nil {
				return fmt.Errorf("encode tasks: %w", err)
			}
		}
		return nil
	}

	view := boardView{width: width, filter: filter}
	_, err := fmt.Fprintln(out, view.render(proj, quadrants))
	return err
}
