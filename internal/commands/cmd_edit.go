package commands

import (
	"context"

	"github.com/colonyops/matrix/internal/core/task"
	"github.com/colonyops/matrix/internal/matrix"
	"github.com/colonyops/matrix/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type EditCmd struct {
	flags *Flags
	app   *matrix.App

	// flags
	title       string
	description string
	tags        []string
	addTags     []string
	removeTags  []string
	due         string
	clearDue    bool
	at          string
	clearAt     bool
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags, app *matrix.App) *EditCmd {
	return &EditCmd{flags: flags, app: app}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "edit",
		Usage:         "Change a task's fields",
		UsageText:     "matrix edit <id> [options]",
		ShellComplete: TaskIDCompleter(cmd.app),
		Description: `Updates the given fields of a task and prints the result as JSON.
Fields that are not passed are left as they are. Use mv, done and undo to
change where a task lives.

--tag replaces all tags; --add-tag and --remove-tag are applied afterwards.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Usage:       "new title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "new description",
				Destination: &cmd.description,
			},
			&cli.StringSliceFlag{
				Name:        "tag",
				Aliases:     []string{"t"},
				Usage:       "replace tags (repeatable)",
				Destination: &cmd.tags,
			},
			&cli.StringSliceFlag{
				Name:        "add-tag",
				Usage:       "add a tag (repeatable)",
				Destination: &cmd.addTags,
			},
			&cli.StringSliceFlag{
				Name:        "remove-tag",
				Usage:       "remove a tag (repeatable)",
				Destination: &cmd.removeTags,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due date (YYYY-MM-DD)",
				Destination: &cmd.due,
			},
			&cli.BoolFlag{
				Name:        "clear-due",
				Usage:       "remove the due date",
				Destination: &cmd.clearDue,
			},
			&cli.StringFlag{
				Name:        "at",
				Usage:       "due time (HH:mm, 24h)",
				Destination: &cmd.at,
			},
			&cli.BoolFlag{
				Name:        "clear-at",
				Usage:       "remove the due time",
				Destination: &cmd.clearAt,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := argAt(c, 0, "id")
	if err != nil {
		return err
	}

	p, err := cmd.patch(c)
	if err != nil {
		return err
	}

	updated, ok := cmd.app.Store.Patch(id, p)
	if !ok {
		warnNotFound(c, id)
		return nil
	}

	return iojson.WriteLine(c.Root().Writer, updated)
}

func (cmd *EditCmd) patch(c *cli.Command) (task.Patch, error) {
	var p task.Patch

	if c.IsSet("title") {
		p.Title = &cmd.title
	}
	if c.IsSet("description") {
		p.Description = &cmd.description
	}
	if c.IsSet("tag") {
		p.Tags = &cmd.tags
	}
	p.AddTags = cmd.addTags
	p.RemoveTags = cmd.removeTags

	due, at, err := parseDue(cmd.due, cmd.at)
	if err != nil {
		return task.Patch{}, err
	}
	if !due.IsZero() {
		p.DueDate = &due
	}
	if !at.IsZero() {
		p.DueTime = &at
	}
	p.ClearDueDate = cmd.clearDue
	p.ClearDueTime = cmd.clearAt

	return p, nil
}
