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

// importTask is one entry of the import document.
type importTask struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	DueDate     task.Date      `json:"dueDate"`
	DueTime     task.TimeOfDay `json:"dueTime"`
	Quadrant    string         `json:"quadrant"`
}

type ImportCmd struct {
	flags *Flags
	app   *matrix.App

	reader iojson.FileReader[[]importTask]
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, app *matrix.App) *ImportCmd {
	return &ImportCmd{flags: flags, app: app}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Create tasks from a JSON document",
		UsageText: "matrix import [-f file]",
		Description: `Reads a JSON array of tasks and creates each one, printing the created
tasks as JSON lines. Entries are validated before anything is created.

Example input:
  [
    {"title": "Renew passport", "quadrant": "DO_NOW", "dueDate": "2026-11-02"},
    {"title": "Sort photos", "tags": ["home"]}
  ]`,
		Flags:  []cli.Flag{cmd.reader.Flag()},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	inputs := make([]board.CreateInput, 0, len(entries))
	for i, e := range entries {
		in, err := cmd.toInput(e)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		inputs = append(inputs, in)
	}

	created := make([]task.Task, 0, len(inputs))
	for _, in := range inputs {
		created = append(created, cmd.app.Store.Create(in))
	}

	return iojson.WriteLines(c.Root().Writer, created)
}

func (cmd *ImportCmd) toInput(e importTask) (board.CreateInput, error) {
	if e.Title == "" {
		return board.CreateInput{}, fmt.Errorf("title is required")
	}

	q := cmd.app.Config.Quadrant()
	if e.Quadrant != "" {
		parsed, err := task.ParseQuadrant(e.Quadrant)
		if err != nil {
			return board.CreateInput{}, err
		}
		q = parsed
	}

	return board.CreateInput{
		Title:       e.Title,
		Description: e.Description,
		Tags:        e.Tags,
		DueDate:     e.DueDate,
		DueTime:     e.DueTime,
		Quadrant:    q,
	}, nil
}
