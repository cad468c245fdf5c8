package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/matrix/internal/matrix"
	"github.com/urfave/cli/v3"
)

// TaskIDCompleter returns a ShellCompleteFunc that suggests task ids as
// positional completions. Set this as the ShellComplete field on any cli.Command that
// accepts task ids as arguments.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TaskIDCompleter(app *matrix.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if app.Store == nil {
			return
		}

		w := cmd.Root().Writer
		for _, t := range app.Store.Snapshot() {
			_, _ = fmt.Fprintln(w, t.ID)
		}
	}
}
