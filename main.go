package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/matrix/internal/commands"
	"github.com/colonyops/matrix/internal/core/config"
	"github.com/colonyops/matrix/internal/core/logging"
	"github.com/colonyops/matrix/internal/matrix"
	"github.com/colonyops/matrix/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// ldflags aren't set for `go install module@version`, so fall back to
	// the module version and VCS metadata Go records in the binary.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var (
		logCloser func()
		cfg       *config.Config
		matrixApp = &matrix.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "matrix",
		Usage:     "Sort tasks by urgency and importance",
		UsageText: "matrix [global options] command [command options]",
		Description: `Matrix keeps a task board laid out as an Eisenhower matrix: do now, schedule,
delegate and eliminate, plus an inbox for uncategorized tasks and a pile of
completed ones.

Every change is saved in the background to the configured backend (a JSON
file by default). Run 'matrix' with no arguments to print the board.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("MATRIX_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/matrix.log)",
				Sources:     cli.EnvVars("MATRIX_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("MATRIX_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("MATRIX_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "backend",
				Usage:       "storage backend (json, sqlite, memory); overrides storage.backend",
				Sources:     cli.EnvVars("MATRIX_BACKEND"),
				Destination: &flags.Backend,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/matrix.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "matrix.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err = config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			if flags.Backend != "" {
				cfg.Storage.Backend = config.Backend(flags.Backend)
				if err := cfg.Validate(); err != nil {
					return ctx, fmt.Errorf("invalid config: %w", err)
				}
			}

			opened, err := matrix.Open(ctx, cfg, log.Logger)
			if err != nil {
				return ctx, fmt.Errorf("open board: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*matrixApp = *opened

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			var closeErr error

			// Flush pending saves before the process exits
			if matrixApp.Store != nil {
				closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Storage.SaveTimeout)
				closeErr = matrixApp.Close(closeCtx)
				cancel()
				if closeErr != nil {
					logger := logging.Component("main")
					logger.Error().Err(closeErr).Msg("failed to close board")
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return closeErr
		},
	}

	lsCmd := commands.NewLsCmd(flags, matrixApp)

	app = commands.NewAddCmd(flags, matrixApp).Register(app)
	app = commands.NewEditCmd(flags, matrixApp).Register(app)
	app = commands.NewDoneCmd(flags, matrixApp).Register(app)
	app = commands.NewMvCmd(flags, matrixApp).Register(app)
	app = commands.NewOrderCmd(flags, matrixApp).Register(app)
	app = commands.NewRmCmd(flags, matrixApp).Register(app)
	app = lsCmd.Register(app)
	app = commands.NewWatchCmd(flags, matrixApp).Register(app)
	app = commands.NewImportCmd(flags, matrixApp).Register(app)
	app = commands.NewConfigValidateCmd(flags, matrixApp).Register(app)
	app = commands.NewDoctorCmd(flags, matrixApp).Register(app)

	// Print the board when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'matrix --help' for usage", c.Args().First())
		}
		return lsCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	stop()
	os.Exit(exitCode)
}
