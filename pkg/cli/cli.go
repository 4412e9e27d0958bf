package cli

import (
	"context"
	"log/slog"
	"slices"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/relsum/pkg/cli/config"
	"github.com/m-mizutani/relsum/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) (runErr error) {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var logger *slog.Logger

	app := &cli.Command{
		Name:    "relsum",
		Usage:   "Compute checksums of GitHub release assets and upload them to the release",
		Version: types.Version,
		Flags:   slices.Concat(loggerCfg.Flags(), sentryCfg.Flags()),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdRun(),
			cmdServe(),
			cmdAlgorithms(),
		},
	}

	// Runs after the failure log below so the last record still reaches the file
	defer func() {
		if err := loggerCfg.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}()

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		sentryCfg.Capture(err)
		return err
	}

	return nil
}
