package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/cli/config"
	controller "github.com/m-mizutani/relsum/pkg/controller/http"
	"github.com/m-mizutani/relsum/pkg/usecase"
	"github.com/m-mizutani/relsum/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

const (
	shutdownTimeout = 10 * time.Second
	drainTimeout    = 10 * time.Minute
)

func cmdServe() *cli.Command {
	var (
		serverCfg   config.Server
		checksumCfg config.Checksum
		githubCfg   config.GitHub
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start webhook server that checksums every published release",
		Flags:   slices.Concat(serverCfg.Flags(), checksumCfg.Flags(), githubCfg.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting relsum server",
				slog.Any("server", serverCfg),
				slog.Any("checksum", checksumCfg),
				slog.Any("github", githubCfg),
			)

			base, err := checksumCfg.Build()
			if err != nil {
				return err
			}
			ruleSet, err := serverCfg.LoadRules()
			if err != nil {
				return err
			}
			logger.Info("Loaded repository rules", slog.Int("count", ruleSet.Len()))

			gateway, err := githubCfg.NewGateway(base.DryRun)
			if err != nil {
				return goerr.Wrap(err, "failed to create release gateway", goerr.V("dry_run", base.DryRun))
			}

			// Create use cases
			dispatcher := async.NewDispatcher()
			checksumUC := usecase.NewChecksum(gateway)
			webhookUC := usecase.NewWebhook(checksumUC, base, ruleSet, usecase.WithDispatcher(dispatcher))

			server, err := controller.NewServer(
				ctx,
				webhookUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(serverCfg.WebhookSecret),
				controller.WithRunningJobs(dispatcher.Running),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-serverErr:
				return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", serverCfg.Addr))
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Waiting for running checksum jobs")
			drainCtx, cancelDrain := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
			defer cancelDrain()
			if err := dispatcher.Wait(drainCtx); err != nil {
				return err
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
