package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/cli/config"
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
	"github.com/m-mizutani/relsum/pkg/infra/sumfile"
	"github.com/m-mizutani/relsum/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var (
		checksumCfg config.Checksum
		releaseCfg  config.Release
		githubCfg   config.GitHub
	)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Checksum the assets of one release and upload the checksum file",
		Flags:   slices.Concat(releaseCfg.Flags(), checksumCfg.Flags(), githubCfg.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting relsum",
				slog.String("version", types.Version),
				slog.Any("release", releaseCfg),
				slog.Any("checksum", checksumCfg),
				slog.Any("github", githubCfg),
			)

			base, err := checksumCfg.Build()
			if err != nil {
				return err
			}
			cfg, err := releaseCfg.Apply(base)
			if err != nil {
				return err
			}

			gateway, err := githubCfg.NewGateway(cfg.DryRun)
			if err != nil {
				return goerr.Wrap(err, "failed to create release gateway", goerr.V("dry_run", cfg.DryRun))
			}

			result, err := usecase.NewChecksum(gateway).Run(ctx, cfg)
			if err != nil {
				return err
			}

			return printChecksumFile(c.Root().Writer, result)
		},
	}
}

func printChecksumFile(w io.Writer, result *model.RunResult) error {
	content, err := sumfile.New(result.ChecksumPath).Read()
	if err != nil {
		return err
	}

	header := color.New(color.Bold, color.FgCyan)
	name := color.New(color.FgGreen)

	if _, err := header.Fprintf(w, "%s (%s, %s@%s)\n",
		result.ChecksumPath, result.Algorithm, result.Repository, result.Tag); err != nil {
		return goerr.Wrap(err, "failed to print checksum file")
	}

	for line := range strings.Lines(content) {
		assetName, digest, ok := strings.Cut(strings.TrimSuffix(line, "\n"), "\t")
		if !ok {
			if _, err := fmt.Fprint(w, line); err != nil {
				return goerr.Wrap(err, "failed to print checksum file")
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", name.Sprint(assetName), digest); err != nil {
			return goerr.Wrap(err, "failed to print checksum file")
		}
	}
	return nil
}

func cmdAlgorithms() *cli.Command {
	return &cli.Command{
		Name:  "algorithms",
		Usage: "List supported digest algorithms",
		Action: func(ctx context.Context, c *cli.Command) error {
			for _, algo := range types.SupportedHashAlgorithms() {
				line := algo
				if algo == types.DefaultHashAlgorithm.String() {
					line += color.New(color.Faint).Sprint(" (default)")
				}
				if _, err := fmt.Fprintln(c.Root().Writer, line); err != nil {
					return goerr.Wrap(err, "failed to print algorithms")
				}
			}
			return nil
		},
	}
}
