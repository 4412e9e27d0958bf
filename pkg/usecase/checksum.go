package usecase

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/interfaces"
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
	"github.com/m-mizutani/relsum/pkg/infra/sumfile"
)

type checksumUseCase struct {
	gateway interfaces.ReleaseGateway
}

// NewChecksum creates a new instance of ChecksumUseCase
func NewChecksum(gateway interfaces.ReleaseGateway) interfaces.ChecksumUseCase {
	return &checksumUseCase{
		gateway: gateway,
	}
}

// Run lists the release assets, checksums every matching asset one at a time
// and uploads the checksum file. The upload is also done right after any asset
// larger than cfg.LargeFileThreshold so a later failure does not lose the
// records written so far.
func (uc *checksumUseCase) Run(ctx context.Context, cfg model.RunConfig) (*model.RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := ctxlog.From(ctx).With(
		"run_id", uuid.NewString(),
		"repo", cfg.Repository.String(),
	)
	ctx = ctxlog.With(ctx, logger)

	tag, err := uc.resolveTag(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cfg.Tag = tag

	assets, err := uc.gateway.ListAssets(ctx, cfg.Repository, tag)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list release assets",
			goerr.V("repo", cfg.Repository.String()),
			goerr.V("tag", tag),
		)
	}

	logger.Info("Listed release assets",
		"tag", tag,
		"asset_count", len(assets),
	)

	writer := sumfile.New(cfg.ChecksumPath())
	result := &model.RunResult{
		Repository:   cfg.Repository,
		Tag:          tag,
		Algorithm:    cfg.Algorithm,
		Patterns:     cfg.Patterns,
		Listed:       len(assets),
		ChecksumPath: writer.Path(),
	}

	for _, asset := range assets {
		if asset.Name == cfg.FileName {
			logger.Info("Found existing checksum in assets", "asset", asset.Name)
			result.Skipped = append(result.Skipped, asset.Name)
			continue
		}
		if len(cfg.Patterns) > 0 && !model.ShouldInclude(asset.Name, cfg.Patterns) {
			logger.Info("Skip asset", "asset", asset.Name)
			result.Skipped = append(result.Skipped, asset.Name)
			continue
		}

		record, err := uc.processAsset(ctx, cfg, asset, writer)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, record)

		if asset.Size > cfg.LargeFileThreshold {
			logger.Info("Uploading immediately due to large file",
				"asset", asset.Name,
				"size", humanize.Bytes(uint64(asset.Size)),
			)
			uploaded, err := uc.uploadChecksumFile(ctx, cfg, writer)
			if err != nil {
				return nil, err
			}
			if uploaded {
				result.Uploads++
			}
		}
	}

	uploaded, err := uc.uploadChecksumFile(ctx, cfg, writer)
	if err != nil {
		return nil, err
	}
	if uploaded {
		result.Uploads++
	}

	logger.Info("Checksum run completed",
		"tag", tag,
		"algorithm", cfg.Algorithm.String(),
		"patterns", cfg.Patterns,
		"asset_count", len(assets),
		"processed", len(result.Records),
		"uploads", result.Uploads,
	)

	return result, nil
}

func (uc *checksumUseCase) resolveTag(ctx context.Context, cfg model.RunConfig) (string, error) {
	if tag := strings.TrimSpace(cfg.Tag); tag != "" {
		return tag, nil
	}

	tag, err := uc.gateway.ResolveLatestTag(ctx, cfg.Repository, cfg.PreRelease)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve release tag",
			goerr.V("repo", cfg.Repository.String()),
			goerr.V("pre_release", cfg.PreRelease),
		)
	}

	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", goerr.Wrap(types.ErrTagNotResolved, "empty tag resolved",
			goerr.V("repo", cfg.Repository.String()),
			goerr.V("pre_release", cfg.PreRelease),
		)
	}

	ctxlog.From(ctx).Info("Resolved release tag", "tag", tag, "pre_release", cfg.PreRelease)
	return tag, nil
}

// processAsset runs download, digest, cleanup and record for one asset. The
// local copy is gone when it returns without error.
func (uc *checksumUseCase) processAsset(ctx context.Context, cfg model.RunConfig, asset *model.Asset, writer *sumfile.Writer) (model.ChecksumRecord, error) {
	logger := ctxlog.From(ctx)

	if asset.Name == "" || asset.Name == "." || asset.Name == ".." || filepath.Base(asset.Name) != asset.Name {
		return model.ChecksumRecord{}, goerr.New("asset name is not a plain file name", goerr.V("asset", asset.Name))
	}
	localPath := cfg.AssetPath(asset.Name)

	logger.Info("Downloading asset",
		"asset", asset.Name,
		"size", humanize.Bytes(uint64(max(asset.Size, 0))),
		"dry_run", cfg.DryRun,
	)
	if err := uc.download(ctx, cfg, asset, localPath); err != nil {
		return model.ChecksumRecord{}, err
	}

	digest, err := digestFile(localPath, cfg.Algorithm)
	if err != nil {
		_ = os.Remove(localPath)
		return model.ChecksumRecord{}, err
	}

	if err := os.Remove(localPath); err != nil {
		return model.ChecksumRecord{}, goerr.Wrap(err, "failed to remove downloaded asset", goerr.V("path", localPath))
	}

	record := model.ChecksumRecord{Name: asset.Name, Digest: digest}
	if err := writer.Append(record); err != nil {
		return model.ChecksumRecord{}, err
	}

	logger.Debug("Recorded checksum",
		"asset", asset.Name,
		"digest", digest,
		"algorithm", cfg.Algorithm.String(),
	)
	return record, nil
}

func (uc *checksumUseCase) download(ctx context.Context, cfg model.RunConfig, asset *model.Asset, path string) error {
	f, err := os.Create(path) // #nosec G304 -- path is built from the work dir and a plain asset name
	if err != nil {
		return goerr.Wrap(err, "failed to create local asset file", goerr.V("path", path))
	}

	if err := uc.gateway.DownloadAsset(ctx, cfg.Repository, asset, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return goerr.Wrap(err, "failed to download asset",
			goerr.V("asset", asset.Name),
			goerr.V("dry_run", cfg.DryRun),
		)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return goerr.Wrap(err, "failed to close local asset file", goerr.V("path", path))
	}
	return nil
}

// uploadChecksumFile uploads the checksum file as it currently stands. It
// reports whether an upload happened: dry runs and empty or missing files are
// skipped without error.
func (uc *checksumUseCase) uploadChecksumFile(ctx context.Context, cfg model.RunConfig, writer *sumfile.Writer) (bool, error) {
	logger := ctxlog.From(ctx)

	if cfg.DryRun {
		logger.Info("Dry run. Skipping upload of checksum file",
			"path", writer.Path(),
			"repo", cfg.Repository.String(),
			"tag", cfg.Tag,
		)
		return false, nil
	}

	size, err := writer.Size()
	if err != nil {
		return false, err
	}
	if size == 0 {
		logger.Warn("Checksum file is empty. Skipping upload.", "path", writer.Path())
		return false, nil
	}

	logger.Info("Uploading checksum file",
		"path", writer.Path(),
		"size", humanize.Bytes(uint64(size)),
		"tag", cfg.Tag,
	)
	if err := uc.gateway.UploadAsset(ctx, cfg.Repository, cfg.Tag, writer.Path()); err != nil {
		return false, goerr.Wrap(err, "failed to upload checksum file",
			goerr.V("path", writer.Path()),
			goerr.V("repo", cfg.Repository.String()),
			goerr.V("tag", cfg.Tag),
		)
	}
	return true, nil
}

func digestFile(path string, algo types.HashAlgorithm) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- path is the freshly downloaded asset
	if err != nil {
		return "", goerr.Wrap(err, "failed to open asset for hashing", goerr.V("path", path))
	}
	defer f.Close()

	h := algo.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", goerr.Wrap(err, "failed to hash asset", goerr.V("path", path))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
