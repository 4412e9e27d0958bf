package usecase

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/interfaces"
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/utils/async"
)

// Dispatcher runs a job outside of the request lifetime
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error)
}

type webhookUseCase struct {
	checksumUC interfaces.ChecksumUseCase
	base       model.RunConfig
	rules      *model.RuleSet
	dispatcher Dispatcher
	tempRoot   string
}

// WebhookOption configures the webhook use case
type WebhookOption func(*webhookUseCase)

// WithDispatcher replaces the background dispatcher
func WithDispatcher(d Dispatcher) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.dispatcher = d
	}
}

// WithTempRoot sets the directory under which per-run work directories are created
func WithTempRoot(dir string) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.tempRoot = dir
	}
}

// NewWebhook creates a new instance of WebhookUseCase. base carries the
// default checksum settings; rules may be nil.
func NewWebhook(checksumUC interfaces.ChecksumUseCase, base model.RunConfig, rules *model.RuleSet, opts ...WebhookOption) interfaces.WebhookUseCase {
	uc := &webhookUseCase{
		checksumUC: checksumUC,
		base:       base,
		rules:      rules,
		dispatcher: async.NewDispatcher(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent starts a checksum run in the background for published
// releases. Other events are logged and ignored.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
		"supported", event.IsSupportedEvent(),
	)

	if !event.IsSupportedEvent() {
		logger.Warn("Unsupported event received",
			"type", event.Type,
			"action", event.Action,
		)
		return nil
	}

	release := event.Release
	if release == nil {
		return goerr.New("release event without release information", goerr.V("id", event.ID))
	}
	if release.TagName == "" {
		return goerr.New("release event without tag name",
			goerr.V("id", event.ID),
			goerr.V("repository", event.Repository),
		)
	}

	cfg := uc.rules.Apply(uc.base, release.Repository(), release.TagName)
	cfg.PreRelease = release.Prerelease
	if err := cfg.Validate(); err != nil {
		return err
	}

	uc.dispatcher.Dispatch(ctx, "checksum", func(ctx context.Context) error {
		return uc.runInTempDir(ctx, cfg, event.ID)
	})

	return nil
}

func (uc *webhookUseCase) runInTempDir(ctx context.Context, cfg model.RunConfig, deliveryID string) error {
	logger := ctxlog.From(ctx)

	workDir, err := os.MkdirTemp(uc.tempRoot, "relsum-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create work directory")
	}
	defer func() {
		if removeErr := os.RemoveAll(workDir); removeErr != nil {
			logger.Warn("Failed to clean up work directory",
				"work_dir", workDir,
				"error", removeErr,
			)
		} else {
			logger.Debug("Cleaned up work directory", "work_dir", workDir)
		}
	}()
	cfg.WorkDir = workDir

	result, err := uc.checksumUC.Run(ctx, cfg)
	if err != nil {
		return goerr.Wrap(err, "checksum run failed",
			goerr.V("delivery_id", deliveryID),
			goerr.V("repo", cfg.Repository.String()),
			goerr.V("tag", cfg.Tag),
		)
	}

	logger.Info("Successfully processed release",
		"delivery_id", deliveryID,
		"repo", result.Repository.String(),
		"tag", result.Tag,
		"records", len(result.Records),
		"skipped", len(result.Skipped),
		"uploads", result.Uploads,
	)
	return nil
}
