package interfaces

import (
	"context"

	"github.com/m-mizutani/relsum/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// ChecksumUseCase defines the checksum run over release assets
type ChecksumUseCase interface {
	// Run checksums the matching assets of a release and uploads the checksum file
	Run(ctx context.Context, cfg model.RunConfig) (*model.RunResult, error)
}
