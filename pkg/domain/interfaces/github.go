package interfaces

import (
	"context"
	"io"

	"github.com/m-mizutani/relsum/pkg/domain/model"
)

// ReleaseGateway defines release operations on the hosting service
type ReleaseGateway interface {
	// ListAssets returns all assets of the release tagged tag, in listing order
	ListAssets(ctx context.Context, repo model.Repository, tag string) ([]*model.Asset, error)

	// ResolveLatestTag returns the tag of the latest release, or of the latest
	// pre-release when preRelease is true
	ResolveLatestTag(ctx context.Context, repo model.Repository, preRelease bool) (string, error)

	// DownloadAsset writes the content of asset to w
	DownloadAsset(ctx context.Context, repo model.Repository, asset *model.Asset, w io.Writer) error

	// UploadAsset uploads the local file at path to the release, replacing an
	// existing asset with the same name
	UploadAsset(ctx context.Context, repo model.Repository, tag, path string) error
}
