package github

import (
	"context"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/interfaces"
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
)

type publicClient struct {
	releaseReader
}

// NewPublicClient creates an unauthenticated, read-only release gateway used
// for dry runs. Assets are downloaded from their public browser URL.
func NewPublicClient(opts ...Option) (interfaces.ReleaseGateway, error) {
	o := newOptions(opts)
	gh, err := o.newGitHubClient()
	if err != nil {
		return nil, err
	}

	return &publicClient{
		releaseReader: releaseReader{gh: gh},
	}, nil
}

// DownloadAsset streams the asset from its public download URL into w
func (c *publicClient) DownloadAsset(ctx context.Context, _ model.Repository, asset *model.Asset, w io.Writer) error {
	if asset.BrowserDownloadURL == "" {
		return goerr.New("asset has no public download URL", goerr.V("asset", asset.Name))
	}

	req, err := c.gh.NewRequest(http.MethodGet, asset.BrowserDownloadURL, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create download request", goerr.V("url", asset.BrowserDownloadURL))
	}
	req.Header.Set("Accept", "application/octet-stream")

	if _, err := c.gh.Do(ctx, req, w); err != nil {
		return goerr.Wrap(err, "failed to download release asset",
			goerr.V("asset", asset.Name),
			goerr.V("url", asset.BrowserDownloadURL),
		)
	}
	return nil
}

// UploadAsset always fails: the public gateway has no credentials
func (c *publicClient) UploadAsset(_ context.Context, repo model.Repository, tag, path string) error {
	return goerr.Wrap(types.ErrReadOnlyGateway, "upload is not available without credentials",
		goerr.V("repo", repo.String()),
		goerr.V("tag", tag),
		goerr.V("path", path),
	)
}
