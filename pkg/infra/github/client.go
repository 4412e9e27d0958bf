package github

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/interfaces"
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
)

const checksumMediaType = "text/plain"

type client struct {
	releaseReader
	redirectClient *http.Client
}

// NewClient creates an authenticated release gateway. Assets are downloaded
// through their API URL and uploads replace existing assets of the same name.
func NewClient(token string, opts ...Option) (interfaces.ReleaseGateway, error) {
	if token == "" {
		return nil, goerr.Wrap(types.ErrInvalidConfig, "GitHub token is required unless running in dry-run mode")
	}

	o := newOptions(opts)
	gh, err := o.newGitHubClient()
	if err != nil {
		return nil, err
	}

	return &client{
		releaseReader: releaseReader{gh: gh.WithAuthToken(token)},
		// Redirects go to a storage host that rejects the API token, so they
		// are followed with the plain client.
		redirectClient: o.httpClient,
	}, nil
}

// DownloadAsset streams the asset from its authenticated API URL into w
func (c *client) DownloadAsset(ctx context.Context, repo model.Repository, asset *model.Asset, w io.Writer) error {
	rc, _, err := c.gh.Repositories.DownloadReleaseAsset(ctx, repo.Owner, repo.Name, asset.ID, c.redirectClient)
	if err != nil {
		return goerr.Wrap(err, "failed to download release asset",
			goerr.V("asset", asset.Name),
			goerr.V("url", asset.URL),
		)
	}
	if rc == nil {
		return goerr.New("release asset download returned no content", goerr.V("asset", asset.Name))
	}
	defer rc.Close()

	if _, err := io.Copy(w, rc); err != nil {
		return goerr.Wrap(err, "failed to read release asset", goerr.V("asset", asset.Name))
	}
	return nil
}

// UploadAsset uploads the file at path to the release. An existing asset with
// the same name is deleted first.
func (c *client) UploadAsset(ctx context.Context, repo model.Repository, tag, path string) error {
	name := filepath.Base(path)

	release, err := c.releaseByTag(ctx, repo, tag)
	if err != nil {
		return err
	}

	existing, err := c.releaseAssets(ctx, repo, release.GetID())
	if err != nil {
		return goerr.Wrap(err, "failed to list release assets before upload",
			goerr.V("repo", repo.String()),
			goerr.V("tag", tag),
		)
	}
	for _, asset := range existing {
		if asset.GetName() != name {
			continue
		}
		if _, err := c.gh.Repositories.DeleteReleaseAsset(ctx, repo.Owner, repo.Name, asset.GetID()); err != nil {
			return goerr.Wrap(err, "failed to delete existing release asset",
				goerr.V("asset", name),
				goerr.V("asset_id", asset.GetID()),
			)
		}
	}

	f, err := os.Open(path) // #nosec G304 -- path is the configured checksum file
	if err != nil {
		return goerr.Wrap(err, "failed to open file for upload", goerr.V("path", path))
	}
	defer f.Close()

	_, _, err = c.gh.Repositories.UploadReleaseAsset(ctx, repo.Owner, repo.Name, release.GetID(), &github.UploadOptions{
		Name:      name,
		MediaType: checksumMediaType,
	}, f)
	if err != nil {
		return goerr.Wrap(err, "failed to upload release asset",
			goerr.V("repo", repo.String()),
			goerr.V("tag", tag),
			goerr.V("asset", name),
		)
	}

	return nil
}
