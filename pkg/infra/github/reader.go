package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
)

const perPage = 100

// Option configures a release gateway
type Option func(*options)

type options struct {
	baseURL    string
	uploadURL  string
	httpClient *http.Client
}

// WithBaseURL sets the REST API base URL (GitHub Enterprise Server, tests)
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithUploadURL sets the upload API base URL. Defaults to the base URL when
// only WithBaseURL is given.
func WithUploadURL(uploadURL string) Option {
	return func(o *options) {
		o.uploadURL = uploadURL
	}
}

// WithHTTPClient sets the HTTP client used for API calls and downloads
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = http.DefaultClient
	}
	if o.uploadURL == "" {
		o.uploadURL = o.baseURL
	}
	return o
}

func (o *options) newGitHubClient() (*github.Client, error) {
	gh := github.NewClient(o.httpClient)

	if o.baseURL != "" {
		u, err := parseAPIURL(o.baseURL)
		if err != nil {
			return nil, err
		}
		gh.BaseURL = u
	}
	if o.uploadURL != "" {
		u, err := parseAPIURL(o.uploadURL)
		if err != nil {
			return nil, err
		}
		gh.UploadURL = u
	}

	return gh, nil
}

func parseAPIURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, goerr.Wrap(types.ErrInvalidConfig, "invalid GitHub API URL", goerr.V("url", raw))
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// releaseReader implements the read side shared by both gateways
type releaseReader struct {
	gh *github.Client
}

// ListAssets returns all assets of the release, following pagination
func (r *releaseReader) ListAssets(ctx context.Context, repo model.Repository, tag string) ([]*model.Asset, error) {
	release, err := r.releaseByTag(ctx, repo, tag)
	if err != nil {
		return nil, err
	}

	ghAssets, err := r.releaseAssets(ctx, repo, release.GetID())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list release assets",
			goerr.V("repo", repo.String()),
			goerr.V("tag", tag),
		)
	}

	assets := make([]*model.Asset, 0, len(ghAssets))
	for _, a := range ghAssets {
		assets = append(assets, &model.Asset{
			ID:                 a.GetID(),
			Name:               a.GetName(),
			URL:                a.GetURL(),
			BrowserDownloadURL: a.GetBrowserDownloadURL(),
			Size:               int64(a.GetSize()),
		})
	}
	return assets, nil
}

// ResolveLatestTag returns the tag of the latest release. With preRelease, the
// newest non-draft pre-release in the release listing is used instead.
func (r *releaseReader) ResolveLatestTag(ctx context.Context, repo model.Repository, preRelease bool) (string, error) {
	if !preRelease {
		release, resp, err := r.gh.Repositories.GetLatestRelease(ctx, repo.Owner, repo.Name)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				return "", goerr.Wrap(types.ErrTagNotResolved, "repository has no latest release", goerr.V("repo", repo.String()))
			}
			return "", goerr.Wrap(err, "failed to get latest release", goerr.V("repo", repo.String()))
		}
		if release.GetTagName() == "" {
			return "", goerr.Wrap(types.ErrTagNotResolved, "latest release has no tag", goerr.V("repo", repo.String()))
		}
		return release.GetTagName(), nil
	}

	opt := &github.ListOptions{PerPage: perPage}
	for {
		releases, resp, err := r.gh.Repositories.ListReleases(ctx, repo.Owner, repo.Name, opt)
		if err != nil {
			return "", goerr.Wrap(err, "failed to list releases", goerr.V("repo", repo.String()))
		}

		for _, release := range releases {
			if release.GetPrerelease() && !release.GetDraft() && release.GetTagName() != "" {
				return release.GetTagName(), nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return "", goerr.Wrap(types.ErrTagNotResolved, "repository has no pre-release", goerr.V("repo", repo.String()))
}

func (r *releaseReader) releaseByTag(ctx context.Context, repo model.Repository, tag string) (*github.RepositoryRelease, error) {
	release, resp, err := r.gh.Repositories.GetReleaseByTag(ctx, repo.Owner, repo.Name, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, goerr.Wrap(types.ErrReleaseNotFound, "no release for tag",
				goerr.V("repo", repo.String()),
				goerr.V("tag", tag),
			)
		}
		return nil, goerr.Wrap(err, "failed to get release by tag",
			goerr.V("repo", repo.String()),
			goerr.V("tag", tag),
		)
	}
	return release, nil
}

func (r *releaseReader) releaseAssets(ctx context.Context, repo model.Repository, releaseID int64) ([]*github.ReleaseAsset, error) {
	var assets []*github.ReleaseAsset

	opt := &github.ListOptions{PerPage: perPage}
	for {
		page, resp, err := r.gh.Repositories.ListReleaseAssets(ctx, repo.Owner, repo.Name, releaseID, opt)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list release assets page", goerr.V("page", opt.Page))
		}
		assets = append(assets, page...)

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return assets, nil
}
