package config

import (
	"strings"

	"github.com/m-mizutani/relsum/pkg/domain/interfaces"
	"github.com/m-mizutani/relsum/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	Token     string `masq:"secret"`
	APIURL    string
	UploadURL string
}

// Flags returns CLI flags for GitHub API configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token with write access to releases (not needed for dry runs)",
			Destination: &c.Token,
			Sources:     cli.EnvVars("RELSUM_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API base URL",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("RELSUM_GITHUB_API_URL", "GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-upload-url",
			Usage:       "GitHub upload API base URL (derived from --github-api-url when empty)",
			Destination: &c.UploadURL,
			Sources:     cli.EnvVars("RELSUM_GITHUB_UPLOAD_URL"),
		},
	}
}

// uploadURL returns the upload endpoint. GitHub Enterprise Server serves
// uploads from /api/uploads next to /api/v3.
func (c *GitHub) uploadURL() string {
	if c.UploadURL != "" {
		return c.UploadURL
	}
	trimmed := strings.TrimSuffix(c.APIURL, "/")
	if base, ok := strings.CutSuffix(trimmed, "/api/v3"); ok {
		return base + "/api/uploads/"
	}
	return c.APIURL
}

// NewGateway builds the release gateway. Dry runs get the read-only public
// gateway; otherwise a token is required.
func (c *GitHub) NewGateway(dryRun bool) (interfaces.ReleaseGateway, error) {
	var opts []github.Option
	if c.APIURL != "" {
		opts = append(opts, github.WithBaseURL(c.APIURL))
	}
	if u := c.uploadURL(); u != "" {
		opts = append(opts, github.WithUploadURL(u))
	}

	if dryRun {
		return github.NewPublicClient(opts...)
	}
	return github.NewClient(c.Token, opts...)
}
