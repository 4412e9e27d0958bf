package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Release selects the release a single run works on
type Release struct {
	Repo       string
	Tag        string
	PreRelease bool
}

// Flags returns CLI flags for release selection
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository in owner/name form; defaults to GITHUB_REPOSITORY",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("RELSUM_REPO", "INPUT_REPO"),
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Release tag; the latest release is used when empty",
			Destination: &c.Tag,
			Sources:     cli.EnvVars("RELSUM_TAG", "INPUT_TAG"),
		},
		&cli.BoolFlag{
			Name:        "pre-release",
			Usage:       "Use the latest pre-release when no tag is given",
			Destination: &c.PreRelease,
			Sources:     cli.EnvVars("RELSUM_PRE_RELEASE", "INPUT_PRE_RELEASE"),
		},
	}
}

// Apply targets base at the configured release. A blank repository falls
// back to GITHUB_REPOSITORY, since Actions export declared inputs even when
// they are empty.
func (c *Release) Apply(base model.RunConfig) (model.RunConfig, error) {
	name := strings.TrimSpace(c.Repo)
	if name == "" {
		name = strings.TrimSpace(os.Getenv("GITHUB_REPOSITORY"))
	}
	if name == "" {
		return model.RunConfig{}, goerr.Wrap(types.ErrInvalidConfig, "repository is required",
			goerr.V("hint", "set --repo, INPUT_REPO or GITHUB_REPOSITORY"))
	}

	repo, err := model.ParseRepository(name)
	if err != nil {
		return model.RunConfig{}, err
	}

	cfg := base.ForRelease(repo, strings.TrimSpace(c.Tag))
	cfg.PreRelease = c.PreRelease
	return cfg, nil
}
