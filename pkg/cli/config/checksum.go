package config

import (
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Checksum holds the settings shared by every checksum run
type Checksum struct {
	FileName           string
	Algorithm          string
	Patterns           string
	LargeFileThreshold int64
	DryRun             bool
}

// Flags returns CLI flags for checksum configuration
func (c *Checksum) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "file-name",
			Usage:       "Name of the checksum file uploaded to the release",
			Value:       model.DefaultChecksumFileName,
			Destination: &c.FileName,
			Sources:     cli.EnvVars("RELSUM_FILE_NAME", "INPUT_FILE_NAME"),
		},
		&cli.StringFlag{
			Name:        "algorithm",
			Usage:       "Digest algorithm",
			Value:       string(types.DefaultHashAlgorithm),
			Destination: &c.Algorithm,
			Sources:     cli.EnvVars("RELSUM_ALGORITHM", "INPUT_ALGORITHM"),
		},
		&cli.StringFlag{
			Name:        "patterns",
			Usage:       "Newline separated glob patterns; a leading '!' marks an exclusion",
			Destination: &c.Patterns,
			Sources:     cli.EnvVars("RELSUM_PATTERNS", "INPUT_PATTERNS"),
		},
		&cli.Int64Flag{
			Name:        "large-file-threshold",
			Usage:       "Upload the checksum file right after any asset larger than this many bytes",
			Value:       model.LargeFileThreshold,
			Destination: &c.LargeFileThreshold,
			Sources:     cli.EnvVars("RELSUM_LARGE_FILE_THRESHOLD"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Read public release data only and skip uploads",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("RELSUM_DRY_RUN", "INPUT_DRY_RUN"),
		},
	}
}

// Build returns the run configuration without a target release
func (c *Checksum) Build() (model.RunConfig, error) {
	algo, err := types.ParseHashAlgorithm(c.Algorithm)
	if err != nil {
		return model.RunConfig{}, err
	}

	patterns := model.ParsePatterns(c.Patterns)
	if err := model.ValidatePatterns(patterns); err != nil {
		return model.RunConfig{}, err
	}

	fileName := c.FileName
	if fileName == "" {
		fileName = model.DefaultChecksumFileName
	}

	return model.RunConfig{
		Patterns:           patterns,
		FileName:           fileName,
		Algorithm:          algo,
		DryRun:             c.DryRun,
		LargeFileThreshold: c.LargeFileThreshold,
	}, nil
}
