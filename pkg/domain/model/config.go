package model

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/types"
)

// LargeFileThreshold is the default asset size in bytes above which the
// checksum file is uploaded right after the asset has been recorded
const LargeFileThreshold int64 = 500_000_000

// DefaultChecksumFileName is used when no checksum file name is configured
const DefaultChecksumFileName = "checksum.txt"

// Repository identifies a hosted repository
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses "owner/name"
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, goerr.Wrap(types.ErrInvalidConfig, "repository must be in owner/name form", goerr.V("repo", s))
	}
	return Repository{Owner: owner, Name: name}, nil
}

func (x Repository) String() string {
	return x.Owner + "/" + x.Name
}

// IsZero reports whether the repository is unset
func (x Repository) IsZero() bool {
	return x.Owner == "" && x.Name == ""
}

// RunConfig is the immutable configuration of one checksum run. Build it once
// and pass it by value.
type RunConfig struct {
	Repository         Repository
	Tag                string // empty means latest (or latest pre-release)
	Patterns           []Pattern
	FileName           string
	Algorithm          types.HashAlgorithm
	DryRun             bool
	PreRelease         bool
	LargeFileThreshold int64
	WorkDir            string // empty means the current directory
}

// Validate checks that the configuration can be used for a run
func (x RunConfig) Validate() error {
	if x.Repository.IsZero() {
		return goerr.Wrap(types.ErrInvalidConfig, "repository is required")
	}
	if x.FileName == "" || filepath.Base(x.FileName) != x.FileName {
		return goerr.Wrap(types.ErrInvalidConfig, "checksum file name must be a plain file name", goerr.V("file_name", x.FileName))
	}
	if _, err := types.ParseHashAlgorithm(string(x.Algorithm)); err != nil || x.Algorithm == "" {
		return goerr.Wrap(types.ErrInvalidConfig, "hash algorithm is not supported", goerr.V("algorithm", x.Algorithm))
	}
	if x.LargeFileThreshold < 0 {
		return goerr.Wrap(types.ErrInvalidConfig, "large file threshold must not be negative", goerr.V("threshold", x.LargeFileThreshold))
	}
	if err := ValidatePatterns(x.Patterns); err != nil {
		return err
	}
	return nil
}

// ForRelease returns a copy of the configuration targeting another release
func (x RunConfig) ForRelease(repo Repository, tag string) RunConfig {
	cfg := x
	cfg.Repository = repo
	cfg.Tag = tag
	cfg.Patterns = slices.Clone(x.Patterns)
	return cfg
}

// ChecksumPath is the local path of the checksum file
func (x RunConfig) ChecksumPath() string {
	return filepath.Join(x.WorkDir, x.FileName)
}

// AssetPath is the local path an asset is downloaded to
func (x RunConfig) AssetPath(name string) string {
	return filepath.Join(x.WorkDir, name)
}
