package model

import "github.com/m-mizutani/relsum/pkg/domain/types"

// RunResult summarizes a finished checksum run
type RunResult struct {
	Repository   Repository
	Tag          string
	Algorithm    types.HashAlgorithm
	Patterns     []Pattern
	Listed       int              // number of assets in the release listing
	Records      []ChecksumRecord // records appended during this run, in order
	Skipped      []string         // asset names not processed
	Uploads      int              // number of checksum file uploads performed
	ChecksumPath string
}
