package model

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/types"
)

// Pattern is a glob for asset names. A leading "!" marks an exclusion pattern.
type Pattern string

const exclusionPrefix = "!"

// IsExclusion reports whether the pattern starts with "!"
func (x Pattern) IsExclusion() bool {
	return strings.HasPrefix(string(x), exclusionPrefix)
}

// Glob returns the glob expression without the exclusion prefix
func (x Pattern) Glob() string {
	return strings.TrimPrefix(string(x), exclusionPrefix)
}

// Match reports whether name matches the glob of the pattern. Malformed globs
// never match.
func (x Pattern) Match(name string) bool {
	ok, err := doublestar.Match(x.Glob(), name)
	return err == nil && ok
}

// ParsePatterns splits newline separated pattern input. One surrounding pair
// of double quotes is removed from each line and blank lines are dropped.
func ParsePatterns(input string) []Pattern {
	var patterns []Pattern
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimPrefix(line, `"`)
		line = strings.TrimSuffix(line, `"`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		patterns = append(patterns, Pattern(line))
	}
	return patterns
}

// ValidatePatterns rejects patterns whose glob can not be compiled. A bare
// "!" is rejected too: its empty glob matches nothing, so it would exclude
// every asset.
func ValidatePatterns(patterns []Pattern) error {
	for _, p := range patterns {
		if p.Glob() == "" || !doublestar.ValidatePattern(p.Glob()) {
			return goerr.Wrap(types.ErrInvalidConfig, "malformed glob pattern", goerr.V("pattern", string(p)))
		}
	}
	return nil
}

// ShouldInclude decides whether an asset is checksummed. Patterns are
// evaluated in order:
//
//   - "!glob": when name does NOT match glob, the asset is excluded and
//     evaluation stops.
//   - "glob": when name matches glob, the asset is marked as matched and
//     evaluation continues.
//
// The asset is included only if it was matched and never excluded. An empty
// pattern list includes nothing; callers that want "everything" for an empty
// list must not call ShouldInclude.
func ShouldInclude(name string, patterns []Pattern) bool {
	matched := false

	for _, p := range patterns {
		if p.IsExclusion() {
			if !p.Match(name) {
				return false
			}
			continue
		}

		if p.Match(name) {
			matched = true
		}
	}

	return matched
}
