package model

import (
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/types"
)

// RepositoryRule overrides checksum settings for a single repository. Zero
// values keep the defaults.
type RepositoryRule struct {
	Repository Repository
	Patterns   []Pattern
	Algorithm  types.HashAlgorithm
	FileName   string
}

// RuleSet holds per repository rules keyed by "owner/name"
type RuleSet struct {
	rules map[string]RepositoryRule
}

// NewRuleSet builds a RuleSet. Duplicate repositories and invalid settings
// are rejected.
func NewRuleSet(rules ...RepositoryRule) (*RuleSet, error) {
	set := &RuleSet{rules: make(map[string]RepositoryRule, len(rules))}

	for _, rule := range rules {
		key := rule.Repository.String()
		if rule.Repository.IsZero() {
			return nil, goerr.Wrap(types.ErrInvalidConfig, "rule without repository")
		}
		if _, exists := set.rules[key]; exists {
			return nil, goerr.Wrap(types.ErrInvalidConfig, "duplicate repository rule", goerr.V("repo", key))
		}
		if err := ValidatePatterns(rule.Patterns); err != nil {
			return nil, goerr.Wrap(err, "invalid repository rule", goerr.V("repo", key))
		}
		if rule.FileName != "" && filepath.Base(rule.FileName) != rule.FileName {
			return nil, goerr.Wrap(types.ErrInvalidConfig, "checksum file name must be a plain file name",
				goerr.V("repo", key), goerr.V("file_name", rule.FileName))
		}
		set.rules[key] = rule
	}

	return set, nil
}

// Len returns the number of rules
func (x *RuleSet) Len() int {
	if x == nil {
		return 0
	}
	return len(x.rules)
}

// Apply returns base retargeted to repo and tag with the repository's rule
// applied on top. A nil RuleSet applies no rule.
func (x *RuleSet) Apply(base RunConfig, repo Repository, tag string) RunConfig {
	cfg := base.ForRelease(repo, tag)
	if x == nil {
		return cfg
	}

	rule, ok := x.rules[repo.String()]
	if !ok {
		return cfg
	}
	if len(rule.Patterns) > 0 {
		cfg.Patterns = append([]Pattern(nil), rule.Patterns...)
	}
	if rule.Algorithm != "" {
		cfg.Algorithm = rule.Algorithm
	}
	if rule.FileName != "" {
		cfg.FileName = rule.FileName
	}
	return cfg
}
