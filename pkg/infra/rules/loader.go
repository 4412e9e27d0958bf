package rules

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type file struct {
	Repository []repositoryRule `toml:"repository" yaml:"repository"`
}

type repositoryRule struct {
	Name      string   `toml:"name" yaml:"name"`
	Patterns  []string `toml:"patterns" yaml:"patterns"`
	Algorithm string   `toml:"algorithm" yaml:"algorithm"`
	FileName  string   `toml:"file_name" yaml:"file_name"`
}

// Load reads a rule file. The format follows the extension: .toml, .yaml or .yml.
func Load(path string) (*model.RuleSet, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator supplied flag
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rule file", goerr.V("path", path))
	}

	var f file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, &f)
	case ".yaml", ".yml":
		err = decodeYAML(data, &f)
	default:
		return nil, goerr.Wrap(types.ErrInvalidConfig, "unsupported rule file format", goerr.V("path", path), goerr.V("ext", ext))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse rule file", goerr.V("path", path))
	}

	set, err := f.ruleSet()
	if err != nil {
		return nil, goerr.Wrap(err, "invalid rule file", goerr.V("path", path))
	}
	return set, nil
}

func decodeTOML(data []byte, f *file) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		return goerr.Wrap(types.ErrInvalidConfig, err.Error())
	}
	return nil
}

func decodeYAML(data []byte, f *file) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return goerr.Wrap(types.ErrInvalidConfig, err.Error())
	}
	return nil
}

func (f *file) ruleSet() (*model.RuleSet, error) {
	rules := make([]model.RepositoryRule, 0, len(f.Repository))

	for i, r := range f.Repository {
		repo, err := model.ParseRepository(r.Name)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid repository name", goerr.V("index", i))
		}

		var algo types.HashAlgorithm
		if r.Algorithm != "" {
			algo, err = types.ParseHashAlgorithm(r.Algorithm)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid algorithm", goerr.V("repo", r.Name))
			}
		}

		patterns := make([]model.Pattern, 0, len(r.Patterns))
		for _, p := range r.Patterns {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, model.Pattern(p))
			}
		}

		rules = append(rules, model.RepositoryRule{
			Repository: repo,
			Patterns:   patterns,
			Algorithm:  algo,
			FileName:   r.FileName,
		})
	}

	return model.NewRuleSet(rules...)
}
