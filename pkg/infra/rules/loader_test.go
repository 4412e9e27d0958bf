package rules_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
	"github.com/m-mizutani/relsum/pkg/infra/rules"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func baseConfig() model.RunConfig {
	return model.RunConfig{
		FileName:           model.DefaultChecksumFileName,
		Algorithm:          types.HashSHA256,
		LargeFileThreshold: model.LargeFileThreshold,
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "rules.toml", `
[[repository]]
name = "octo/hello"
patterns = ["*.zip", "!*.sig"]
algorithm = "SHA512"
file_name = "SHA512SUMS"

[[repository]]
name = "octo/world"
`)

	set, err := rules.Load(path)
	gt.NoError(t, err)
	gt.Value(t, set.Len()).Equal(2)

	hello := model.Repository{Owner: "octo", Name: "hello"}
	cfg := set.Apply(baseConfig(), hello, "v1.0.0")
	gt.Value(t, cfg.Patterns).Equal([]model.Pattern{"*.zip", "!*.sig"})
	gt.Value(t, cfg.Algorithm).Equal(types.HashSHA512)
	gt.Value(t, cfg.FileName).Equal("SHA512SUMS")

	world := model.Repository{Owner: "octo", Name: "world"}
	cfg = set.Apply(baseConfig(), world, "v1.0.0")
	gt.Value(t, cfg.Algorithm).Equal(types.HashSHA256)
	gt.Value(t, cfg.FileName).Equal(model.DefaultChecksumFileName)
}

func TestLoad_YAML(t *testing.T) {
	for _, name := range []string{"rules.yaml", "rules.yml"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, `
repository:
  - name: octo/hello
    patterns:
      - "*.tar.gz"
    algorithm: blake3
`)

			set, err := rules.Load(path)
			gt.NoError(t, err)

			cfg := set.Apply(baseConfig(), model.Repository{Owner: "octo", Name: "hello"}, "v1")
			gt.Value(t, cfg.Patterns).Equal([]model.Pattern{"*.tar.gz"})
			gt.Value(t, cfg.Algorithm).Equal(types.HashBLAKE3)
		})
	}
}

func TestLoad_EmptyYAML(t *testing.T) {
	set, err := rules.Load(writeFile(t, "rules.yaml", ""))
	gt.NoError(t, err)
	gt.Value(t, set.Len()).Equal(0)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "unknown algorithm",
			file:    "rules.toml",
			content: "[[repository]]\nname = \"octo/hello\"\nalgorithm = \"crc32\"\n",
		},
		{
			name:    "bad repository name",
			file:    "rules.toml",
			content: "[[repository]]\nname = \"hello\"\n",
		},
		{
			name:    "bad glob",
			file:    "rules.yaml",
			content: "repository:\n  - name: octo/hello\n    patterns: [\"[\"]\n",
		},
		{
			name:    "duplicate repository",
			file:    "rules.yaml",
			content: "repository:\n  - name: octo/hello\n  - name: octo/hello\n",
		},
		{
			name:    "unknown field",
			file:    "rules.toml",
			content: "[[repository]]\nname = \"octo/hello\"\nsalt = \"x\"\n",
		},
		{
			name:    "file name with directory",
			file:    "rules.yaml",
			content: "repository:\n  - name: octo/hello\n    file_name: dist/sums.txt\n",
		},
		{
			name:    "unsupported extension",
			file:    "rules.json",
			content: "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.Load(writeFile(t, tt.file, tt.content))
			gt.Error(t, err)
			gt.True(t, errors.Is(err, types.ErrInvalidConfig))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := rules.Load(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, os.ErrNotExist))
}
