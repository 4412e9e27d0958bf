package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/relsum/pkg/domain/model"
	"github.com/m-mizutani/relsum/pkg/domain/types"
)

func patterns(ss ...string) []model.Pattern {
	out := make([]model.Pattern, len(ss))
	for i, s := range ss {
		out[i] = model.Pattern(s)
	}
	return out
}

func TestParsePatterns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []model.Pattern
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "*.zip", want: patterns("*.zip")},
		{name: "multiple lines", input: "*.zip\n*.tar.gz", want: patterns("*.zip", "*.tar.gz")},
		{name: "quoted", input: "\"*.zip\"\n\"!*.txt\"", want: patterns("*.zip", "!*.txt")},
		{name: "blank lines and spaces", input: "\n  *.zip  \n\n\t\n*.deb\n", want: patterns("*.zip", "*.deb")},
		{name: "windows line endings", input: "*.zip\r\n*.deb\r\n", want: patterns("*.zip", "*.deb")},
		{name: "only one quote pair removed", input: `""*.zip""`, want: patterns(`"*.zip"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, model.ParsePatterns(tt.input)).Equal(tt.want)
		})
	}
}

func TestPattern_Accessors(t *testing.T) {
	p := model.Pattern("!*.sig")
	gt.True(t, p.IsExclusion())
	gt.Value(t, p.Glob()).Equal("*.sig")

	p = model.Pattern("*.zip")
	gt.False(t, p.IsExclusion())
	gt.Value(t, p.Glob()).Equal("*.zip")
}

func TestValidatePatterns(t *testing.T) {
	gt.NoError(t, model.ValidatePatterns(nil))
	gt.NoError(t, model.ValidatePatterns(patterns("*.zip", "!**/*.sig", "app-?.[ch]", "{a,b}.tgz")))

	err := model.ValidatePatterns(patterns("*.zip", "[unclosed"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrInvalidConfig))

	// a bare "!" would exclude every asset, so it is treated as a typo
	err = model.ValidatePatterns(patterns("*.zip", "!"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrInvalidConfig))
	gt.String(t, err.Error()).Contains("malformed glob pattern")
}

func TestShouldInclude_InclusionOnly(t *testing.T) {
	tests := []struct {
		name     string
		asset    string
		patterns []model.Pattern
		want     bool
	}{
		{name: "single match", asset: "a.zip", patterns: patterns("*.zip"), want: true},
		{name: "single miss", asset: "b.txt", patterns: patterns("*.zip"), want: false},
		{name: "second pattern matches", asset: "b.txt", patterns: patterns("*.zip", "*.txt"), want: true},
		{name: "none match", asset: "c.deb", patterns: patterns("*.zip", "*.txt"), want: false},
		{name: "question mark", asset: "app-1.zip", patterns: patterns("app-?.zip"), want: true},
		{name: "question mark single char only", asset: "app-10.zip", patterns: patterns("app-?.zip"), want: false},
		{name: "character class", asset: "app-b.zip", patterns: patterns("app-[abc].zip"), want: true},
		{name: "character class miss", asset: "app-d.zip", patterns: patterns("app-[abc].zip"), want: false},
		{name: "double star", asset: "linux_amd64.tar.gz", patterns: patterns("**"), want: true},
		{name: "brace alternatives", asset: "x.tgz", patterns: patterns("*.{zip,tgz}"), want: true},
		{name: "exact name", asset: "README.md", patterns: patterns("README.md"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, model.ShouldInclude(tt.asset, tt.patterns)).Equal(tt.want)
		})
	}
}

func TestShouldInclude_Exclusion(t *testing.T) {
	tests := []struct {
		name     string
		asset    string
		patterns []model.Pattern
		want     bool
	}{
		{
			// exclusion fires when the name does NOT match the stripped glob
			name:     "exclusion fires for non matching name",
			asset:    "a.zip",
			patterns: patterns("*.zip", "!*.tar.gz"),
			want:     false,
		},
		{
			name:     "exclusion does not fire for matching name but nothing included",
			asset:    "c.tar.gz",
			patterns: patterns("*.zip", "!*.tar.gz"),
			want:     false,
		},
		{
			name:     "exclusion does not fire and later inclusion matches",
			asset:    "c.tar.gz",
			patterns: patterns("!*.tar.gz", "c.*"),
			want:     true,
		},
		{
			name:     "exclusion short circuits before inclusion",
			asset:    "a.zip",
			patterns: patterns("!*.tar.gz", "*.zip"),
			want:     false,
		},
		{
			name:     "exclusion after match still excludes",
			asset:    "a.zip",
			patterns: patterns("*.zip", "!a.*", "!*.deb"),
			want:     false,
		},
		{
			name:     "all exclusions satisfied but no inclusion",
			asset:    "a.zip",
			patterns: patterns("!*.zip", "!a.*"),
			want:     false,
		},
		{
			name:     "all exclusions satisfied with inclusion",
			asset:    "a.zip",
			patterns: patterns("!*.zip", "!a.*", "*"),
			want:     true,
		},
		{
			name:     "malformed exclusion glob never matches so it fires",
			asset:    "a.zip",
			patterns: patterns("*.zip", "![bad"),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, model.ShouldInclude(tt.asset, tt.patterns)).Equal(tt.want)
		})
	}
}

func TestShouldInclude_EmptyPatterns(t *testing.T) {
	// callers treat an empty list as "everything"; the matcher itself includes nothing
	gt.False(t, model.ShouldInclude("a.zip", nil))
}
