package glob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const defaultGlobs = "CHANGELOG.md,**/CHANGELOG.md,**/changelog.md,**/CHANGELOG*.md,**/changelog*.md"

func TestTranslate(t *testing.T) {
	tests := map[string]struct {
		glob string
		want string
	}{
		"literal":     {glob: "CHANGELOG.md", want: `^CHANGELOG\.md$`},
		"double star": {glob: "**/CHANGELOG.md", want: `^.*/CHANGELOG\.md$`},
		"single star": {glob: "docs/*.md", want: `^docs/[^/]*\.md$`},
		"question":    {glob: "v?.md", want: `^v.\.md$`},
		"meta quoted": {glob: "a+(b).md", want: `^a\+\(b\)\.md$`},
		"triple star": {glob: "***", want: `^.*[^/]*$`},
		"empty glob":  {glob: "", want: `^$`},
		"brackets":    {glob: "[x]", want: `^\[x\]$`},
		"non-ascii":   {glob: "docs/ä/*.md", want: `^docs/ä/[^/]*\.md$`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.glob))
		})
	}
}

func TestPattern_Match(t *testing.T) {
	tests := map[string]struct {
		glob string
		path string
		want bool
	}{
		"root literal":                 {glob: "CHANGELOG.md", path: "CHANGELOG.md", want: true},
		"root literal nested":          {glob: "CHANGELOG.md", path: "pkg/CHANGELOG.md", want: false},
		"double star nested":           {glob: "**/CHANGELOG.md", path: "packages/core/CHANGELOG.md", want: true},
		"double star needs slash":      {glob: "**/CHANGELOG.md", path: "CHANGELOG.md", want: false},
		"single star stays in segment": {glob: "*.md", path: "docs/a.md", want: false},
		"single star":                  {glob: "*.md", path: "a.md", want: true},
		"dot is literal":               {glob: "a.md", path: "aXmd", want: false},
		"question any char":            {glob: "v?.md", path: "v1.md", want: true},
		"anchored":                     {glob: "CHANGELOG.md", path: "OLD-CHANGELOG.md", want: false},
		"suffix star":                  {glob: "**/CHANGELOG*.md", path: "a/CHANGELOG-v2.md", want: true},
		"non-ascii literal":            {glob: "docs/ä/CHANGELOG.md", path: "docs/ä/CHANGELOG.md", want: true},
		"non-ascii after double star":  {glob: "**/ÄNDERUNGEN.md", path: "pkg/ÄNDERUNGEN.md", want: true},
		"question matches one rune":    {glob: "v?.md", path: "vä.md", want: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := Compile(tt.glob)
			assert.Equal(t, tt.glob, p.String())
			assert.Equal(t, tt.want, p.Match(tt.path))
		})
	}
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Split(" a,,b ,"))
	assert.Nil(t, Split(""))
}

func TestSet_EmptyMatchesAll(t *testing.T) {
	var s Set
	assert.True(t, s.Match("anything"))
	assert.Len(t, CompileSet(defaultGlobs), 5)
}

func TestFilter(t *testing.T) {
	files := []string{
		"CHANGELOG.md",
		"README.md",
		"packages/core/CHANGELOG.md",
		"docs/changelog-2024.md",
		"src/main.go",
	}

	tests := map[string]struct {
		csv  string
		want []string
	}{
		"defaults": {
			csv:  defaultGlobs,
			want: []string{"CHANGELOG.md", "packages/core/CHANGELOG.md", "docs/changelog-2024.md"},
		},
		"single glob": {
			csv:  "**/CHANGELOG.md",
			want: []string{"packages/core/CHANGELOG.md"},
		},
		"empty list keeps all": {
			csv:  " , ",
			want: files,
		},
		"no match": {
			csv:  "HISTORY.md",
			want: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(files, tt.csv))
		})
	}
}
