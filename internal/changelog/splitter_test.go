package changelog

import (
	"errors"
	"regexp/syntax"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := map[string]struct {
		content string
		pattern string
		want    []Entry
	}{
		"empty content": {
			content: "",
			pattern: DefaultHeaderPattern,
			want:    []Entry{},
		},
		"no headers": {
			content: "# Changelog\n\nNothing here yet.\n",
			pattern: DefaultHeaderPattern,
			want:    []Entry{},
		},
		"two entries": {
			content: "# Changelog\n\n## [1.1.0] - 2025-02-01\n- B\n\n## [1.0.0] - 2025-01-01\n- A\n",
			pattern: DefaultHeaderPattern,
			want: []Entry{
				{Header: "## [1.1.0] - 2025-02-01", Text: "## [1.1.0] - 2025-02-01\n- B"},
				{Header: "## [1.0.0] - 2025-01-01", Text: "## [1.0.0] - 2025-01-01\n- A"},
			},
		},
		"third-level headings stay in the entry": {
			content: "## 1.0.0\n### Added\n- A\n",
			pattern: DefaultHeaderPattern,
			want: []Entry{
				{Header: "## 1.0.0", Text: "## 1.0.0\n### Added\n- A"},
			},
		},
		"header surrounded by whitespace": {
			content: "\n\n## 1.0.0   \n- A\n\n\n",
			pattern: DefaultHeaderPattern,
			want: []Entry{
				{Header: "## 1.0.0", Text: "## 1.0.0   \n- A"},
			},
		},
		"custom pattern": {
			content: "Release 2\nfoo\nRelease 1\nbar",
			pattern: `^Release \d+$`,
			want: []Entry{
				{Header: "Release 2", Text: "Release 2\nfoo"},
				{Header: "Release 1", Text: "Release 1\nbar"},
			},
		},
		"crlf line endings": {
			content: "## 1.0.0\r\n- A\r\n",
			pattern: `^##\s+.*$`,
			want: []Entry{
				{Header: "## 1.0.0", Text: "## 1.0.0\r\n- A"},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Split(tt.content, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_TextsRebuildDocument(t *testing.T) {
	tests := map[string]struct {
		content string
		want    string
	}{
		"header at offset zero": {
			content: "## 1.1.0\n- b\n\n## 1.0.0\n- a\n",
			want:    "## 1.1.0\n- b\n\n## 1.0.0\n- a",
		},
		"trailing entry without newline": {
			content: "## 3.0.0\n### Added\n- c\n\n## 2.0.0\n- b\n\n## 1.0.0",
			want:    "## 3.0.0\n### Added\n- c\n\n## 2.0.0\n- b\n\n## 1.0.0",
		},
		"preamble is dropped": {
			content: "# Changelog\n\nAll notable changes.\n\n## 1.1.0\n- b\n\n## 1.0.0\n- a\n",
			want:    "## 1.1.0\n- b\n\n## 1.0.0\n- a",
		},
		"uneven blank lines": {
			content: "## 2.0.0\n- b\n\n\n\n## 1.0.0\n\n- a\n\n",
			want:    "## 2.0.0\n- b\n\n## 1.0.0\n\n- a",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			entries, err := Split(tt.content, DefaultHeaderPattern)
			require.NoError(t, err)
			require.NotEmpty(t, entries)

			texts := make([]string, 0, len(entries))
			for _, e := range entries {
				texts = append(texts, e.Text)
			}
			assert.Equal(t, strings.Fields(tt.want), strings.Fields(strings.Join(texts, "\n")))
			assert.True(t, strings.HasSuffix(strings.TrimSpace(tt.content), entries[len(entries)-1].Text))
		})
	}
}

func TestSplit_HeaderIsFirstLineOfText(t *testing.T) {
	content := "## 2.0.0\n- x\n## 1.0.0\n- y\n## 0.1.0"
	entries, err := Split(content, DefaultHeaderPattern)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for _, e := range entries {
		assert.Regexp(t, `^`+regexpQuote(e.Header), e.Text)
		assert.Equal(t, e.Text, trimSpace(e.Text))
	}
}

func TestSplit_EmptyContentSkipsCompile(t *testing.T) {
	entries, err := Split("", "([")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewSplitter_InvalidPattern(t *testing.T) {
	_, err := NewSplitter("([")
	require.Error(t, err)

	var pe *PatternError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "([", pe.Pattern)

	var se *syntax.Error
	assert.True(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "invalid header pattern")
}

func TestSplitter_Reusable(t *testing.T) {
	s, err := NewSplitter(DefaultHeaderPattern)
	require.NoError(t, err)
	assert.Equal(t, DefaultHeaderPattern, s.Pattern())

	first := s.Split("## a\n## b")
	second := s.Split("## a\n## b")
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestLineAt(t *testing.T) {
	tests := map[string]struct {
		text string
		idx  int
		want string
	}{
		"start of text":  {text: "abc\ndef", idx: 0, want: "abc"},
		"middle of line": {text: "abc\ndef", idx: 5, want: "def"},
		"start of line":  {text: "abc\ndef", idx: 4, want: "def"},
		"end of text":    {text: "abc\ndef", idx: 7, want: "def"},
		"single line":    {text: "only", idx: 2, want: "only"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, lineAt(tt.text, tt.idx))
		})
	}
}

func BenchmarkSplit(b *testing.B) {
	content := generateChangelog(200, 10)
	s, err := NewSplitter(DefaultHeaderPattern)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Split(content)
	}
}

func BenchmarkNewRecords(b *testing.B) {
	entries, err := Split(generateChangelog(200, 10), DefaultHeaderPattern)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = NewRecords(entries)
	}
}
