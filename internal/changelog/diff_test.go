package changelog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headers(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Header)
	}
	return out
}

func TestExtractor_NewBetween(t *testing.T) {
	tests := map[string]struct {
		before string
		after  string
		want   []string
	}{
		"new entry on top": {
			before: "## 1.0.0\n- A",
			after:  "## 1.1.0\n- B\n\n## 1.0.0\n- A",
			want:   []string{"## 1.1.0"},
		},
		"identical snapshots": {
			before: "## 1.0.0\n- A",
			after:  "## 1.0.0\n- A",
			want:   []string{},
		},
		"bullet edited under existing header": {
			before: "## 1.0.0\n- A",
			after:  "## 1.0.0\n- A\n- A2",
			want:   []string{},
		},
		"header typo fix counts as new": {
			before: "## 1.0.O\n- A",
			after:  "## 1.0.0\n- A",
			want:   []string{"## 1.0.0"},
		},
		"empty before": {
			before: "",
			after:  "## 2.0.0\n## 1.0.0",
			want:   []string{"## 2.0.0", "## 1.0.0"},
		},
		"empty after": {
			before: "## 1.0.0",
			after:  "",
			want:   []string{},
		},
		"entry removed": {
			before: "## 2.0.0\n## 1.0.0",
			after:  "## 1.0.0",
			want:   []string{},
		},
	}

	x, err := NewExtractor(DefaultHeaderPattern, nil)
	require.NoError(t, err)

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := x.NewBetween(context.Background(), tt.before, tt.after)
			assert.NoError(t, res.Err)
			assert.False(t, res.FellBack)
			assert.Equal(t, tt.want, headers(res.Entries))
		})
	}
}

func TestExtractor_NewFromAdditions(t *testing.T) {
	tests := map[string]struct {
		added string
		want  []string
	}{
		"added header and bullets": {
			added: "## [1.1.0] - 2025-02-01\n### Added\n- B\n",
			want:  []string{"## [1.1.0] - 2025-02-01"},
		},
		"only bullets added": {
			added: "- B\n- C\n",
			want:  []string{},
		},
		"nothing added": {
			added: "",
			want:  []string{},
		},
	}

	x, err := NewExtractor(DefaultHeaderPattern, Absent{})
	require.NoError(t, err)

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := x.NewFromAdditions(context.Background(), tt.added)
			assert.Equal(t, tt.want, headers(res.Entries))
		})
	}
}

func TestExtractor_NewBetweenReportsFallback(t *testing.T) {
	parseErr := errors.New("parser unavailable")
	x, err := NewExtractor(DefaultHeaderPattern, Available{
		Parser: StructuredParserFunc(func(context.Context, string) (*ParsedDocument, error) {
			return nil, parseErr
		}),
	})
	require.NoError(t, err)

	res := x.NewBetween(context.Background(), "## 1.0.0", "## 1.1.0\n## 1.0.0")
	assert.True(t, res.FellBack)
	assert.ErrorIs(t, res.Err, parseErr)
	assert.Equal(t, []string{"## 1.1.0"}, headers(res.Entries))
}

func TestNewExtractor_InvalidPattern(t *testing.T) {
	_, err := NewExtractor("[", nil)
	var pe *PatternError
	assert.ErrorAs(t, err, &pe)
}

func TestNewEntries_PreservesAfterOrder(t *testing.T) {
	before := []Entry{{Header: "## b"}}
	after := []Entry{{Header: "## c"}, {Header: "## b"}, {Header: "## a"}}

	assert.Equal(t, []Entry{{Header: "## c"}, {Header: "## a"}}, NewEntries(before, after))
}
