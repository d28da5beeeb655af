package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCmd_JSON(t *testing.T) {
	tests := map[string]struct {
		args  []string
		stdin string
		check func(t *testing.T, out string)
	}{
		"latest entry as object": {
			args: []string{"parse", "CHANGELOG.md"},
			check: func(t *testing.T, out string) {
				m := decodeObject(t, out)
				assert.Equal(t, "## [1.1.0] - 2024-03-01", m["header"])
				assert.Equal(t, "1.1.0", m["version"])
				assert.Equal(t, "2024-03-01", m["date"])
				assert.Equal(t, map[string]any{
					"root":  []any{},
					"Added": []any{"New <b>thing</b>"},
					"Fixed": []any{"Crash on start"},
				}, m["sections"])
				assert.Contains(t, out, "New <b>thing</b>")
			},
		},
		"all entries as array": {
			args: []string{"parse", "CHANGELOG.md", "--all"},
			check: func(t *testing.T, out string) {
				a := decodeArray(t, out)
				require.Len(t, a, 2)
				assert.Equal(t, "1.1.0", a[0]["version"])
				assert.Equal(t, "1.0.0", a[1]["version"])
			},
		},
		"stdin": {
			args:  []string{"parse"},
			stdin: "## 2.0.0\n- from stdin\n",
			check: func(t *testing.T, out string) {
				m := decodeObject(t, out)
				assert.Equal(t, "2.0.0", m["version"])
				assert.Nil(t, m["date"])
			},
		},
		"extra and body": {
			args: []string{"parse", "CHANGELOG.md", "--extra", `{"project":"myapp","version":"x"}`, "--include-body"},
			check: func(t *testing.T, out string) {
				m := decodeObject(t, out)
				assert.Equal(t, "myapp", m["project"])
				assert.Equal(t, "x", m["version"])
				assert.Contains(t, m["bodyRaw"], "### Fixed")
			},
		},
		"pattern override": {
			args:  []string{"parse", "--pattern", `^Release .*$`},
			stdin: "Release 3.0.0\n- a\nRelease 2.0.0\n- b\n",
			check: func(t *testing.T, out string) {
				m := decodeObject(t, out)
				assert.Equal(t, "Release 3.0.0", m["header"])
				assert.Equal(t, "3.0.0", m["version"])
			},
		},
		"structured parser": {
			args: []string{"parse", "CHANGELOG.md", "--structured", "--all"},
			check: func(t *testing.T, out string) {
				a := decodeArray(t, out)
				require.Len(t, a, 2)
				assert.Equal(t, "1.1.0", a[0]["version"])
				assert.Equal(t, "2024-01-15", a[1]["date"])
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			writeFile(t, filepath.Join(dir, "CHANGELOG.md"), sampleChangelog)

			res := execute(t, tt.stdin, tt.args...)
			require.NoError(t, res.err, res.stderr)
			tt.check(t, res.stdout)
		})
	}
}

func TestParseCmd_Text(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "CHANGELOG.md"), sampleChangelog)

	res := execute(t, "", "parse", "CHANGELOG.md", "--format", "text", "--plain")
	require.NoError(t, res.err)
	assert.Equal(t, "## v1.1.0 (2024-03-01)\n\n### Added\n  - New <b>thing</b>\n\n### Fixed\n  - Crash on start\n", res.stdout)
}

func TestParseCmd_Errors(t *testing.T) {
	tests := map[string]struct {
		args     []string
		stdin    string
		wantCode int
	}{
		"empty stdin":       {args: []string{"parse"}, stdin: "  \n", wantCode: ExitInvalidArguments},
		"no entries":        {args: []string{"parse"}, stdin: "just text\n", wantCode: ExitFailure},
		"bad extra":         {args: []string{"parse", "--extra", "{oops"}, stdin: "## 1.0.0\n", wantCode: ExitInvalidArguments},
		"missing file":      {args: []string{"parse", "nope.md"}, wantCode: ExitFailure},
		"bad pattern":       {args: []string{"parse", "--pattern", "(["}, stdin: "## 1.0.0\n", wantCode: ExitMissingConfiguration},
		"unknown flag":      {args: []string{"parse", "--bogus"}, wantCode: ExitInvalidArguments},
		"too many args":     {args: []string{"parse", "a", "b"}, wantCode: ExitInvalidArguments},
		"unknown format":    {args: []string{"parse", "--format", "xml"}, stdin: "## 1.0.0\n", wantCode: ExitInvalidArguments},
		"bad config method": {args: []string{"parse"}, stdin: "## 1.0.0\n", wantCode: ExitMissingConfiguration},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			if name == "bad config method" {
				t.Setenv("HTTP_METHOD", "DELETE")
			}

			res := execute(t, tt.stdin, tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, tt.wantCode, ExitCode(res.err), res.err.Error())
		})
	}
}

func TestParseCmd_Remote(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "changelog-notify/")
		_, _ = io.WriteString(w, sampleChangelog)
	}))
	defer srv.Close()

	res := execute(t, "", "parse", srv.URL+"/CHANGELOG.md")
	require.NoError(t, res.err)
	assert.Equal(t, "1.1.0", decodeObject(t, res.stdout)["version"])
}
