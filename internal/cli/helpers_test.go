package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// loaderEnv lists every variable configuration loading reads.
var loaderEnv = []string{
	"GITHUB_EVENT_BEFORE", "GITHUB_SHA", "GITHUB_REPOSITORY", "GITHUB_REPOSITORY_OWNER",
	"GITHUB_REF", "GITHUB_REF_NAME", "GITHUB_WORKFLOW", "GITHUB_ACTOR", "GITHUB_SERVER_URL",
	"GITHUB_ACTION_PATH",
	"FILE_GLOBS", "ENTRY_SEPARATOR_REGEX", "WEBHOOK_URL", "WEBHOOK_HEADERS_JSON",
	"EXTRA_BODY_JSON", "HTTP_METHOD", "INCLUDE_BODY_RAW", "INCLUDE_GITHUB_CONTEXT",
	"BEFORE", "AFTER", "PROJECT_NAME", "PROJECT_OWNER", "REPOSITORY_URL",
}

// isolate clears the loader environment and moves into an empty directory.
// It returns that directory.
func isolate(t *testing.T) string {
	t.Helper()
	for _, name := range loaderEnv {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs the CLI with args and stdin.
func execute(t *testing.T, stdin string, args ...string) cmdResult {
	t.Helper()
	return executeContext(t, context.Background(), stdin, args...)
}

func executeContext(t *testing.T, ctx context.Context, stdin string, args ...string) cmdResult {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return cmdResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeObject(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m), s)
	return m
}

func decodeArray(t *testing.T, s string) []map[string]any {
	t.Helper()
	var a []map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &a), s)
	return a
}

// commitFiles writes files into the repository at dir and commits them.
func commitFiles(t *testing.T, repo *git.Repository, dir string, files map[string]string) string {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for path, content := range files {
		writeFile(t, filepath.Join(dir, path), content)
		_, err = wt.Add(path)
		require.NoError(t, err)
	}

	hash, err := wt.Commit("update", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	return hash.String()
}

const sampleChangelog = `# Changelog

## [1.1.0] - 2024-03-01
### Added
- New <b>thing</b>

### Fixed
- Crash on start

## [1.0.0] - 2024-01-15
- First release
`
