// Package git reads changelog text out of a repository with go-git: the
// files touched between two revisions, the lines a change inserted into a
// file, and a file's content at a revision. Reads never fail loudly: errors
// are logged and surface as empty results.
package git

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
)

// ErrEmptyRevision is returned when a revision string is empty.
var ErrEmptyRevision = errors.New("empty revision")

// Reader reads revisions and file contents from one repository.
type Reader struct {
	repo *git.Repository
	log  zerolog.Logger
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string, log zerolog.Logger) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	log.Debug().Str("path", path).Msg("opening repository")

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// Open returns a Reader for the repository containing path.
func Open(path string, log zerolog.Logger) (*Reader, error) {
	repo, err := openRepo(path, log)
	if err != nil {
		return nil, err
	}
	return NewReader(repo, log), nil
}

// NewReader wraps an already opened repository.
func NewReader(repo *git.Repository, log zerolog.Logger) *Reader {
	return &Reader{repo: repo, log: log.With().Str("component", "git").Logger()}
}

// Root returns the worktree root, or "" for a bare repository.
func (r *Reader) Root() string {
	wt, err := r.repo.Worktree()
	if err != nil {
		return ""
	}
	return wt.Filesystem.Root()
}

// IsNullRevision reports whether rev names no commit: empty, or made only
// of zeros as in a push event that created a branch.
func IsNullRevision(rev string) bool {
	return strings.Trim(rev, "0") == ""
}

// commit resolves a revision (hash, branch, tag, HEAD~1, ...) to a commit.
func (r *Reader) commit(rev string) (*object.Commit, error) {
	if rev == "" {
		return nil, ErrEmptyRevision
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", rev, err)
	}
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", hash, err)
	}
	return c, nil
}

// changes returns the tree changes between two revisions.
func (r *Reader) changes(before, after string) (object.Changes, error) {
	from, err := r.commit(before)
	if err != nil {
		return nil, err
	}
	to, err := r.commit(after)
	if err != nil {
		return nil, err
	}

	fromTree, err := from.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", before, err)
	}
	toTree, err := to.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", after, err)
	}

	return object.DiffTree(fromTree, toTree)
}

// ChangedFiles returns the sorted paths touched between two revisions,
// deletions included. A null before lists every file at after.
func (r *Reader) ChangedFiles(before, after string) []string {
	if after == "" {
		return []string{}
	}

	if IsNullRevision(before) {
		files, err := r.listFiles(after)
		if err != nil {
			r.log.Warn().Err(err).Str("after", after).Msg("failed to list files")
			return []string{}
		}
		return files
	}

	changes, err := r.changes(before, after)
	if err != nil {
		r.log.Warn().Err(err).Str("before", before).Str("after", after).Msg("failed to compute changed files")
		return []string{}
	}

	seen := make(map[string]struct{}, len(changes))
	files := make([]string, 0, len(changes))
	for _, ch := range changes {
		for _, name := range []string{ch.From.Name, ch.To.Name} {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			files = append(files, name)
		}
	}
	sort.Strings(files)

	r.log.Debug().Int("count", len(files)).Msg("changed files")
	return files
}

// listFiles returns every file path in the tree of rev.
func (r *Reader) listFiles(rev string) ([]string, error) {
	c, err := r.commit(rev)
	if err != nil {
		return nil, err
	}
	iter, err := c.Files()
	if err != nil {
		return nil, fmt.Errorf("listing files of %s: %w", rev, err)
	}
	defer iter.Close()

	var files []string
	err = iter.ForEach(func(f *object.File) error {
		files = append(files, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating files of %s: %w", rev, err)
	}
	sort.Strings(files)
	return files, nil
}

// AddedLines returns the lines inserted into path between two revisions,
// joined with newlines. A null before treats the whole file at after as
// inserted.
func (r *Reader) AddedLines(before, after, path string) string {
	if after == "" {
		return ""
	}
	if IsNullRevision(before) {
		return r.FileAt(after, path)
	}

	changes, err := r.changes(before, after)
	if err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("failed to get diff")
		return ""
	}

	var lines []string
	for _, ch := range changes {
		if ch.To.Name != path && ch.From.Name != path {
			continue
		}
		patch, err := ch.Patch()
		if err != nil {
			r.log.Warn().Err(err).Str("path", path).Msg("failed to build patch")
			return ""
		}
		lines = append(lines, addedFromPatch(patch)...)
	}

	return strings.Join(lines, "\n")
}

// addedFromPatch collects the inserted lines of every chunk in a patch.
func addedFromPatch(patch *object.Patch) []string {
	var lines []string
	for _, fp := range patch.FilePatches() {
		for _, chunk := range fp.Chunks() {
			if chunk.Type() != diff.Add {
				continue
			}
			content := strings.TrimSuffix(chunk.Content(), "\n")
			lines = append(lines, strings.Split(content, "\n")...)
		}
	}
	return lines
}

// FileAt returns the content of path at rev, or "" if it cannot be read.
func (r *Reader) FileAt(rev, path string) string {
	c, err := r.commit(rev)
	if err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("failed to resolve revision")
		return ""
	}
	f, err := c.File(path)
	if err != nil {
		r.log.Debug().Err(err).Str("rev", rev).Str("path", path).Msg("file not present")
		return ""
	}
	content, err := f.Contents()
	if err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("failed to read file")
		return ""
	}
	return content
}

// ExtractAddedLines isolates insertions from unified diff text: lines that
// start with "+" but not "+++", with the marker removed.
func ExtractAddedLines(unifiedDiff string) string {
	var added []string
	for _, line := range strings.Split(unifiedDiff, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			added = append(added, line[1:])
		}
	}
	return strings.Join(added, "\n")
}
