package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
	clierrors "github.com/ariel-frischer/changelog-notify/internal/errors"
	"github.com/ariel-frischer/changelog-notify/internal/git"
)

type diffOptions struct {
	beforeFile string
	afterFile  string
	before     string
	after      string
	path       string
	repo       string
	unified    string
	format     string
	plain      bool
}

func newDiffCmd(root *rootOptions) *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Print the entries added between two versions of a changelog",
		Long: `Print the changelog entries that are new in one version of a changelog
compared to another, without delivering them.

Three inputs are supported:
  --before-file/--after-file  two local snapshots; entries whose header
                              is not in the older snapshot are new
  --before/--after --path     the file at two git revisions (same rule)
  --unified <file|->          a unified diff; entries whose header line
                              was inserted are new

--before and --after default to the configured range (BEFORE/AFTER or
GITHUB_EVENT_BEFORE/GITHUB_SHA).`,
		Example: `  # Compare two local files
  changelog-notify diff --before-file old.md --after-file CHANGELOG.md

  # Compare the file at two commits
  changelog-notify diff --before HEAD~1 --after HEAD --path CHANGELOG.md

  # Read a diff from git
  git diff HEAD~1 -- CHANGELOG.md | changelog-notify diff --unified -`,
		Args:    positional(cobra.NoArgs),
		GroupID: GroupCore,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiff(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.beforeFile, "before-file", "", "Older snapshot of the changelog (missing means empty)")
	cmd.Flags().StringVar(&opts.afterFile, "after-file", "", "Newer snapshot of the changelog")
	cmd.Flags().StringVar(&opts.before, "before", "", "Older git revision")
	cmd.Flags().StringVar(&opts.after, "after", "", "Newer git revision")
	cmd.Flags().StringVar(&opts.path, "path", "", "Changelog path inside the repository")
	cmd.Flags().StringVar(&opts.repo, "repo", ".", "Repository directory")
	cmd.Flags().StringVar(&opts.unified, "unified", "", "Unified diff file, or - for stdin")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "Output format: json or text")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Plain text output (no colors/icons)")

	return cmd
}

func runDiff(cmd *cobra.Command, root *rootOptions, opts *diffOptions) error {
	x, err := root.extractor()
	if err != nil {
		return err
	}

	var res changelog.SplitResult
	switch mode, err := opts.mode(); {
	case err != nil:
		return err
	case mode == "unified":
		diff, err := readSource(cmd.Context(), cmd.InOrStdin(), opts.unified)
		if err != nil {
			return err
		}
		res = x.NewFromAdditions(cmd.Context(), git.ExtractAddedLines(diff))
	case mode == "files":
		before, err := readOptional(opts.beforeFile)
		if err != nil {
			return err
		}
		after, err := readSource(cmd.Context(), cmd.InOrStdin(), opts.afterFile)
		if err != nil {
			return err
		}
		res = x.NewBetween(cmd.Context(), before, after)
	default:
		before, after := opts.before, opts.after
		if before == "" {
			before = root.cfg.Before
		}
		if after == "" {
			after = root.cfg.After
		}
		if after == "" {
			return clierrors.NewArgumentError("--after is required with --path",
				"Pass --after <revision>, or set AFTER or GITHUB_SHA")
		}
		reader, err := git.Open(opts.repo, root.log)
		if err != nil {
			return clierrors.GitNotRepository(err)
		}
		res = x.NewBetween(cmd.Context(), reader.FileAt(before, opts.path), reader.FileAt(after, opts.path))
	}
	logFallback(root.log, res)

	records := changelog.NewRecords(res.Entries)
	if len(records) == 0 && opts.format == formatText {
		fmt.Fprintln(cmd.ErrOrStderr(), "No new changelog entries.")
		return nil
	}
	return writeRecords(cmd.OutOrStdout(), records, opts.format, opts.plain)
}

// mode picks the input mode from the flags that were set.
func (o *diffOptions) mode() (string, error) {
	var modes []string
	if o.unified != "" {
		modes = append(modes, "unified")
	}
	if o.beforeFile != "" || o.afterFile != "" {
		modes = append(modes, "files")
	}
	if o.path != "" {
		modes = append(modes, "revisions")
	}

	switch {
	case len(modes) == 0:
		return "", clierrors.NewArgumentErrorWithUsage("no input selected",
			"changelog-notify diff --before-file <file> --after-file <file> | --path <file> | --unified <file|->",
			"Choose one of --unified, --before-file/--after-file or --path")
	case len(modes) > 1:
		return "", clierrors.InvalidFlagCombination(strings.Join(modes, " + "),
			"Use only one of --unified, --before-file/--after-file or --path")
	case modes[0] == "files" && o.afterFile == "":
		return "", clierrors.NewArgumentError("--after-file is required with --before-file")
	}
	return modes[0], nil
}

// readOptional reads a file; a missing file reads as empty.
func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", clierrors.FileNotReadable(path, err)
	}
	return string(data), nil
}
