package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
	clierrors "github.com/ariel-frischer/changelog-notify/internal/errors"
)

// defaultChangelog is read when no file is given.
const defaultChangelog = "CHANGELOG.md"

func newExtractCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <version> [file|url]",
		Short: "Extract release notes for a specific version",
		Long: `Extract release notes for a specific version in markdown format.

This command outputs the sections of one changelog entry in a format
suitable for GitHub release notes. The output is written to stdout.

The entry whose header carries the version is selected; a leading v is
optional. "unreleased" selects an Unreleased entry.`,
		Example: `  changelog-notify extract v0.6.0                 # Notes for 0.6.0 from CHANGELOG.md
  changelog-notify extract 0.6.0 docs/CHANGES.md  # Same, from another file
  changelog-notify extract unreleased             # Unreleased changes`,
		Args:    positional(cobra.RangeArgs(1, 2)),
		GroupID: GroupCore,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := defaultChangelog
			if len(args) == 2 {
				source = args[1]
			}
			return runExtract(cmd, root, args[0], source)
		},
	}
}

func runExtract(cmd *cobra.Command, root *rootOptions, version, source string) error {
	input, err := readSource(cmd.Context(), cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	x, err := root.extractor()
	if err != nil {
		return err
	}

	res := x.Entries(cmd.Context(), input)
	logFallback(root.log, res)

	records := changelog.NewRecords(res.Entries)
	r, err := changelog.FindVersion(records, version)
	if err != nil {
		var notFound *changelog.VersionNotFoundError
		if errors.As(err, &notFound) {
			return clierrors.VersionNotFound(err)
		}
		return fmt.Errorf("finding version: %w", err)
	}

	notes, err := changelog.RenderMarkdownString(r)
	if err != nil {
		return fmt.Errorf("rendering release notes: %w", err)
	}
	if notes == "" {
		root.log.Warn().Str("header", r.Entry.Header).Msg("entry has no bullets")
	}
	_, err = io.WriteString(cmd.OutOrStdout(), notes)
	return err
}
