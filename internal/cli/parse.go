package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
	clierrors "github.com/ariel-frischer/changelog-notify/internal/errors"
	"github.com/ariel-frischer/changelog-notify/internal/workflow"
)

type parseOptions struct {
	all         bool
	extra       string
	format      string
	plain       bool
	includeBody bool
}

func newParseCmd(root *rootOptions) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file|url]",
		Short: "Parse changelog entries into JSON records",
		Long: `Parse a changelog and print its entries as structured records.

Input is read from a file, an http(s) URL, or stdin when no argument is
given. By default only the first (latest) entry is printed; use --all for
every entry. One record is printed as a JSON object, several as an array.`,
		Example: `  # Parse the latest entry
  changelog-notify parse CHANGELOG.md

  # Parse all entries from stdin
  cat CHANGELOG.md | changelog-notify parse --all

  # Add custom fields to every record
  changelog-notify parse CHANGELOG.md --extra '{"project":"myapp"}'

  # Colored terminal output
  changelog-notify parse https://example.com/CHANGELOG.md --format text`,
		Args:    positional(cobra.MaximumNArgs(1)),
		GroupID: GroupCore,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			return runParse(cmd, root, opts, source)
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "Parse all entries instead of just the latest")
	cmd.Flags().StringVar(&opts.extra, "extra", "", "JSON object merged into every record")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "Output format: json or text")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Plain text output (no colors/icons)")
	cmd.Flags().BoolVar(&opts.includeBody, "include-body", false, "Add the raw entry text as bodyRaw")

	return cmd
}

func runParse(cmd *cobra.Command, root *rootOptions, opts *parseOptions, source string) error {
	extra, err := parseExtra(opts.extra)
	if err != nil {
		return err
	}

	input, err := readSource(cmd.Context(), cmd.InOrStdin(), source)
	if err != nil {
		return err
	}
	if strings.TrimSpace(input) == "" {
		return clierrors.NoInputProvided()
	}

	x, err := root.extractor()
	if err != nil {
		return err
	}

	res := x.Entries(cmd.Context(), input)
	logFallback(root.log, res)
	if len(res.Entries) == 0 {
		return clierrors.NoEntriesFound(x.Splitter().Pattern())
	}

	records := changelog.NewRecords(res.Entries)
	if !opts.all {
		records = []changelog.Record{*changelog.Latest(records)}
	}

	for i := range records {
		records[i].Merge(extra)
		if opts.includeBody {
			records[i].Set(workflow.KeyBodyRaw, records[i].Entry.Text)
		}
	}

	root.log.Debug().Int("entries", len(res.Entries)).Int("printed", len(records)).Msg("parsed changelog")
	return writeRecords(cmd.OutOrStdout(), records, opts.format, opts.plain)
}
