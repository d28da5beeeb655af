// Package cli implements the changelog-notify command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
	"github.com/ariel-frischer/changelog-notify/internal/config"
	clierrors "github.com/ariel-frischer/changelog-notify/internal/errors"
	"github.com/ariel-frischer/changelog-notify/internal/logging"
	"github.com/ariel-frischer/changelog-notify/internal/markdown"
)

// Command group IDs for help output organization
const (
	GroupCore     = "core"
	GroupInternal = "internal"
)

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

// rootOptions holds the persistent flags and the state they produce.
type rootOptions struct {
	configPath string
	debug      bool
	logFormat  string
	pattern    string
	structured bool

	cfg *config.Configuration
	log zerolog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "changelog-notify",
		Short: "Extract new changelog entries and deliver them as JSON",
		Long: `changelog-notify finds the changelog entries added by a change and turns
each one into a structured JSON record (header, version, date, sections).

Records can be printed, or delivered to a webhook one request per entry.
In GitHub Actions the revision range comes from GITHUB_EVENT_BEFORE and
GITHUB_SHA; the action's inputs (WEBHOOK_URL, FILE_GLOBS, ...) are read from
the environment.

Configuration precedence (highest to lowest):
  1. Command-line flags
  2. CHANGELOG_NOTIFY_* environment variables
  3. Action variables (WEBHOOK_URL, FILE_GLOBS, ...)
  4. GitHub variables (GITHUB_SHA, GITHUB_REPOSITORY, ...)
  5. Project config (.changelog-notify.yml)
  6. action.yml input defaults
  7. Built-in defaults`,
		Example: `  # Print the latest entry of a changelog as JSON
  changelog-notify parse CHANGELOG.md

  # Print entries added between two commits
  changelog-notify diff --before HEAD~1 --after HEAD --path CHANGELOG.md

  # Deliver entries added by the current push
  WEBHOOK_URL=https://hooks.example.com/x changelog-notify notify`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			return opts.load(cmd)
		},
	}

	cmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupInternal, Title: "Other Commands:"},
	)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: .changelog-notify.yml)")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")
	flags.StringVar(&opts.pattern, "pattern", "", "Entry separator regex (overrides entry_separator_regex)")
	flags.BoolVar(&opts.structured, "structured", false, "Parse with the Markdown AST parser before the regex splitter")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine())
	})

	cmd.AddCommand(
		newParseCmd(opts),
		newDiffCmd(opts),
		newNotifyCmd(opts),
		newWatchCmd(opts),
		newExtractCmd(opts),
		newInitCmd(),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the CLI with signal handling and reports errors on stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	reportError(cmd.ErrOrStderr(), err)
	return err
}

// reportError prints err in the categorized format.
func reportError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	clierrors.Fprint(w, err)
}

// load reads configuration, applying persistent flags as overrides, and
// builds the logger.
func (o *rootOptions) load(cmd *cobra.Command) error {
	overrides := map[string]any{}
	if o.pattern != "" {
		overrides["entry_separator_regex"] = o.pattern
	}
	if o.structured {
		overrides["structured_parser"] = true
	}
	if o.debug {
		overrides["log.level"] = string(logging.LevelDebug)
	}
	if o.logFormat != "" {
		overrides["log.format"] = o.logFormat
	}

	stderr := cmd.ErrOrStderr()
	boot := logging.New(logging.Config{
		Level:   logging.LevelWarn,
		Format:  logging.FormatConsole,
		NoColor: color.NoColor,
	}, stderr)

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: o.configPath,
		Overrides:         overrides,
		Logger:            boot,
	})
	if err != nil {
		return configError(err)
	}

	cfg.Log.NoColor = color.NoColor
	o.cfg = cfg
	o.log = logging.New(cfg.Log, stderr)
	o.log.Debug().
		Str("file_globs", cfg.FileGlobs).
		Str("separator", cfg.EntrySeparatorRegex).
		Bool("structured", cfg.StructuredParser).
		Msg("configuration loaded")
	return nil
}

// configError classifies a configuration load failure.
func configError(err error) error {
	var patternErr *changelog.PatternError
	if errors.As(err, &patternErr) {
		return clierrors.InvalidHeaderPattern(patternErr.Pattern, err)
	}
	var validationErr *config.ValidationError
	if errors.As(err, &validationErr) && validationErr.Line > 0 {
		return clierrors.ConfigParseError(validationErr.FilePath, err)
	}
	return clierrors.WrapWithMessage(err, clierrors.Configuration, "invalid configuration",
		"Check .changelog-notify.yml and the CHANGELOG_NOTIFY_* and action variables",
		"Run 'changelog-notify init' to write a documented config file",
	)
}

// extractor builds the entry extractor selected by configuration.
func (o *rootOptions) extractor() (*changelog.Extractor, error) {
	var adapter changelog.Adapter
	if o.cfg.StructuredParser {
		adapter = markdown.Adapter()
	}
	x, err := changelog.NewExtractor(o.cfg.EntrySeparatorRegex, adapter)
	if err != nil {
		return nil, clierrors.InvalidHeaderPattern(o.cfg.EntrySeparatorRegex, err)
	}
	return x, nil
}

// positional wraps an argument validator so its failures are argument errors.
func positional(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
		}
		return nil
	}
}
