package cli

import (
	"os"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/changelog-notify/internal/errors"
	"github.com/ariel-frischer/changelog-notify/internal/git"
	"github.com/ariel-frischer/changelog-notify/internal/notify"
	"github.com/ariel-frischer/changelog-notify/internal/output"
	"github.com/ariel-frischer/changelog-notify/internal/progress"
	"github.com/ariel-frischer/changelog-notify/internal/workflow"
)

type notifyOptions struct {
	dryRun bool
	repo   string
	before string
	after  string
}

func newNotifyCmd(root *rootOptions) *cobra.Command {
	opts := &notifyOptions{}

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Deliver changelog entries added by a change to a webhook",
		Long: `Find the changelog files changed between two revisions, extract the entries
whose header lines were added, and deliver each one as a JSON payload.

Changed files are filtered with file_globs (FILE_GLOBS). Each payload
carries filePath, commit, header, version, date and sections, plus project
and GitHub context and any EXTRA_BODY_JSON fields. A failed delivery is
logged and the remaining entries are still sent.

With --dry-run payloads are printed instead and no webhook is required.`,
		Example: `  # In GitHub Actions (range from GITHUB_EVENT_BEFORE..GITHUB_SHA)
  changelog-notify notify

  # Preview the payloads of the last commit
  changelog-notify notify --dry-run --before HEAD~1 --after HEAD`,
		Args:    positional(cobra.NoArgs),
		GroupID: GroupCore,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNotify(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print payloads instead of delivering them")
	cmd.Flags().StringVar(&opts.repo, "repo", ".", "Repository directory")
	cmd.Flags().StringVar(&opts.before, "before", "", "Older revision (default: BEFORE or GITHUB_EVENT_BEFORE)")
	cmd.Flags().StringVar(&opts.after, "after", "", "Newer revision (default: AFTER or GITHUB_SHA)")

	return cmd
}

func runNotify(cmd *cobra.Command, root *rootOptions, opts *notifyOptions) error {
	cfg := root.cfg
	if !opts.dryRun && cfg.WebhookURL == "" {
		return clierrors.MissingWebhookURL()
	}

	x, err := root.extractor()
	if err != nil {
		return err
	}

	reader, err := git.Open(opts.repo, root.log)
	if err != nil {
		return clierrors.GitNotRepository(err)
	}

	payload := workflow.PayloadOptionsFromConfig(cfg)
	if opts.before != "" {
		payload.Before = opts.before
	}
	if opts.after != "" {
		payload.After = opts.after
	}

	var (
		sender   notify.Sender
		reporter workflow.Reporter
	)
	if opts.dryRun {
		sender = notify.NewConsoleSender(cmd.OutOrStdout())
	} else {
		sender, err = newWebhookSender(root)
		if err != nil {
			return err
		}
		reporter = progress.NewSpinner(cmd.ErrOrStderr(), progress.DetectTerminalCapabilities(os.Stderr))
	}

	p := workflow.NewProcessor(reader, x, sender, workflow.Options{
		FileGlobs: cfg.FileGlobs,
		Payload:   payload,
		Logger:    root.log,
		Progress:  reporter,
	})

	sum, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}
	output.PrintRunSummary(cmd.ErrOrStderr(), output.RunSummary{
		Files:     sum.Files,
		Entries:   sum.Entries,
		Delivered: sum.Delivered,
		Failed:    sum.Failed,
		DryRun:    opts.dryRun,
	})
	return nil
}

// newWebhookSender builds the configured webhook sender.
func newWebhookSender(root *rootOptions) (*notify.WebhookSender, error) {
	cfg := root.cfg
	s, err := notify.NewWebhookSender(cfg.WebhookURL,
		notify.WithMethod(cfg.HTTPMethod),
		notify.WithHeaders(cfg.Headers),
		notify.WithTimeout(cfg.WebhookTimeout),
		notify.WithLogger(root.log),
	)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "invalid webhook URL",
			"WEBHOOK_URL must be an absolute http or https URL")
	}
	return s, nil
}
