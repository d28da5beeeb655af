package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-notify/internal/notify"
	"github.com/ariel-frischer/changelog-notify/internal/output"
	"github.com/ariel-frischer/changelog-notify/internal/progress"
	"github.com/ariel-frischer/changelog-notify/internal/workflow"
)

type watchOptions struct {
	dryRun bool
}

func newWatchCmd(root *rootOptions) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <file>...",
		Short: "Deliver entries as they are added to local changelog files",
		Long: `Watch changelog files and deliver every entry added to them.

On each save the file is compared with its previous content; entries whose
header is new are delivered to the configured webhook, or printed when no
webhook is configured or --dry-run is set. Stops on Ctrl+C.`,
		Example: `  changelog-notify watch CHANGELOG.md
  changelog-notify watch --dry-run CHANGELOG.md packages/*/CHANGELOG.md`,
		Args:    positional(cobra.MinimumNArgs(1)),
		GroupID: GroupCore,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print payloads instead of delivering them")

	return cmd
}

func runWatch(cmd *cobra.Command, root *rootOptions, opts *watchOptions, paths []string) error {
	x, err := root.extractor()
	if err != nil {
		return err
	}

	var (
		sender   notify.Sender
		reporter workflow.Reporter
	)
	if opts.dryRun || root.cfg.WebhookURL == "" {
		if !opts.dryRun {
			root.log.Info().Msg("no webhook configured, printing payloads")
		}
		sender = notify.NewConsoleSender(cmd.OutOrStdout())
	} else {
		sender, err = newWebhookSender(root)
		if err != nil {
			return err
		}
		reporter = progress.NewSpinner(cmd.ErrOrStderr(), progress.DetectTerminalCapabilities(os.Stderr))
	}

	w := workflow.NewWatcher(x, sender, workflow.Options{
		Payload:  workflow.PayloadOptionsFromConfig(root.cfg),
		Logger:   root.log,
		Progress: reporter,
	})
	output.PrintWatching(cmd.ErrOrStderr(), paths)
	return w.Watch(cmd.Context(), paths...)
}
