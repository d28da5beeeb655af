package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-notify/internal/config"
	clierrors "github.com/ariel-frischer/changelog-notify/internal/errors"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a documented project config file",
		Long: `Write a project config file listing every option with its default.

The file is written to .changelog-notify.yml unless a path is given. An
existing file is left unchanged (use --force to overwrite).`,
		Example: `  changelog-notify init
  changelog-notify init ci/changelog-notify.yml --force`,
		Args:        positional(cobra.MaximumNArgs(1)),
		GroupID:     GroupInternal,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			return runInit(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func runInit(cmd *cobra.Command, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s already exists (use --force to overwrite)\n",
			color.YellowString("!"), path)
		return nil
	}

	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "writing config file",
			"Check that the directory exists and is writable")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", color.GreenString("✓"), path)
	return nil
}
