package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-notify/internal/build"
)

func newVersionCmd() *cobra.Command {
	var plain, asJSON bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for changelog-notify",
		Example: `  # Show version info
  changelog-notify version

  # Plain output (for scripts)
  changelog-notify version --plain`,
		Args:        positional(cobra.NoArgs),
		GroupID:     GroupInternal,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := build.Get()
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case plain:
				printPlainVersion(out, info)
			default:
				printPrettyVersion(out, info)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer, info build.Info) {
	fmt.Fprintf(w, "changelog-notify %s\n", info.Version)
	fmt.Fprintf(w, "commit: %s\n", info.Commit)
	fmt.Fprintf(w, "built: %s\n", info.BuildDate)
	fmt.Fprintf(w, "go: %s\n", info.GoVersion)
	fmt.Fprintf(w, "platform: %s\n", info.Platform)
}

// printPrettyVersion prints labelled, colored version information.
func printPrettyVersion(w io.Writer, info build.Info) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if build.IsDevBuild() {
		fmt.Fprintf(w, "%s %s %s\n\n", cyan("changelog-notify"), info.Version, dim("(development build)"))
	} else {
		fmt.Fprintf(w, "%s %s\n\n", cyan("changelog-notify"), info.Version)
	}
	rows := []struct {
		label string
		value string
	}{
		{"Commit", info.ShortCommit()},
		{"Built", info.BuildDate},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %s  %s\n", yellow(fmt.Sprintf("%-8s", row.label)), row.value)
	}
	fmt.Fprintf(w, "\n%s\n", dim(build.SourceURL))
}
