// Package output prints short colored status lines for interactive runs.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// RunSummary holds the counts reported at the end of a notify run.
type RunSummary struct {
	Files     int
	Entries   int
	Delivered int
	Failed    int
	DryRun    bool
}

// PrintRunSummary prints one line describing a finished run. A run with
// failed deliveries gets a yellow warning mark instead of a green check.
func PrintRunSummary(out io.Writer, s RunSummary) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	switch {
	case s.Files == 0:
		fmt.Fprintf(out, "%s %s\n", dim("-"), "No changed changelog files")
	case s.Entries == 0:
		fmt.Fprintf(out, "%s No new entries in %s\n", dim("-"), plural(s.Files, "file"))
	case s.DryRun:
		fmt.Fprintf(out, "%s Printed %s from %s\n", green("✓"), plural(s.Entries, "entry"), plural(s.Files, "file"))
	case s.Failed > 0:
		fmt.Fprintf(out, "%s Delivered %d of %s (%d failed)\n",
			yellow("!"), s.Delivered, plural(s.Entries, "entry"), s.Failed)
	default:
		fmt.Fprintf(out, "%s Delivered %s from %s\n", green("✓"), plural(s.Entries, "entry"), plural(s.Files, "file"))
	}
}

// PrintWatching prints the files a watch session follows.
func PrintWatching(out io.Writer, files []string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s %s\n", cyan("→ Watching"), plural(len(files), "file"), dim("(Ctrl+C to stop)"))
	for _, f := range files {
		fmt.Fprintf(out, "  %s\n", f)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	if word == "entry" {
		return fmt.Sprintf("%d entries", n)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
