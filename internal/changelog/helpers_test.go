package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

func regexpQuote(s string) string {
	return regexp.QuoteMeta(s)
}

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

// generateChangelog builds a Markdown changelog with the given number of
// versions, newest first, each carrying bullets spread across sections.
func generateChangelog(versions, bulletsPerVersion int) string {
	sections := []string{"Added", "Changed", "Fixed", "Removed", "Deprecated", "Security"}

	var b strings.Builder
	b.WriteString("# Changelog\n\n")
	for v := versions; v >= 1; v-- {
		fmt.Fprintf(&b, "## [%d.0.0] - 2024-%02d-%02d\n", v, (v%12)+1, (v%28)+1)
		for i := 0; i < bulletsPerVersion; i++ {
			if i%2 == 0 {
				fmt.Fprintf(&b, "\n### %s\n", sections[(i/2)%len(sections)])
			}
			fmt.Fprintf(&b, "- Entry %d with some description text\n", i+1)
		}
		b.WriteString("\n")
	}
	return b.String()
}
