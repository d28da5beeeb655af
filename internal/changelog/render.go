package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderMarkdown writes the sections of a record as Markdown release notes.
// Root bullets come first without a heading; each named section follows as
// a ### heading. Empty sections are omitted.
//
// The function is idempotent - given the same input, it produces identical output.
func RenderMarkdown(r *Record, w io.Writer) error {
	first := true
	for _, name := range r.Sections.Names() {
		bullets, _ := r.Sections.Get(name)
		if len(bullets) == 0 {
			continue
		}

		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false

		if name != RootSection {
			if _, err := fmt.Fprintf(w, "### %s\n", name); err != nil {
				return err
			}
		}
		for _, b := range bullets {
			if _, err := fmt.Fprintf(w, "- %s\n", b); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(r *Record) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(r, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
