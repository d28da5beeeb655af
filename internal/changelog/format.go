package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// SectionStyle defines the color and icon for a section heading.
type SectionStyle struct {
	Color *color.Color
	Icon  string
}

// sectionStyles maps the conventional Keep a Changelog section names to
// their terminal styling. Unknown names use defaultStyle.
var sectionStyles = map[string]SectionStyle{
	"added":      {Color: color.New(color.FgGreen), Icon: "✓"},
	"changed":    {Color: color.New(color.FgBlue), Icon: "~"},
	"deprecated": {Color: color.New(color.FgRed), Icon: "⚠"},
	"removed":    {Color: color.New(color.FgRed), Icon: "✗"},
	"fixed":      {Color: color.New(color.FgYellow), Icon: "⚡"},
	"security":   {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

var defaultStyle = SectionStyle{Color: color.New(color.FgCyan), Icon: "•"}

// styleFor returns the style for a section name, case-insensitively.
func styleFor(name string) SectionStyle {
	if s, ok := sectionStyles[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s
	}
	return defaultStyle
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes records to the writer with terminal styling.
// Each record is printed as its header followed by color-coded sections.
func FormatTerminal(records []Record, w io.Writer, opts FormatOptions) error {
	if len(records) == 0 {
		return nil
	}

	width := resolveWidth(opts.MaxWidth)

	for i := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := FormatRecord(&records[i], w, opts, width); err != nil {
			return fmt.Errorf("formatting %q: %w", records[i].Entry.Header, err)
		}
	}

	return nil
}

// FormatRecord writes a single record's header and sections.
func FormatRecord(r *Record, w io.Writer, opts FormatOptions, width int) error {
	if err := writeRecordHeader(r, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, name := range r.Sections.Names() {
		bullets, _ := r.Sections.Get(name)
		if len(bullets) == 0 {
			continue
		}
		if err := writeSection(name, bullets, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeRecordHeader writes the record's header line with version and date
// when they were recognised.
func writeRecordHeader(r *Record, w io.Writer, opts FormatOptions) error {
	header := r.Entry.Header
	switch {
	case r.Metadata.HasVersion() && r.Metadata.HasDate():
		header = fmt.Sprintf("v%s (%s)", r.Metadata.Version, r.Metadata.Date)
	case r.Metadata.HasVersion():
		header = fmt.Sprintf("v%s", r.Metadata.Version)
	case r.IsUnreleased():
		header = "Unreleased"
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", strings.TrimLeft(strings.TrimPrefix(header, "##"), " "))
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(strings.TrimLeft(strings.TrimPrefix(header, "##"), " ")))
	return err
}

// writeSection writes one section heading and its bullets. Root bullets
// are written without a heading.
func writeSection(name string, bullets []string, w io.Writer, opts FormatOptions, width int) error {
	style := styleFor(name)

	if name != RootSection {
		if err := writeSectionHeader(name, style, w, opts); err != nil {
			return err
		}
	}

	for _, b := range bullets {
		if err := writeBullet(b, style, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeSectionHeader writes the section header line.
func writeSectionHeader(name string, style SectionStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", name)
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(name))
	return err
}

// writeBullet writes a single bullet with optional wrapping.
func writeBullet(text string, style SectionStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	wrapped := wrapText(text, width-len(prefix), "    ")

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
