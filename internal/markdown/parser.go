// Package markdown provides a structured changelog parser built on the
// goldmark Markdown AST. Versions are delimited by top-level level-2
// headings, in either ATX ("## 1.0.0") or setext form.
package markdown

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
)

// VersionLevel is the heading level that delimits versions.
const VersionLevel = 2

// trailingDate matches a date at the end of a heading title, optionally
// preceded by a dash and optionally wrapped in parentheses.
var trailingDate = regexp.MustCompile(`\s*(?:[-–—]\s*)?\(?(\d{4}[-/]\d{2}[-/]\d{2})\)?\s*$`)

// Parser implements changelog.StructuredParser.
type Parser struct {
	md goldmark.Markdown
}

// New returns a Parser using goldmark's default CommonMark parser.
func New() *Parser {
	return &Parser{md: goldmark.New()}
}

// Adapter returns a changelog.Available adapter backed by a new Parser.
func Adapter() changelog.Available {
	return changelog.Available{Parser: New(), Marker: changelog.DefaultMarker}
}

// Parse walks the top-level blocks of src and returns one version per
// level-2 heading. Content before the first such heading is dropped.
func (p *Parser) Parse(ctx context.Context, src string) (*changelog.ParsedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := []byte(src)
	doc := p.md.Parser().Parse(text.NewReader(source))

	type mark struct {
		title     string
		lineStart int
		bodyStart int
	}
	var marks []mark

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != VersionLevel || h.Lines().Len() == 0 {
			continue
		}
		first := h.Lines().At(0)
		last := h.Lines().At(h.Lines().Len() - 1)

		start := lineStart(source, first.Start)
		end := lineEnd(source, start)
		if isSetext(source, start) {
			// content lines, then the underline
			end = lineEnd(source, lineEnd(source, lineStart(source, last.Start)))
		}

		marks = append(marks, mark{
			title:     headingTitle(h, source),
			lineStart: start,
			bodyStart: end,
		})
	}

	out := &changelog.ParsedDocument{Versions: make([]changelog.ParsedVersion, 0, len(marks))}
	for i, m := range marks {
		stop := len(source)
		if i+1 < len(marks) {
			stop = marks[i+1].lineStart
		}
		bodyStart := m.bodyStart
		if bodyStart > stop {
			bodyStart = stop
		}
		out.Versions = append(out.Versions, newVersion(m.title, string(source[bodyStart:stop])))
	}
	return out, nil
}

// newVersion splits a trailing date off the title and looks up the version.
func newVersion(title, body string) changelog.ParsedVersion {
	v := changelog.ParsedVersion{Title: title, Body: body}
	if loc := trailingDate.FindStringSubmatchIndex(title); loc != nil {
		v.Date = title[loc[2]:loc[3]]
		v.Title = strings.TrimSpace(title[:loc[0]])
	}
	if m := changelog.VersionPattern.FindStringSubmatch(v.Title); m != nil {
		v.Version = m[1]
	}
	return v
}

// headingTitle returns the raw source of a heading's content, keeping link
// and emphasis markup as written.
func headingTitle(h *ast.Heading, source []byte) string {
	var b bytes.Buffer
	lines := h.Lines()
	for i := 0; i < lines.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		seg := lines.At(i)
		b.Write(bytes.TrimSpace(seg.Value(source)))
	}
	return strings.TrimSpace(b.String())
}

// lineStart returns the offset of the first byte of the line containing pos.
func lineStart(source []byte, pos int) int {
	if pos > len(source) {
		pos = len(source)
	}
	return bytes.LastIndexByte(source[:pos], '\n') + 1
}

// lineEnd returns the offset just past the newline ending the line that
// contains pos, or len(source).
func lineEnd(source []byte, pos int) int {
	if pos >= len(source) {
		return len(source)
	}
	if i := bytes.IndexByte(source[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(source)
}

// isSetext reports whether the heading line at start is not an ATX line.
func isSetext(source []byte, start int) bool {
	line := source[start:]
	trimmed := bytes.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return true
	}
	return !bytes.HasPrefix(trimmed, []byte("#"))
}
