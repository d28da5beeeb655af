package changelog

import (
	"context"
	"errors"
	"strings"
)

// ErrMalformedDocument is reported when a structured parser returns no
// document and no error.
var ErrMalformedDocument = errors.New("structured parser returned no document")

// ParsedVersion is one version block as reported by a structured parser.
// All fields are optional.
type ParsedVersion struct {
	Title   string
	Version string
	Date    string
	Body    string
}

// ParsedDocument is the output of a structured parser.
type ParsedDocument struct {
	Versions []ParsedVersion
}

// StructuredParser is a richer, optional entry extractor. Its output is
// advisory: any failure falls back to the lenient Splitter.
type StructuredParser interface {
	Parse(ctx context.Context, text string) (*ParsedDocument, error)
}

// StructuredParserFunc adapts a function to StructuredParser.
type StructuredParserFunc func(ctx context.Context, text string) (*ParsedDocument, error)

// Parse calls f(ctx, text).
func (f StructuredParserFunc) Parse(ctx context.Context, text string) (*ParsedDocument, error) {
	return f(ctx, text)
}

// SplitResult carries the entries of one split along with how they were
// obtained.
type SplitResult struct {
	Entries []Entry
	// FellBack is true when a structured parser was configured but the
	// lenient splitter produced the entries.
	FellBack bool
	// Err is the parser failure that caused the fallback, if any. A parser
	// that simply recognized nothing falls back with a nil Err.
	Err error
}

// Adapter selects how a document is split into entries. It is chosen once
// at startup: Absent when no structured parser exists, Available otherwise.
type Adapter interface {
	Split(ctx context.Context, content string, splitter *Splitter) SplitResult
}

// Absent always uses the lenient splitter.
type Absent struct{}

// Split delegates to splitter.
func (Absent) Split(_ context.Context, content string, splitter *Splitter) SplitResult {
	return SplitResult{Entries: splitter.Split(content)}
}

// Available tries a structured parser first and falls back to the lenient
// splitter on failure or when the parser recognizes no versions.
type Available struct {
	Parser StructuredParser
	// Marker prefixes rebuilt header lines. Defaults to DefaultMarker.
	Marker string
}

// Split runs the structured parser and maps its versions into entries.
func (a Available) Split(ctx context.Context, content string, splitter *Splitter) SplitResult {
	if content == "" {
		return SplitResult{Entries: []Entry{}}
	}
	if a.Parser == nil {
		return SplitResult{Entries: splitter.Split(content)}
	}

	fallback := func(err error) SplitResult {
		return SplitResult{Entries: splitter.Split(content), FellBack: true, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fallback(err)
	}

	doc, err := a.Parser.Parse(ctx, content)
	if err != nil {
		return fallback(err)
	}
	if doc == nil {
		return fallback(ErrMalformedDocument)
	}
	if len(doc.Versions) == 0 {
		return fallback(nil)
	}

	marker := a.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	entries := make([]Entry, 0, len(doc.Versions))
	for _, v := range doc.Versions {
		entries = append(entries, entryFromParsed(v, marker))
	}
	return SplitResult{Entries: entries}
}

// entryFromParsed rebuilds a header line and entry text from parser output.
func entryFromParsed(v ParsedVersion, marker string) Entry {
	title := v.Title
	if title == "" {
		title = v.Version
	}
	if title == "" {
		title = "Unreleased"
	}

	header := marker + " " + title
	if v.Date != "" {
		header += " - " + v.Date
	}
	header = strings.TrimSpace(header)

	body := strings.TrimSpace(v.Body)
	return Entry{
		Header: header,
		Text:   strings.TrimSpace(header + "\n" + body),
	}
}
