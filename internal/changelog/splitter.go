package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternError is returned when a header pattern does not compile.
// It is the only error the parsing core raises: no safe fallback pattern
// can be assumed for a malformed one.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid header pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Splitter partitions a document into entries at lines matching a header
// pattern. A Splitter holds no per-call state and may be reused.
type Splitter struct {
	pattern string
	re      *regexp.Regexp
}

// NewSplitter compiles pattern in multi-line mode, so ^ and $ match at line
// boundaries. Returns a *PatternError if the pattern is invalid.
func NewSplitter(pattern string) (*Splitter, error) {
	re, err := regexp.Compile("(?m)" + pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return &Splitter{pattern: pattern, re: re}, nil
}

// Pattern returns the pattern the splitter was built from.
func (s *Splitter) Pattern() string {
	return s.pattern
}

// Split returns the entries of content in document order. Each entry runs
// from the start of its header match to the start of the next match, or to
// the end of content. No matches, or empty content, yields no entries.
func (s *Splitter) Split(content string) []Entry {
	if content == "" {
		return []Entry{}
	}

	matches := s.re.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return []Entry{}
	}

	entries := make([]Entry, 0, len(matches))
	for i, m := range matches {
		start := m[0]
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		entries = append(entries, Entry{
			Header: strings.TrimSpace(lineAt(content, start)),
			Text:   strings.TrimSpace(content[start:end]),
		})
	}
	return entries
}

// Split is the one-shot form of NewSplitter followed by Splitter.Split.
// Empty content returns before the pattern is compiled.
func Split(content, pattern string) ([]Entry, error) {
	if content == "" {
		return []Entry{}, nil
	}
	s, err := NewSplitter(pattern)
	if err != nil {
		return nil, err
	}
	return s.Split(content), nil
}

// lineAt returns the full line containing byte offset idx, without its
// line terminator.
func lineAt(text string, idx int) string {
	if idx > len(text) {
		idx = len(text)
	}
	start := 0
	if idx < len(text) {
		start = strings.LastIndexByte(text[:idx+1], '\n') + 1
	} else {
		start = strings.LastIndexByte(text, '\n') + 1
	}
	end := len(text)
	if rel := strings.IndexByte(text[idx:], '\n'); rel >= 0 {
		end = idx + rel
	}
	if end < start {
		return ""
	}
	return text[start:end]
}
