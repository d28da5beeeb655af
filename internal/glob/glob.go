// Package glob matches repository paths against the small glob dialect used
// in file filter lists. Only ** crosses directory separators.
package glob

import (
	"regexp"
	"strings"
)

// Pattern is a compiled glob.
type Pattern struct {
	glob string
	re   *regexp.Regexp
}

// Translate converts a glob into an anchored regular expression.
//
//	**  any run of characters, slashes included
//	*   any run of characters except /
//	?   any single character
//
// Every other character, multi-byte ones included, matches itself.
func Translate(glob string) string {
	var b strings.Builder
	b.WriteByte('^')
	pair := false
	for i, r := range glob {
		if pair {
			pair = false
			continue
		}
		switch {
		case r == '*' && i+1 < len(glob) && glob[i+1] == '*':
			b.WriteString(".*")
			pair = true
		case r == '*':
			b.WriteString("[^/]*")
		case r == '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return b.String()
}

// Compile translates and compiles a glob. The translation quotes every
// literal, so compilation cannot fail.
func Compile(glob string) *Pattern {
	return &Pattern{glob: glob, re: regexp.MustCompile(Translate(glob))}
}

// String returns the source glob.
func (p *Pattern) String() string {
	return p.glob
}

// Match reports whether path matches the whole glob.
func (p *Pattern) Match(path string) bool {
	return p.re.MatchString(path)
}

// Split parses a comma-separated glob list, trimming entries and dropping
// empty ones.
func Split(csv string) []string {
	var globs []string
	for _, g := range strings.Split(csv, ",") {
		if g = strings.TrimSpace(g); g != "" {
			globs = append(globs, g)
		}
	}
	return globs
}

// Set is an OR of compiled globs.
type Set []*Pattern

// CompileSet compiles every glob of a comma-separated list.
func CompileSet(csv string) Set {
	var set Set
	for _, g := range Split(csv) {
		set = append(set, Compile(g))
	}
	return set
}

// Match reports whether any pattern matches path. An empty set matches
// everything.
func (s Set) Match(path string) bool {
	if len(s) == 0 {
		return true
	}
	for _, p := range s {
		if p.Match(path) {
			return true
		}
	}
	return false
}

// Filter keeps the paths matched by any glob of the comma-separated list,
// preserving order. An empty list returns paths unchanged.
func Filter(paths []string, csv string) []string {
	set := CompileSet(csv)
	if len(set) == 0 {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if set.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
