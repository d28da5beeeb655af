package changelog

import "regexp"

// DefaultHeaderPattern matches a second-level heading line ("## ...").
const DefaultHeaderPattern = `^##\s+.*$`

// DefaultMarker is the heading marker used when rebuilding headers from
// structured parser output.
const DefaultMarker = "##"

// Heuristic patterns. Each one is a named variable so dialect support can be
// added alongside without touching the others.
var (
	// SubheadingPattern matches a section heading inside an entry ("### Added").
	SubheadingPattern = regexp.MustCompile(`^###\s+`)

	// BulletPattern matches a dash, star or plus bullet marker.
	BulletPattern = regexp.MustCompile(`^[-*+]\s+`)

	// NumberedPattern matches a numbered list marker ("1. ").
	NumberedPattern = regexp.MustCompile(`^\d+\.\s+`)

	// VersionPattern matches a semver-shaped token with an optional
	// pre-release or build suffix. The version is the first group.
	VersionPattern = regexp.MustCompile(`\b(\d+\.\d+\.\d+(?:[-+A-Za-z0-9.]+)?)\b`)

	// DatePattern matches YYYY-MM-DD or YYYY/MM/DD.
	DatePattern = regexp.MustCompile(`(\d{4}[-/]\d{2}[-/]\d{2})`)

	// lineBreak splits entry text into lines, accepting CRLF.
	lineBreak = regexp.MustCompile(`\r?\n`)
)
