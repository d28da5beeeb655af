package changelog

import (
	"strings"
	"unicode"
)

// ParseSections groups the top-level bullets of an entry under their nearest
// preceding ### sub-heading. Bullets before any sub-heading go to the root
// section, which is always present. Prose, blank lines and indented content
// are ignored.
func ParseSections(entryText string) Sections {
	sections := NewSections()
	current := RootSection

	for _, raw := range lineBreak.Split(entryText, -1) {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)

		if SubheadingPattern.MatchString(line) {
			current = strings.TrimSpace(SubheadingPattern.ReplaceAllString(line, ""))
			sections.ensure(current)
			continue
		}

		if BulletPattern.MatchString(line) || NumberedPattern.MatchString(line) {
			bullet := stripBulletMarker(line)
			if bullet != "" {
				sections.add(current, bullet)
			}
		}
	}

	return sections
}

// stripBulletMarker removes one dash/star/plus marker, then one numbered
// marker, and trims the rest.
func stripBulletMarker(line string) string {
	if loc := BulletPattern.FindStringIndex(line); loc != nil {
		line = line[loc[1]:]
	}
	if loc := NumberedPattern.FindStringIndex(line); loc != nil {
		line = line[loc[1]:]
	}
	return strings.TrimSpace(line)
}
