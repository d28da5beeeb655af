package changelog

import (
	"fmt"
	"strings"
)

// VersionNotFoundError is returned when no record carries a requested version.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	if len(e.AvailableVersions) == 0 {
		return fmt.Sprintf("version %q not found (no versioned entries)", e.Version)
	}
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// NormalizeVersion normalizes a version string by removing the "v" prefix.
// This allows accepting both "v0.6.0" and "0.6.0" as input.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}

// FindVersion returns the first record whose extracted version matches.
// "unreleased" matches the first record whose header carries no version and
// mentions Unreleased.
func FindVersion(records []Record, version string) (*Record, error) {
	normalized := NormalizeVersion(version)

	for i := range records {
		r := &records[i]
		if r.Metadata.HasVersion() && NormalizeVersion(r.Metadata.Version) == normalized {
			return r, nil
		}
		if normalized == "unreleased" && r.IsUnreleased() {
			return r, nil
		}
	}

	return nil, &VersionNotFoundError{
		Version:           version,
		AvailableVersions: ListVersions(records),
	}
}

// IsUnreleased returns true if the record has no version and its header
// names the Unreleased section.
func (r Record) IsUnreleased() bool {
	return !r.Metadata.HasVersion() &&
		strings.Contains(strings.ToLower(r.Entry.Header), "unreleased")
}

// ListVersions returns the versions of all records that have one, in
// document order.
func ListVersions(records []Record) []string {
	versions := make([]string, 0, len(records))
	for _, r := range records {
		if r.Metadata.HasVersion() {
			versions = append(versions, r.Metadata.Version)
		}
	}
	return versions
}

// Latest returns the first record, which is the newest by changelog
// convention. Returns nil for no records.
func Latest(records []Record) *Record {
	if len(records) == 0 {
		return nil
	}
	return &records[0]
}

// CountBullets returns the total number of bullets across records.
func CountBullets(records []Record) int {
	n := 0
	for _, r := range records {
		n += r.Sections.Count()
	}
	return n
}
