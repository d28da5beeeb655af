package changelog

// ExtractVersionAndDate finds the first semver-shaped token and the first
// date-shaped token in a header line. Both lookups are lexical and
// independent; either may be missing.
func ExtractVersionAndDate(headerLine string) Metadata {
	var meta Metadata
	if m := VersionPattern.FindStringSubmatch(headerLine); m != nil {
		meta.Version = m[1]
	}
	if m := DatePattern.FindStringSubmatch(headerLine); m != nil {
		meta.Date = m[1]
	}
	return meta
}
