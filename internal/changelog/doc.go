// Package changelog extracts structured entries from Markdown changelogs.
//
// This package implements:
//   - Entry splitting on a configurable heading pattern
//   - An optional structured parser with a lenient fallback
//   - Section (bullet) grouping under ### sub-headings
//   - Version and date extraction from entry headers
//   - Diffing two snapshots, or an insertion blob, for newly added entries
//   - Terminal and Markdown rendering of extracted records
//
// Nothing in this package logs or touches global state. Fallbacks are reported
// through SplitResult so callers decide how to surface them.
package changelog
