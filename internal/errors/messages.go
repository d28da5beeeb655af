package errors

import "fmt"

// Common error messages for the changelog-notify CLI.
// These templates ensure consistent, actionable error messages.

// MissingWebhookURL creates an error for a notify run without a webhook.
func MissingWebhookURL() *CLIError {
	return New(Configuration,
		"WEBHOOK_URL is required",
		"Set WEBHOOK_URL or CHANGELOG_NOTIFY_WEBHOOK_URL in the environment",
		"Or set webhook_url in .changelog-notify.yml",
		"Use --dry-run to print payloads without delivering them",
	)
}

// InvalidHeaderPattern creates an error for an entry separator that does not compile.
func InvalidHeaderPattern(pattern string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("invalid entry separator regex %q", pattern),
		"Check the pattern with a Go (RE2) regular expression tester",
		"The default pattern is ^##\\s+.*$",
	)
}

// InvalidExtraJSON creates an error for a --extra value that is not a JSON object.
func InvalidExtraJSON(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"invalid --extra JSON",
		"Pass a JSON object, e.g. --extra '{\"env\":\"prod\"}'",
	).WithUsage("changelog-notify parse [file] --extra '<json object>'")
}

// NoInputProvided creates an error when neither a file nor stdin has content.
func NoInputProvided() *CLIError {
	return NewArgumentErrorWithUsage(
		"no input provided",
		"changelog-notify parse [file|url]",
		"Pass a changelog path or URL as an argument",
		"Or pipe content on stdin: cat CHANGELOG.md | changelog-notify parse",
	)
}

// NoEntriesFound creates an error when the separator matched nothing.
func NoEntriesFound(pattern string) *CLIError {
	return New(Runtime,
		fmt.Sprintf("no changelog entries found (separator %q)", pattern),
		"Check that version headings match the separator",
		"Override it with --pattern or ENTRY_SEPARATOR_REGEX",
	)
}

// FileNotReadable creates an error when an input file cannot be read.
func FileNotReadable(path string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("cannot read %s", path),
		"Check that the file exists: ls -la "+path,
		"Check file permissions",
	)
}

// VersionNotFound creates an error when extract cannot find a version.
func VersionNotFound(err error) *CLIError {
	return Wrap(err, Argument,
		"Versions are matched with or without a leading v (1.2.0 or v1.2.0)",
		"List entries with: changelog-notify parse --all --format text",
	)
}

// ConfigParseError creates an error for invalid config file format.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse config file: %s", path),
		"Check the file for YAML syntax errors",
		"Remove the file to fall back to defaults and environment",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'changelog-notify <command> --help' to see valid options",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository(err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		"not a git repository",
		"Run from inside the repository whose changelog should be read",
		"In GitHub Actions, run actions/checkout with fetch-depth: 2 or more",
	)
}
