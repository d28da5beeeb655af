package config

import "time"

// Default values shared with action.yml.
const (
	DefaultFileGlobs      = "CHANGELOG.md,**/CHANGELOG.md,**/changelog.md,**/CHANGELOG*.md,**/changelog*.md"
	DefaultSeparator      = `^##\s+.*$`
	DefaultHTTPMethod     = "POST"
	DefaultServerURL      = "https://github.com"
	DefaultWebhookTimeout = 30 * time.Second
)

// GetDefaultConfigTemplate returns a fully commented project config
// template that documents every available option.
func GetDefaultConfigTemplate() string {
	return `# changelog-notify configuration
# Environment variables override these values (see README).

# Which changed files are treated as changelogs (comma-separated globs)
file_globs: "CHANGELOG.md,**/CHANGELOG.md,**/changelog.md,**/CHANGELOG*.md,**/changelog*.md"

# Regex matching a version heading line
entry_separator_regex: "^##\\s+.*$"

# Use the Markdown AST parser before the regex splitter
structured_parser: false

# Delivery
webhook_url: ""                       # Required for notify (unless --dry-run)
webhook_headers_json: ""              # JSON object of extra request headers
extra_body_json: ""                   # JSON object merged into every payload
http_method: POST                     # GET | POST | PUT | PATCH
webhook_timeout: 30s
include_body_raw: false               # Add the entry's raw text as bodyRaw
include_github_context: true          # Add a github{} block to payloads

# Project context (derived from GITHUB_REPOSITORY when empty)
project_name: ""
project_owner: ""
repository_url: ""

# Logging
log:
  level: info                         # debug | info | warn | error
  format: console                     # console | json
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"file_globs":             DefaultFileGlobs,
		"entry_separator_regex":  DefaultSeparator,
		"structured_parser":      false,
		"webhook_url":            "",
		"webhook_headers_json":   "",
		"extra_body_json":        "",
		"http_method":            DefaultHTTPMethod,
		"webhook_timeout":        DefaultWebhookTimeout.String(),
		"include_body_raw":       "false",
		"include_github_context": "true",
		"before":                 "",
		"after":                  "",
		"project_name":           "",
		"project_owner":          "",
		"repository_url":         "",
		"github.server_url":      DefaultServerURL,
		"log.level":              "info",
		"log.format":             "console",
	}
}
