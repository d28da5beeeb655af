// Package config provides layered configuration for changelog-notify using
// koanf. Sources are applied lowest priority first: built-in defaults, the
// running action's action.yml input defaults, the project file
// (.changelog-notify.yml), GitHub event variables, the action's unprefixed
// variables (FILE_GLOBS, WEBHOOK_URL, ...), CHANGELOG_NOTIFY_* variables, and
// finally command-line overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
	"github.com/ariel-frischer/changelog-notify/internal/logging"
)

// EnvPrefix prefixes variables that override every other source.
const EnvPrefix = "CHANGELOG_NOTIFY_"

// GitHubContext is the workflow context attached to payloads.
type GitHubContext struct {
	Repository      string `koanf:"repository" json:"repository"`
	RepositoryOwner string `koanf:"repository_owner" json:"-"`
	Ref             string `koanf:"ref" json:"ref"`
	RefName         string `koanf:"ref_name" json:"refName"`
	Workflow        string `koanf:"workflow" json:"workflow"`
	Actor           string `koanf:"actor" json:"actor"`
	ServerURL       string `koanf:"server_url" json:"-"`
}

// Configuration represents the changelog-notify configuration
type Configuration struct {
	// FileGlobs selects changelog files among the changed files.
	FileGlobs           string `koanf:"file_globs"`
	EntrySeparatorRegex string `koanf:"entry_separator_regex" validate:"required"`
	// StructuredParser enables the Markdown AST parser ahead of the regex
	// splitter.
	StructuredParser bool `koanf:"structured_parser"`

	WebhookURL         string        `koanf:"webhook_url" validate:"omitempty,url"`
	WebhookHeadersJSON string        `koanf:"webhook_headers_json"`
	ExtraBodyJSON      string        `koanf:"extra_body_json"`
	HTTPMethod         string        `koanf:"http_method" validate:"oneof=GET POST PUT PATCH"`
	WebhookTimeout     time.Duration `koanf:"webhook_timeout" validate:"gt=0"`

	IncludeBodyRaw       bool `koanf:"include_body_raw"`
	IncludeGitHubContext bool `koanf:"include_github_context"`

	// Before and After are the revisions bounding the change.
	Before string `koanf:"before"`
	After  string `koanf:"after"`

	ProjectName   string `koanf:"project_name"`
	ProjectOwner  string `koanf:"project_owner"`
	RepositoryURL string `koanf:"repository_url"`

	GitHub GitHubContext  `koanf:"github"`
	Log    logging.Config `koanf:"log"`

	// Headers is WebhookHeadersJSON decoded. Set by Load.
	Headers map[string]string `koanf:"-"`
	// ExtraBody is ExtraBodyJSON decoded. Set by Load.
	ExtraBody map[string]any `koanf:"-"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .changelog-notify.yml).
	// An explicit path must exist.
	ProjectConfigPath string
	// ActionFile overrides the action.yml path (default: $GITHUB_ACTION_PATH/action.yml).
	ActionFile string
	// Overrides are applied last, typically from command-line flags.
	Overrides map[string]any
	// Logger receives warnings about ignored inputs.
	Logger zerolog.Logger
}

// Load loads configuration from all sources with default options.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath, Logger: zerolog.Nop()})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadActionDefaults(k, opts); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("applying override %s: %w", key, err)
		}
	}

	return finalizeConfig(k, opts.Logger)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadActionDefaults applies action.yml input defaults. A missing or
// unreadable action.yml only produces a warning, as the defaults above
// already cover every input.
func loadActionDefaults(k *koanf.Koanf, opts LoadOptions) error {
	path := opts.ActionFile
	if path == "" {
		path = ActionFilePath()
	}
	if path == "" {
		return nil
	}

	defaults, err := LoadActionDefaults(path)
	if err != nil {
		opts.Logger.Warn().Err(err).Msg("could not load action.yml defaults")
		return nil
	}
	for key, value := range defaults {
		if value == "" {
			continue
		}
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("applying action default %s: %w", key, err)
		}
	}
	return nil
}

// loadProjectConfig loads the project YAML file. The default path is
// optional; a path given explicitly must exist.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	path := ProjectConfigPath()
	if customPath != "" {
		path = customPath
		if !fileExists(path) {
			return &ValidationError{FilePath: path, Message: "config file not found"}
		}
	}
	if !fileExists(path) {
		return nil
	}
	return loadYAMLConfig(k, path)
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for project config: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load project config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads the three environment layers in priority order.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	layers := []struct {
		name string
		prov *env.Env
	}{
		{"GitHub", env.ProviderWithValue("GITHUB_", ".", githubTransform)},
		{"action", env.ProviderWithValue("", ".", actionTransform)},
		{"prefixed", env.ProviderWithValue(EnvPrefix, ".", prefixedTransform)},
	}
	for _, l := range layers {
		if err := k.Load(l.prov, nil); err != nil {
			return fmt.Errorf("failed to load %s environment config: %w", l.name, err)
		}
	}
	return nil
}

// githubEnvKeys maps GitHub Actions variables to config keys.
var githubEnvKeys = map[string]string{
	"GITHUB_EVENT_BEFORE":     "before",
	"GITHUB_SHA":              "after",
	"GITHUB_REPOSITORY":       "github.repository",
	"GITHUB_REPOSITORY_OWNER": "github.repository_owner",
	"GITHUB_REF":              "github.ref",
	"GITHUB_REF_NAME":         "github.ref_name",
	"GITHUB_WORKFLOW":         "github.workflow",
	"GITHUB_ACTOR":            "github.actor",
	"GITHUB_SERVER_URL":       "github.server_url",
}

// actionEnvKeys maps the action's unprefixed variables to config keys.
var actionEnvKeys = map[string]string{
	"FILE_GLOBS":             "file_globs",
	"ENTRY_SEPARATOR_REGEX":  "entry_separator_regex",
	"WEBHOOK_URL":            "webhook_url",
	"WEBHOOK_HEADERS_JSON":   "webhook_headers_json",
	"EXTRA_BODY_JSON":        "extra_body_json",
	"HTTP_METHOD":            "http_method",
	"INCLUDE_BODY_RAW":       "include_body_raw",
	"INCLUDE_GITHUB_CONTEXT": "include_github_context",
	"BEFORE":                 "before",
	"AFTER":                  "after",
	"PROJECT_NAME":           "project_name",
	"PROJECT_OWNER":          "project_owner",
	"REPOSITORY_URL":         "repository_url",
}

// An empty variable counts as unset, so returning "" skips it.
func githubTransform(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return githubEnvKeys[key], value
}

func actionTransform(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return actionEnvKeys[key], value
}

// prefixedTransform converts prefixed variable names to config keys.
// Example: CHANGELOG_NOTIFY_LOG_LEVEL -> log.level
func prefixedTransform(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	for _, group := range []string{"log_", "github_"} {
		if strings.HasPrefix(name, group) {
			name = strings.TrimSuffix(group, "_") + "." + strings.TrimPrefix(name, group)
			break
		}
	}
	return name, value
}

// boolKeys hold string flags that are true only when they read "true",
// case-insensitively.
var boolKeys = []string{"include_body_raw", "include_github_context", "structured_parser"}

// finalizeConfig unmarshals, derives, validates and decodes JSON inputs.
func finalizeConfig(k *koanf.Koanf, log zerolog.Logger) (*Configuration, error) {
	for _, key := range boolKeys {
		if err := k.Set(key, isTrue(k.Get(key))); err != nil {
			return nil, fmt.Errorf("normalizing %s: %w", key, err)
		}
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.HTTPMethod = strings.ToUpper(strings.TrimSpace(cfg.HTTPMethod))
	if cfg.HTTPMethod == "" {
		cfg.HTTPMethod = DefaultHTTPMethod
	}
	cfg.deriveProject()

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Headers = parseHeaders(cfg.WebhookHeadersJSON, log)
	cfg.ExtraBody = parseObject("EXTRA_BODY_JSON", cfg.ExtraBodyJSON, log)

	return &cfg, nil
}

// deriveProject fills project context from the GitHub repository slug.
func (c *Configuration) deriveProject() {
	if c.GitHub.ServerURL == "" {
		c.GitHub.ServerURL = DefaultServerURL
	}
	repo := c.GitHub.Repository
	if c.ProjectName == "" && repo != "" {
		if parts := strings.Split(repo, "/"); len(parts) > 1 {
			c.ProjectName = parts[1]
		}
	}
	if c.ProjectOwner == "" {
		c.ProjectOwner = c.GitHub.RepositoryOwner
	}
	if c.RepositoryURL == "" && repo != "" {
		c.RepositoryURL = c.GitHub.ServerURL + "/" + repo
	}
}

// isTrue mirrors the action's "String(value).toLowerCase() === 'true'".
func isTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case nil:
		return false
	default:
		return strings.EqualFold(strings.TrimSpace(fmt.Sprint(b)), "true")
	}
}

// parseObject decodes a JSON object. Blank input yields an empty map; any
// other input that is not a JSON object is logged and ignored.
func parseObject(name, raw string, log zerolog.Logger) map[string]any {
	out := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		log.Warn().Err(err).Str("input", name).Msg("invalid JSON object, using empty value")
		return map[string]any{}
	}
	return out
}

// parseHeaders decodes the headers object. Non-string values are written as
// their JSON text.
func parseHeaders(raw string, log zerolog.Logger) map[string]string {
	obj := parseObject("WEBHOOK_HEADERS_JSON", raw, log)
	headers := make(map[string]string, len(obj))
	for name, v := range obj {
		switch s := v.(type) {
		case string:
			headers[name] = s
		default:
			b, err := json.Marshal(s)
			if err != nil {
				continue
			}
			headers[name] = string(b)
		}
	}
	return headers
}

// Splitter compiles the configured entry separator.
func (c *Configuration) Splitter() (*changelog.Splitter, error) {
	return changelog.NewSplitter(c.EntrySeparatorRegex)
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
