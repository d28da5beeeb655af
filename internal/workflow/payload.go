package workflow

import (
	"github.com/ariel-frischer/changelog-notify/internal/changelog"
	"github.com/ariel-frischer/changelog-notify/internal/config"
)

// Payload field names beyond the record's base keys.
const (
	KeyFilePath   = "filePath"
	KeyCommit     = "commit"
	KeyProject    = "project"
	KeyOwner      = "owner"
	KeyRepository = "repository"
	KeyGitHub     = "github"
	KeyBodyRaw    = "bodyRaw"
)

// Commit is the revision range a payload was extracted from.
type Commit struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// PayloadOptions holds the context attached to every delivered entry.
type PayloadOptions struct {
	Before string
	After  string

	ProjectName   string
	ProjectOwner  string
	RepositoryURL string

	// GitHub is omitted from payloads when nil.
	GitHub *config.GitHubContext

	// Extra is merged after every other field and may override any of them.
	Extra map[string]any

	IncludeBodyRaw bool
}

// PayloadOptionsFromConfig builds payload options from loaded configuration.
func PayloadOptionsFromConfig(cfg *config.Configuration) PayloadOptions {
	opts := PayloadOptions{
		Before:         cfg.Before,
		After:          cfg.After,
		ProjectName:    cfg.ProjectName,
		ProjectOwner:   cfg.ProjectOwner,
		RepositoryURL:  cfg.RepositoryURL,
		Extra:          cfg.ExtraBody,
		IncludeBodyRaw: cfg.IncludeBodyRaw,
	}
	if cfg.IncludeGitHubContext {
		gh := cfg.GitHub
		opts.GitHub = &gh
	}
	return opts
}

// BuildPayload turns one entry of the file at path into a delivery payload.
// Fields are written in this order: filePath, commit, header, version,
// date, sections, project context, github, extra fields, bodyRaw.
func BuildPayload(path string, e changelog.Entry, opts PayloadOptions) changelog.Record {
	r := changelog.NewRecord(e)
	r.SetLeading(KeyFilePath, path)
	r.SetLeading(KeyCommit, Commit{Before: opts.Before, After: opts.After})

	if opts.ProjectName != "" {
		r.Set(KeyProject, opts.ProjectName)
	}
	if opts.ProjectOwner != "" {
		r.Set(KeyOwner, opts.ProjectOwner)
	}
	if opts.RepositoryURL != "" {
		r.Set(KeyRepository, opts.RepositoryURL)
	}
	if opts.GitHub != nil {
		r.Set(KeyGitHub, *opts.GitHub)
	}

	r.Merge(opts.Extra)

	if opts.IncludeBodyRaw {
		r.Set(KeyBodyRaw, e.Text)
	}
	return r
}
