package config

import (
	"os"
	"path/filepath"
)

// ProjectConfigFile is the project-level config file name.
const ProjectConfigFile = ".changelog-notify.yml"

// ProjectConfigPath returns the path to the project-level config file.
// This is always .changelog-notify.yml relative to the current directory.
func ProjectConfigPath() string {
	return ProjectConfigFile
}

// ActionFilePath returns the action.yml of the running GitHub Action, or ""
// when not running as an action.
func ActionFilePath() string {
	dir := os.Getenv("GITHUB_ACTION_PATH")
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "action.yml")
}
