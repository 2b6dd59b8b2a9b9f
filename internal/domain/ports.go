package domain

import "context"

// ConfigLoader reads engine configuration for a project directory.
type ConfigLoader interface {
	Load(projectPath string) (EngineConfig, error)
}

// FixHistory persists fix records for a project.
type FixHistory interface {
	Save(projectPath string, entry FixEntry) error
	Load(projectPath string) ([]FixEntry, error)
}

// GitInfo provides version control metadata.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
}

// Scanner runs a static analyzer over one file.
type Scanner interface {
	Scan(ctx context.Context, filePath string) ([]Finding, error)
}
