package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdidvp/vulnfix/internal/domain"
)

const historyFile = ".vulnfix/history/fixes.json"

// FileHistory implements domain.FixHistory as a JSON array on disk.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

// Save appends entry to the project's history file, creating it if needed.
func (h *FileHistory) Save(projectPath string, entry domain.FixEntry) error {
	entries, err := h.Load(projectPath)
	if err != nil {
		return err
	}

	fp := Path(projectPath)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	data, err := json.MarshalIndent(append(entries, entry), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return os.WriteFile(fp, data, 0644)
}

// Load returns all recorded entries, oldest first. A missing file is empty history.
func (h *FileHistory) Load(projectPath string) ([]domain.FixEntry, error) {
	data, err := os.ReadFile(Path(projectPath))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []domain.FixEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", historyFile, err)
	}
	return entries, nil
}

// Recent returns at most n of the newest entries, newest first.
func (h *FileHistory) Recent(projectPath string, n int) ([]domain.FixEntry, error) {
	entries, err := h.Load(projectPath)
	if err != nil {
		return nil, err
	}

	out := make([]domain.FixEntry, 0, n)
	for i := len(entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

// Path returns the history file location for a project.
func Path(projectPath string) string {
	return filepath.Join(projectPath, historyFile)
}
