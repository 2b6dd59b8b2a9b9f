package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdidvp/vulnfix/internal/domain"
	"gopkg.in/yaml.v3"
)

const fileName = ".vulnfix.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .vulnfix.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .vulnfix.yaml from projectPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.EngineConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.EngineConfig{}, err
	}

	var cfg domain.EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return mergeConfig(domain.DefaultConfig(), cfg), nil
}

// mergeConfig overlays explicit values on top of defaults.
func mergeConfig(base, override domain.EngineConfig) domain.EngineConfig {
	result := base
	if override.LookbackWindow > 0 {
		result.LookbackWindow = override.LookbackWindow
	}
	if len(override.SkipCategories) > 0 {
		result.SkipCategories = override.SkipCategories
	}
	result.History = override.History
	if override.Semgrep.Binary != "" {
		result.Semgrep.Binary = override.Semgrep.Binary
	}
	if override.Semgrep.Rules != "" {
		result.Semgrep.Rules = override.Semgrep.Rules
	}
	return result
}
