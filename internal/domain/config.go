package domain

import (
	"fmt"
	"path/filepath"
)

// DefaultLookbackWindow is how many lines above a route declaration are
// searched for an existing guard. A guard further up is not seen and a
// second one is inserted.
const DefaultLookbackWindow = 4

// Semgrep defaults. A relative rules path is resolved against the project
// directory.
const (
	DefaultSemgrepBinary = "semgrep"
	DefaultSemgrepRules  = "semgrep-rules"
)

// SemgrepConfig locates the scanner and its rules.
type SemgrepConfig struct {
	Binary string `yaml:"binary" json:"binary,omitempty"`
	Rules  string `yaml:"rules"  json:"rules,omitempty"`
}

// RulesPath resolves the rules location against projectPath.
func (c SemgrepConfig) RulesPath(projectPath string) string {
	rules := c.Rules
	if rules == "" {
		rules = DefaultSemgrepRules
	}
	if filepath.IsAbs(rules) {
		return rules
	}
	return filepath.Join(projectPath, rules)
}

// EngineConfig holds project-level configuration loaded from .vulnfix.yaml.
type EngineConfig struct {
	LookbackWindow int           `yaml:"lookback_window" json:"lookback_window,omitempty"`
	SkipCategories []string      `yaml:"skip_categories" json:"skip_categories,omitempty"`
	History        bool          `yaml:"history"         json:"history,omitempty"`
	Semgrep        SemgrepConfig `yaml:"semgrep"         json:"semgrep,omitempty"`
}

// DefaultConfig returns a config that reproduces the built-in behavior.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		LookbackWindow: DefaultLookbackWindow,
		Semgrep:        SemgrepConfig{Binary: DefaultSemgrepBinary, Rules: DefaultSemgrepRules},
	}
}

// EffectiveLookback returns the configured window, falling back to the default.
func (c EngineConfig) EffectiveLookback() int {
	if c.LookbackWindow > 0 {
		return c.LookbackWindow
	}
	return DefaultLookbackWindow
}

// IsSkipped reports whether the category is excluded from remediation.
func (c EngineConfig) IsSkipped(cat IssueCategory) bool {
	for _, s := range c.SkipCategories {
		if s == string(cat) {
			return true
		}
	}
	return false
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c EngineConfig) Validate() error {
	if c.LookbackWindow < 0 {
		return fmt.Errorf("lookback_window must be >= 0 (got %d)", c.LookbackWindow)
	}

	for _, s := range c.SkipCategories {
		if !IsValidCategory(s) {
			return fmt.Errorf("unknown category %q in skip_categories", s)
		}
		if s == string(CategoryUnclassified) {
			return fmt.Errorf("skip_categories cannot contain %q", s)
		}
	}

	return nil
}
