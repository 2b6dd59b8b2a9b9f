// Package rewrite holds the textual remediation rules. Each rule is a pure
// function of its input text: it never parses the code and never keeps state
// between calls, so a single instance is safe for concurrent use.
package rewrite

import "github.com/abdidvp/vulnfix/internal/domain"

// Result is the rewritten text plus human-readable notes about what changed.
type Result struct {
	Code  string
	Notes []string
}

// Rule rewrites code for one issue category.
type Rule interface {
	Name() string
	Category() domain.IssueCategory
	Description() string
	Apply(code string) Result
}

// DefaultRules returns one rule per category, in classification order.
func DefaultRules(cfg domain.EngineConfig) []Rule {
	return []Rule{
		NewSecretRule(),
		NewAuthRule(cfg.EffectiveLookback()),
		NewSQLRule(),
		NewEscapeRule(),
	}
}
