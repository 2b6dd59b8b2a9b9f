package rewrite

import (
	"regexp"
	"strings"

	"github.com/abdidvp/vulnfix/internal/domain"
)

const (
	envModuleImport = "import os"
	envLookupMarker = "os.getenv"
)

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
	note        string
}

// Order matters: later patterns see the output of earlier ones, so a long
// literal already replaced by the first pattern is not matched again.
var secretSubstitutions = []substitution{
	{
		pattern:     regexp.MustCompile(`["'](?:Bearer\s+)?[a-zA-Z0-9_\-]{20,}["']`),
		replacement: `os.getenv("API_KEY")`,
		note:        "replaced secret-like literal",
	},
	{
		pattern:     regexp.MustCompile(`API_KEY\s*=\s*["'][^"']+["']`),
		replacement: `API_KEY = os.getenv("API_KEY", "default_key")`,
		note:        "replaced API_KEY assignment",
	},
	{
		pattern:     regexp.MustCompile(`SECRET\s*=\s*["'][^"']+["']`),
		replacement: `SECRET = os.getenv("SECRET", "default_secret")`,
		note:        "replaced SECRET assignment",
	},
	{
		pattern:     regexp.MustCompile(`(?i)password\s*=\s*["'][^"']+["']`),
		replacement: `password = os.getenv("PASSWORD")`,
		note:        "replaced password assignment",
	},
}

// SecretRule moves hardcoded credentials into environment lookups.
type SecretRule struct{}

func NewSecretRule() *SecretRule { return &SecretRule{} }

func (r *SecretRule) Name() string                   { return "secret-redaction" }
func (r *SecretRule) Category() domain.IssueCategory { return domain.CategoryHardcodedSecret }
func (r *SecretRule) Description() string {
	return "Replace hardcoded secrets with environment variable lookups"
}

func (r *SecretRule) Apply(code string) Result {
	out := code
	var notes []string

	for _, s := range secretSubstitutions {
		n := len(s.pattern.FindAllStringIndex(out, -1))
		if n == 0 {
			continue
		}
		out = s.pattern.ReplaceAllLiteralString(out, s.replacement)
		notes = append(notes, pluralNote(s.note, n))
	}

	if strings.Contains(out, envLookupMarker) && !strings.Contains(out, envModuleImport) {
		out = prependImport(out, envModuleImport, true)
		notes = append(notes, "added "+envModuleImport)
	}

	return Result{Code: out, Notes: notes}
}
