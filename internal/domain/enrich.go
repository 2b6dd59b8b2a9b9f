package domain

import "strings"

// SecurityGuidelines are appended to prompts by EnrichPrompt.
var SecurityGuidelines = []string{
	"Avoid hardcoded secrets; use environment variables (e.g., os.getenv or process.env).",
	"Validate inputs (length/type/regex) and sanitize outputs.",
	"Apply authorization checks on sensitive routes/controllers.",
	"Prefer parameterized queries; avoid string concatenation for SQL.",
	"Log security-relevant events (auth failures, privilege escalations).",
	"Keep dependencies updated; pin versions and audit regularly.",
}

const addendumHeader = "Security Addendum:"

// EnrichPrompt appends the security addendum to a code-generation prompt.
// The prompt itself is kept as written.
func EnrichPrompt(raw string) string {
	var b strings.Builder
	b.WriteString(raw)
	b.WriteString("\n\n")
	b.WriteString(addendumHeader)
	for _, g := range SecurityGuidelines {
		b.WriteString("\n- ")
		b.WriteString(g)
	}
	return b.String()
}
