package rewrite

import (
	"regexp"
	"strings"

	"github.com/abdidvp/vulnfix/internal/domain"
)

const escapeImport = "from markupsafe import escape"

var interpolatedReturn = regexp.MustCompile(`return (["'][^"']*\{\w+\}[^"']*["'])`)

// EscapeRule wraps interpolated HTML return values in escape().
type EscapeRule struct{}

func NewEscapeRule() *EscapeRule { return &EscapeRule{} }

func (r *EscapeRule) Name() string                   { return "output-escaping" }
func (r *EscapeRule) Category() domain.IssueCategory { return domain.CategoryXSS }
func (r *EscapeRule) Description() string {
	return "Wrap interpolated HTML return values in markupsafe.escape"
}

func (r *EscapeRule) Apply(code string) Result {
	// Coarse check for "returns HTML".
	if !strings.Contains(code, "return") || !strings.Contains(code, "<") {
		return Result{Code: code}
	}

	out := code
	var notes []string

	if n := len(interpolatedReturn.FindAllStringIndex(out, -1)); n > 0 {
		out = interpolatedReturn.ReplaceAllString(out, `return escape(${1})`)
		notes = append(notes, pluralNote("escaped interpolated return", n))
	}

	if !strings.Contains(out, escapeImport) {
		out = prependImport(out, escapeImport, true)
		notes = append(notes, "added "+escapeImport)
	}

	return Result{Code: out, Notes: notes}
}
