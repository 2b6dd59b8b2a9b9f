package rewrite

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/abdidvp/vulnfix/internal/domain"
)

const guardMarker = "@login_required"

var (
	routeMarkers = []string{"@app.route", "@route"}
	guardImport  = FromImport{Module: "flask_login", Name: "login_required"}
)

// AuthRule inserts a login guard above route declarations that lack one.
type AuthRule struct {
	lookback int
}

// NewAuthRule creates an AuthRule that searches lookback lines above each
// route for an existing guard.
func NewAuthRule(lookback int) *AuthRule {
	if lookback <= 0 {
		lookback = domain.DefaultLookbackWindow
	}
	return &AuthRule{lookback: lookback}
}

func (r *AuthRule) Name() string                   { return "authorization-guard" }
func (r *AuthRule) Category() domain.IssueCategory { return domain.CategoryMissingAuthorization }
func (r *AuthRule) Description() string {
	return "Insert @login_required above unguarded routes and import it"
}

func (r *AuthRule) Apply(code string) Result {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	var notes []string

	for i, line := range lines {
		if isRoute(line) && !r.guardedAt(lines, i) {
			guard := leadingWhitespace(line) + guardMarker
			out = append(out, guard)
			notes = append(notes, fmt.Sprintf("adding decorator before line %d: %s", i, guard))
		}
		out = append(out, line)
	}

	fixed := strings.Join(out, "\n")
	if !strings.Contains(fixed, guardMarker) {
		return Result{Code: fixed, Notes: notes}
	}

	switch guardImport.Check(fixed, guardMarker) {
	case ImportMissing:
		fixed = prependImport(fixed, guardImport.Statement(), false)
		notes = append(notes, "added new "+guardImport.Module+" import")
	case ImportLacksName:
		fixed = guardImport.Extend(fixed)
		notes = append(notes, "updated existing "+guardImport.Module+" import")
	case ImportSatisfied:
	}

	return Result{Code: fixed, Notes: notes}
}

// guardedAt looks at the original lines only, so guards inserted during this
// pass never suppress insertion for a later route.
func (r *AuthRule) guardedAt(lines []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-r.lookback; j-- {
		if strings.Contains(lines[j], guardMarker) {
			return true
		}
	}
	return false
}

func isRoute(line string) bool {
	for _, m := range routeMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeftFunc(line, unicode.IsSpace))]
}
