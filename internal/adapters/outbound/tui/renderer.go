package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/abdidvp/vulnfix/internal/domain"
	"github.com/abdidvp/vulnfix/internal/domain/rewrite"
)

// ── palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#3F3F46")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			Width(68)

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	faintStyle   = lipgloss.NewStyle().Foreground(faint)
	addStyle     = lipgloss.NewStyle().Foreground(success)
	delStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle    = lipgloss.NewStyle().Foreground(warning)
	separatorBar = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderResult formats a fix result as a summary box followed by a line diff.
func RenderResult(r *domain.FixResult) string {
	var b strings.Builder

	status := addStyle.Render("changed")
	switch {
	case r.Skipped:
		status = warnStyle.Render("skipped by config")
	case r.Rule == "":
		status = dimStyle.Render("no rule for this issue type")
	case !r.Changed:
		status = dimStyle.Render("no matching pattern")
	}

	rule := r.Rule
	if rule == "" {
		rule = "-"
	}

	header := headerStyle.Render("vulnfix") + "\n" +
		fmt.Sprintf("%s %s\n", dimStyle.Render(padRight("issue", 10)), r.IssueType) +
		fmt.Sprintf("%s %s\n", dimStyle.Render(padRight("category", 10)), r.Category) +
		fmt.Sprintf("%s %s\n", dimStyle.Render(padRight("rule", 10)), rule) +
		fmt.Sprintf("%s %s", dimStyle.Render(padRight("status", 10)), status)
	b.WriteString(boxStyle.Render(header))
	b.WriteString("\n\n")

	if len(r.Notes) > 0 {
		b.WriteString("  " + titleStyle.Render("Actions") + "\n")
		for _, n := range r.Notes {
			b.WriteString("    " + dimStyle.Render("• "+n) + "\n")
		}
		b.WriteString("\n")
	}

	if r.Changed {
		b.WriteString("  " + separatorBar + "\n")
		b.WriteString(renderDiff(r.Original, r.Fixed))
	}

	return b.String()
}

// renderDiff shows removed and added lines. Unchanged lines are dimmed.
func renderDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, c, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, c, false), lines)

	var b strings.Builder
	for _, d := range diffs {
		for _, line := range splitKeepingContent(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				b.WriteString(addStyle.Render("+ "+line) + "\n")
			case diffmatchpatch.DiffDelete:
				b.WriteString(delStyle.Render("- "+line) + "\n")
			default:
				b.WriteString(faintStyle.Render("  "+line) + "\n")
			}
		}
	}
	return b.String()
}

// splitKeepingContent splits on newlines, dropping the empty tail left by a
// trailing newline.
func splitKeepingContent(s string) []string {
	parts := strings.Split(s, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// RenderRules lists categories in classification order with their rules.
// Categories skipped by cfg are marked.
func RenderRules(order []domain.CategoryRule, rules []rewrite.Rule, cfg domain.EngineConfig) string {
	byCat := make(map[domain.IssueCategory]rewrite.Rule, len(rules))
	for _, r := range rules {
		byCat[r.Category()] = r
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Remediation rules") + "  " + dimStyle.Render("(first match wins)") + "\n")
	b.WriteString("  " + separatorBar + "\n\n")

	for i, cr := range order {
		name := "-"
		desc := ""
		if r, ok := byCat[cr.Category]; ok {
			name = r.Name()
			desc = r.Description()
		}
		label := headerStyle.Render(name)
		if cfg.IsSkipped(cr.Category) {
			label = warnStyle.Render(name + " (skipped by config)")
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			dimStyle.Render(fmt.Sprintf("%d.", i+1)),
			titleStyle.Render(padRight(string(cr.Category), 24)),
			label,
		)
		fmt.Fprintf(&b, "     %s %s\n", dimStyle.Render("keywords:"), strings.Join(quoteAll(cr.Keywords), ", "))
		if cr.Category == domain.CategoryMissingAuthorization {
			fmt.Fprintf(&b, "     %s %d lines\n", dimStyle.Render("lookback:"), cfg.EffectiveLookback())
		}
		if desc != "" {
			fmt.Fprintf(&b, "     %s\n", faintStyle.Render(desc))
		}
	}
	fmt.Fprintf(&b, "  %s %s %s\n",
		dimStyle.Render(fmt.Sprintf("%d.", len(order)+1)),
		titleStyle.Render(padRight(string(domain.CategoryUnclassified), 24)),
		dimStyle.Render("code returned unchanged"),
	)

	return b.String()
}

// RenderExplanation shows how a label was classified.
func RenderExplanation(e domain.Explanation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", dimStyle.Render(padRight("label", 10)), e.Label)
	fmt.Fprintf(&b, "%s %s\n", dimStyle.Render(padRight("category", 10)), titleStyle.Render(string(e.Category)))
	if e.Keyword != "" {
		fmt.Fprintf(&b, "%s %q\n", dimStyle.Render(padRight("keyword", 10)), e.Keyword)
	}
	if e.SplitCategory != "" {
		fmt.Fprintf(&b, "%s %s\n", dimStyle.Render(padRight("hint", 10)),
			warnStyle.Render(fmt.Sprintf("%q would classify as %s; labels are matched as written", e.SplitLabel, e.SplitCategory)))
	}
	return b.String()
}

// RenderHistory formats fix history for terminal output, newest first.
func RenderHistory(entries []domain.FixEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No fix history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Fix History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		ts := e.Timestamp
		if len(ts) > 19 {
			ts = ts[:19]
		}

		mark := dimStyle.Render("=")
		if e.Changed {
			mark = addStyle.Render("✓")
		}

		fmt.Fprintf(&b, "  %s  %s  %s %s  %s\n",
			dimStyle.Render(ts),
			faintStyle.Render(hash),
			mark,
			padRight(string(e.Category), 22),
			dimStyle.Render(e.IssueType),
		)
	}

	return b.String()
}

// RenderFindings lists scan findings with their categories.
func RenderFindings(r *domain.ScanReport) string {
	if len(r.Findings) == 0 {
		return "  " + dimStyle.Render("No findings in "+r.Path+".") + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n", titleStyle.Render("Findings"), dimStyle.Render(r.Path))
	b.WriteString("  " + separatorBar + "\n\n")

	for _, f := range r.Findings {
		fmt.Fprintf(&b, "  %s %s  %s\n",
			severityStyle(f.Severity).Render(padRight(f.Severity, 7)),
			dimStyle.Render(padRight(fmt.Sprintf("%d:%d", f.Start.Line, f.Start.Col), 7)),
			f.Message,
		)
		fmt.Fprintf(&b, "          %s %s\n", faintStyle.Render(f.CheckID), headerStyle.Render("→ "+string(f.Category)))
	}

	if len(r.Fixes) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Applied") + "\n")
		for _, fix := range r.Fixes {
			mark := dimStyle.Render("=")
			if fix.Changed {
				mark = addStyle.Render("✓")
			}
			rule := fix.Rule
			if fix.Skipped {
				rule = "skipped by config"
			}
			fmt.Fprintf(&b, "    %s %s %s\n", mark, padRight(string(fix.Category), 22), dimStyle.Render(rule))
		}
	}

	return b.String()
}

func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case domain.SeverityError:
		return delStyle
	case domain.SeverityWarning:
		return warnStyle
	default:
		return dimStyle
	}
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
