package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// ImportState is the outcome of checking whether a name is imported from a module.
type ImportState int

const (
	// ImportMissing means the module is not imported at all.
	ImportMissing ImportState = iota
	// ImportLacksName means the module is imported but the name is not.
	ImportLacksName
	// ImportSatisfied means nothing needs to change.
	ImportSatisfied
)

func (s ImportState) String() string {
	switch s {
	case ImportMissing:
		return "missing"
	case ImportLacksName:
		return "lacks_name"
	case ImportSatisfied:
		return "satisfied"
	default:
		return "unknown"
	}
}

// FromImport describes a "from <module> import <name>" statement.
type FromImport struct {
	Module string
	Name   string
}

func (fi FromImport) clause() string { return "from " + fi.Module + " import" }

// Statement returns the full single-name import line.
func (fi FromImport) Statement() string { return fi.clause() + " " + fi.Name }

// Check decides how code must change so that fi.Name is importable. The name
// is only searched for in the text preceding the first occurrence of
// usageMarker; if the marker is absent the whole text is searched.
func (fi FromImport) Check(code, usageMarker string) ImportState {
	if !strings.Contains(code, fi.clause()) {
		return ImportMissing
	}

	head := code
	if idx := strings.Index(code, usageMarker); idx >= 0 {
		head = code[:idx]
	}
	if !strings.Contains(head, fi.Name) {
		return ImportLacksName
	}
	return ImportSatisfied
}

// Extend appends fi.Name to the first existing import list from fi.Module.
func (fi FromImport) Extend(code string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(fi.clause()) + ` ([^\n]+)`)
	loc := re.FindStringSubmatchIndex(code)
	if loc == nil {
		return code
	}
	// loc[3] is the end of the captured name list.
	return code[:loc[3]] + ", " + fi.Name + code[loc[3]:]
}

// prependImport places stmt on the first line, optionally followed by a
// blank separator line.
func prependImport(code, stmt string, blankLine bool) string {
	if blankLine {
		return stmt + "\n\n" + code
	}
	return stmt + "\n" + code
}

func pluralNote(what string, n int) string {
	if n == 1 {
		return what
	}
	return fmt.Sprintf("%s (%d occurrences)", what, n)
}
