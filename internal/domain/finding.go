package domain

import "strings"

// Severity levels reported by the scanner.
const (
	SeverityInfo    = "INFO"
	SeverityWarning = "WARNING"
	SeverityError   = "ERROR"
)

// Position is a 1-based line and column in a scanned file.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Finding is one issue reported by the scanner.
type Finding struct {
	CheckID  string   `json:"check_id"`
	Path     string   `json:"path"`
	Start    Position `json:"start"`
	End      Position `json:"end"`
	Message  string   `json:"message"`
	Severity string   `json:"severity"`
}

// Label is the issue type handed to the classifier: the message, or the
// check id when the rule carries no message.
func (f Finding) Label() string {
	if strings.TrimSpace(f.Message) != "" {
		return f.Message
	}
	return f.CheckID
}

// NormalizeSeverity upper-cases s and defaults to WARNING.
func NormalizeSeverity(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return SeverityWarning
	}
	return s
}

// ScannedFinding is a finding with the category its label maps to.
type ScannedFinding struct {
	Finding
	Category IssueCategory `json:"category"`
}

// ScanReport is the outcome of scanning one file and optionally fixing it.
type ScanReport struct {
	Path     string           `json:"path"`
	Findings []ScannedFinding `json:"findings"`
	Fixes    []*FixResult     `json:"fixes,omitempty"`
	Original string           `json:"-"`
	Fixed    string           `json:"fixed,omitempty"`
	Changed  bool             `json:"changed"`
}

// ScanOptions controls a scan run.
type ScanOptions struct {
	ProjectPath   string
	Fix           bool
	RecordHistory bool
}
