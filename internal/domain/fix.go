package domain

// FixResult is the outcome of running one request through the engine.
type FixResult struct {
	IssueType string        `json:"issue_type"`
	Category  IssueCategory `json:"category"`
	Rule      string        `json:"rule,omitempty"`
	Original  string        `json:"original"`
	Fixed     string        `json:"fixed"`
	Changed   bool          `json:"changed"`
	Skipped   bool          `json:"skipped,omitempty"`
	Notes     []string      `json:"notes,omitempty"`
}

// FixEntry is a single record in the fix history.
type FixEntry struct {
	Timestamp  string        `json:"timestamp"`
	CommitHash string        `json:"commit_hash,omitempty"`
	IssueType  string        `json:"issue_type"`
	Category   IssueCategory `json:"category"`
	Rule       string        `json:"rule,omitempty"`
	Changed    bool          `json:"changed"`
}

// FixOptions controls a single engine run.
type FixOptions struct {
	ProjectPath   string `json:"project_path,omitempty"`
	RecordHistory bool   `json:"record_history,omitempty"`
}
