// Package semgrep runs the semgrep CLI and decodes its JSON report.
package semgrep

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/abdidvp/vulnfix/internal/domain"
)

// CommandFunc runs name with args in dir and returns its output streams.
type CommandFunc func(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)

// Runner implements domain.Scanner by shelling out to semgrep.
type Runner struct {
	binary string
	rules  string
	run    CommandFunc
}

// New creates a Runner for the given binary and rules file or directory.
func New(binary, rules string) *Runner {
	return NewWithCommand(binary, rules, execCommand)
}

// NewWithCommand lets callers replace process execution.
func NewWithCommand(binary, rules string, run CommandFunc) *Runner {
	if binary == "" {
		binary = domain.DefaultSemgrepBinary
	}
	return &Runner{binary: binary, rules: rules, run: run}
}

// Scan runs `semgrep --json --config <rules> <file>` from the file's directory.
// semgrep exits non-zero for some recoverable conditions, so a non-empty
// report is decoded regardless of the exit status.
func (r *Runner) Scan(ctx context.Context, filePath string) ([]domain.Finding, error) {
	args := []string{"--json", "--config", r.rules, filePath}
	stdout, stderr, err := r.run(ctx, filepath.Dir(filePath), r.binary, args...)
	if len(bytes.TrimSpace(stdout)) == 0 {
		if err != nil {
			return nil, fmt.Errorf("running %s: %w: %s", r.binary, err, strings.TrimSpace(string(stderr)))
		}
		return nil, nil
	}
	return Decode(stdout)
}

type report struct {
	Results []result `json:"results"`
}

type result struct {
	CheckID string          `json:"check_id"`
	Path    string          `json:"path"`
	Start   domain.Position `json:"start"`
	End     domain.Position `json:"end"`
	Extra   struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
	} `json:"extra"`
}

// Decode converts a semgrep JSON report into findings. A missing message
// falls back to the check id and a missing severity to WARNING.
func Decode(data []byte) ([]domain.Finding, error) {
	var rep report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("decoding semgrep report: %w", err)
	}

	findings := make([]domain.Finding, 0, len(rep.Results))
	for _, r := range rep.Results {
		msg := r.Extra.Message
		if msg == "" {
			msg = r.CheckID
		}
		findings = append(findings, domain.Finding{
			CheckID:  r.CheckID,
			Path:     r.Path,
			Start:    r.Start,
			End:      r.End,
			Message:  msg,
			Severity: domain.NormalizeSeverity(r.Extra.Severity),
		})
	}
	return findings, nil
}

func execCommand(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
