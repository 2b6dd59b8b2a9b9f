package application

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/abdidvp/vulnfix/internal/domain"
)

// ScanService runs the scanner over a file and can feed each finding's
// label into the fix pipeline.
type ScanService struct {
	scanner domain.Scanner
	fixer   *FixService
	log     logrus.FieldLogger
}

func NewScanService(scanner domain.Scanner, fixer *FixService, log logrus.FieldLogger) *ScanService {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &ScanService{scanner: scanner, fixer: fixer, log: log}
}

// Scan reports the findings for filePath, whose contents are code. With
// opts.Fix, each classified category is remediated once, in finding order,
// on the progressively rewritten code.
func (s *ScanService) Scan(ctx context.Context, filePath, code string, opts domain.ScanOptions) (*domain.ScanReport, error) {
	findings, err := s.scanner.Scan(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", filePath, err)
	}
	s.log.WithField("path", filePath).Infof("%d findings", len(findings))

	report := &domain.ScanReport{
		Path:     filePath,
		Findings: make([]domain.ScannedFinding, 0, len(findings)),
		Original: code,
		Fixed:    code,
	}
	for _, f := range findings {
		report.Findings = append(report.Findings, domain.ScannedFinding{Finding: f, Category: domain.Classify(f.Label())})
	}

	if !opts.Fix || s.fixer == nil {
		return report, nil
	}

	seen := make(map[domain.IssueCategory]bool)
	for _, f := range report.Findings {
		if f.Category == domain.CategoryUnclassified || seen[f.Category] {
			continue
		}
		seen[f.Category] = true

		result, err := s.fixer.Fix(
			domain.FixRequest{Code: report.Fixed, IssueType: f.Label()},
			domain.FixOptions{ProjectPath: opts.ProjectPath, RecordHistory: opts.RecordHistory},
		)
		if err != nil {
			return nil, fmt.Errorf("fixing %s: %w", f.CheckID, err)
		}
		report.Fixes = append(report.Fixes, result)
		report.Fixed = result.Fixed
	}
	report.Changed = report.Fixed != code
	return report, nil
}
