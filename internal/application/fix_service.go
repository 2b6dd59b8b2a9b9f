package application

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abdidvp/vulnfix/internal/domain"
	"github.com/abdidvp/vulnfix/internal/domain/rewrite"
)

const traceSeparatorWidth = 50

// FixService orchestrates the remediation pipeline:
// load config → classify → dispatch to one rule → trace → record history.
type FixService struct {
	config  domain.ConfigLoader
	history domain.FixHistory
	git     domain.GitInfo
	log     logrus.FieldLogger
	ruleSet func(domain.EngineConfig) []rewrite.Rule
	nowFunc func() time.Time
}

func NewFixService(cfg domain.ConfigLoader, hist domain.FixHistory, git domain.GitInfo, log logrus.FieldLogger) *FixService {
	return NewFixServiceWithRules(cfg, hist, git, log, rewrite.DefaultRules)
}

// NewFixServiceWithRules lets callers replace the built-in rule set.
func NewFixServiceWithRules(cfg domain.ConfigLoader, hist domain.FixHistory, git domain.GitInfo, log logrus.FieldLogger, rules func(domain.EngineConfig) []rewrite.Rule) *FixService {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &FixService{
		config:  cfg,
		history: hist,
		git:     git,
		log:     log,
		ruleSet: rules,
		nowFunc: time.Now,
	}
}

// Fix runs a single request through the engine. An unclassified or skipped
// category returns the original code unchanged and no error.
func (s *FixService) Fix(req domain.FixRequest, opts domain.FixOptions) (*domain.FixResult, error) {
	projectPath := opts.ProjectPath
	if projectPath == "" {
		projectPath = "."
	}

	cfg := domain.DefaultConfig()
	if s.config != nil {
		loaded, err := s.config.Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	s.log.Infof("Received request to fix: %s", req.IssueType)
	s.log.Infof("Original code:\n%s", req.Code)

	result, err := s.remediate(cfg, req)
	if err != nil {
		// The caller reports err itself; the trace only marks where it stopped.
		s.log.WithError(err).Info("remediation aborted")
		return nil, err
	}

	s.log.Info("Fixed code:")
	s.log.Info(result.Fixed)
	s.log.Info(strings.Repeat("=", traceSeparatorWidth))

	if opts.RecordHistory || cfg.History {
		s.record(projectPath, result)
	}

	return result, nil
}

func (s *FixService) remediate(cfg domain.EngineConfig, req domain.FixRequest) (*domain.FixResult, error) {
	cat := domain.Classify(req.IssueType)
	result := &domain.FixResult{
		IssueType: req.IssueType,
		Category:  cat,
		Original:  req.Code,
		Fixed:     req.Code,
	}

	if cfg.IsSkipped(cat) {
		result.Skipped = true
		s.log.WithField("category", cat).Info("Category skipped by configuration, returning code unchanged")
		return result, nil
	}

	rule, ok := rewrite.NewDispatcher(s.ruleSet(cfg)...).RuleFor(cat)
	if !ok {
		s.log.WithField("category", cat).Info("No fix available for this issue type, returning code unchanged")
		return result, nil
	}

	entry := s.log.WithFields(logrus.Fields{"rule": rule.Name(), "category": cat})
	entry.Infof("Applying %s fix...", strings.ReplaceAll(string(cat), "_", " "))

	out, err := applyRule(rule, req.Code)
	if err != nil {
		return nil, err
	}
	for _, note := range out.Notes {
		entry.Info(note)
	}

	result.Rule = rule.Name()
	result.Fixed = out.Code
	result.Changed = out.Code != req.Code
	result.Notes = out.Notes
	return result, nil
}

// applyRule turns a panic inside a rule into a RuleExecutionError.
func applyRule(rule rewrite.Rule, code string) (res rewrite.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.RuleExecutionError{Rule: rule.Name(), Cause: fmt.Errorf("%v", r)}
		}
	}()
	return rule.Apply(code), nil
}

// record appends a history entry. Failures are logged, not returned: the fix
// itself has already succeeded.
func (s *FixService) record(projectPath string, result *domain.FixResult) {
	if s.history == nil {
		return
	}

	entry := domain.FixEntry{
		Timestamp: s.nowFunc().UTC().Format(time.RFC3339),
		IssueType: result.IssueType,
		Category:  result.Category,
		Rule:      result.Rule,
		Changed:   result.Changed,
	}
	if s.git != nil && s.git.IsGitRepo(projectPath) {
		if hash, err := s.git.CommitHash(projectPath); err == nil {
			entry.CommitHash = hash
		}
	}

	if err := s.history.Save(projectPath, entry); err != nil {
		s.log.WithError(err).Warn("could not record fix history")
	}
}
