package application_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/vulnfix/internal/adapters/outbound/trace"
	"github.com/abdidvp/vulnfix/internal/application"
	"github.com/abdidvp/vulnfix/internal/domain"
	"github.com/abdidvp/vulnfix/internal/domain/rewrite"
)

const fixtureFile = "../../testdata/flask/missing_auth.py"

type staticConfig struct {
	cfg domain.EngineConfig
	err error
}

func (s staticConfig) Load(string) (domain.EngineConfig, error) { return s.cfg, s.err }

type memHistory struct {
	mu      sync.Mutex
	entries []domain.FixEntry
	err     error
}

func (m *memHistory) Save(_ string, e domain.FixEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memHistory) Load(string) ([]domain.FixEntry, error) { return m.entries, nil }

type fakeGit struct{ hash string }

func (g fakeGit) IsGitRepo(string) bool             { return g.hash != "" }
func (g fakeGit) CommitHash(string) (string, error) { return g.hash, nil }

type panickyRule struct{}

func (panickyRule) Name() string                   { return "panicky" }
func (panickyRule) Category() domain.IssueCategory { return domain.CategoryXSS }
func (panickyRule) Description() string            { return "always fails" }
func (panickyRule) Apply(string) rewrite.Result    { panic("unexpected input shape") }

func newTracedService(t *testing.T, cfg domain.EngineConfig) (*application.FixService, *bytes.Buffer) {
	t.Helper()
	buf := new(bytes.Buffer)
	logger, err := trace.New(buf, trace.FormatText)
	require.NoError(t, err)
	return application.NewFixService(staticConfig{cfg: cfg}, &memHistory{}, fakeGit{}, logger), buf
}

func TestFix_SQLInjection(t *testing.T) {
	svc, _ := newTracedService(t, domain.DefaultConfig())

	result, err := svc.Fix(domain.FixRequest{
		Code:      `cursor.execute("SELECT * FROM accounts WHERE email = " + email + "")`,
		IssueType: "SQL Injection",
	}, domain.FixOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.CategorySQLInjection, result.Category)
	assert.Equal(t, "sql-parameterization", result.Rule)
	assert.Equal(t, `cursor.execute("SELECT * FROM users WHERE username = ?", (email,))`, result.Fixed)
	assert.True(t, result.Changed)
}

func TestFix_UnclassifiedReturnsInputUnchanged(t *testing.T) {
	svc, _ := newTracedService(t, domain.DefaultConfig())
	code := "API_KEY = \"abcdef0123456789xyz123\"\n@app.route(\"/x\")"

	result, err := svc.Fix(domain.FixRequest{Code: code, IssueType: "performance"}, domain.FixOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryUnclassified, result.Category)
	assert.Equal(t, code, result.Fixed)
	assert.False(t, result.Changed)
	assert.Empty(t, result.Rule)
}

func TestFix_OverlappingLabelUsesPriority(t *testing.T) {
	svc, _ := newTracedService(t, domain.DefaultConfig())
	code := `@app.route("/q")`

	result, err := svc.Fix(domain.FixRequest{Code: code, IssueType: "sql injection in auth handler"}, domain.FixOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryMissingAuthorization, result.Category)
	assert.Contains(t, result.Fixed, "@login_required")
}

func TestFix_TraceOrder(t *testing.T) {
	svc, buf := newTracedService(t, domain.DefaultConfig())

	_, err := svc.Fix(domain.FixRequest{Code: `password = "hunter2"`, IssueType: "hardcoded secret"}, domain.FixOptions{})
	require.NoError(t, err)

	out := buf.String()
	markers := []string{
		"Received request to fix: hardcoded secret",
		"Original code:\npassword = \"hunter2\"",
		"Applying hardcoded secret fix...",
		"Fixed code:",
		"password = os.getenv(\"PASSWORD\")",
		strings.Repeat("=", 50),
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(out, m)
		require.GreaterOrEqual(t, idx, 0, "trace missing %q:\n%s", m, out)
		assert.Greater(t, idx, last, "trace out of order at %q", m)
		last = idx
	}
}

func TestFix_SkippedCategory(t *testing.T) {
	svc, _ := newTracedService(t, domain.EngineConfig{SkipCategories: []string{"xss"}})
	code := "def a(x):\n    return \"<p>{x}</p>\""

	result, err := svc.Fix(domain.FixRequest{Code: code, IssueType: "xss"}, domain.FixOptions{})
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Equal(t, code, result.Fixed)
}

func TestFix_ConfiguredLookback(t *testing.T) {
	code := strings.Join([]string{
		`from flask_login import login_required`,
		`@login_required`,
		`# a`, `# b`, `# c`, `# d`,
		`@app.route("/x")`,
	}, "\n")

	narrow, _ := newTracedService(t, domain.DefaultConfig())
	result, err := narrow.Fix(domain.FixRequest{Code: code, IssueType: "missing auth"}, domain.FixOptions{})
	require.NoError(t, err)
	assert.True(t, result.Changed)

	wide, _ := newTracedService(t, domain.EngineConfig{LookbackWindow: 5})
	result, err = wide.Fix(domain.FixRequest{Code: code, IssueType: "missing auth"}, domain.FixOptions{})
	require.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestFix_FixtureFile(t *testing.T) {
	data, err := os.ReadFile(fixtureFile)
	require.NoError(t, err)

	svc, _ := newTracedService(t, domain.DefaultConfig())
	result, err := svc.Fix(domain.FixRequest{Code: string(data), IssueType: "Missing Authorization"}, domain.FixOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(result.Fixed, "@login_required"))
	assert.Equal(t, 1, strings.Count(result.Fixed, "from flask_login import"))
	assert.Contains(t, result.Fixed, "@login_required\n@app.route(\"/admin\")")
	assert.Contains(t, result.Fixed, "@login_required\n@app.route(\"/delete_account\")")
}

func TestFix_RulePanicBecomesError(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := trace.New(buf, trace.FormatText)
	require.NoError(t, err)

	svc := application.NewFixServiceWithRules(staticConfig{cfg: domain.DefaultConfig()}, nil, nil, logger,
		func(domain.EngineConfig) []rewrite.Rule { return []rewrite.Rule{panickyRule{}} })

	result, err := svc.Fix(domain.FixRequest{Code: "<p>", IssueType: "xss"}, domain.FixOptions{})
	require.Error(t, err)
	assert.Nil(t, result)

	var ruleErr *domain.RuleExecutionError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, "panicky", ruleErr.Rule)
	assert.Contains(t, err.Error(), "unexpected input shape")
	assert.Contains(t, buf.String(), "remediation aborted error=rule panicky failed")
	assert.NotContains(t, buf.String(), "ERROR:", "the caller prints the only error line")
	assert.NotContains(t, buf.String(), "Fixed code:")
}

func TestFix_ConfigErrorAborts(t *testing.T) {
	svc := application.NewFixService(staticConfig{err: errors.New("bad yaml")}, nil, nil, nil)
	_, err := svc.Fix(domain.FixRequest{Code: "x", IssueType: "xss"}, domain.FixOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestFix_RecordsHistory(t *testing.T) {
	hist := &memHistory{}
	svc := application.NewFixService(staticConfig{cfg: domain.DefaultConfig()}, hist, fakeGit{hash: "abc1234"}, nil)

	_, err := svc.Fix(domain.FixRequest{Code: `API_KEY = "sk-1"`, IssueType: "hardcoded"}, domain.FixOptions{RecordHistory: true})
	require.NoError(t, err)

	require.Len(t, hist.entries, 1)
	e := hist.entries[0]
	assert.Equal(t, "abc1234", e.CommitHash)
	assert.Equal(t, domain.CategoryHardcodedSecret, e.Category)
	assert.Equal(t, "secret-redaction", e.Rule)
	assert.True(t, e.Changed)
	assert.NotEmpty(t, e.Timestamp)
}

func TestFix_HistoryFromConfig(t *testing.T) {
	hist := &memHistory{}
	svc := application.NewFixService(staticConfig{cfg: domain.EngineConfig{History: true}}, hist, fakeGit{}, nil)

	_, err := svc.Fix(domain.FixRequest{Code: "x", IssueType: "performance"}, domain.FixOptions{})
	require.NoError(t, err)

	require.Len(t, hist.entries, 1)
	assert.Empty(t, hist.entries[0].CommitHash)
	assert.Equal(t, domain.CategoryUnclassified, hist.entries[0].Category)
}

func TestFix_HistoryFailureDoesNotFailFix(t *testing.T) {
	hist := &memHistory{err: errors.New("disk full")}
	buf := new(bytes.Buffer)
	logger, err := trace.New(buf, trace.FormatText)
	require.NoError(t, err)
	svc := application.NewFixService(staticConfig{cfg: domain.DefaultConfig()}, hist, fakeGit{}, logger)

	result, err := svc.Fix(domain.FixRequest{Code: "x", IssueType: "xss"}, domain.FixOptions{RecordHistory: true})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Contains(t, buf.String(), "WARNING: could not record fix history")
}

func TestFix_ConcurrentRequestsAreIndependent(t *testing.T) {
	svc := application.NewFixService(staticConfig{cfg: domain.DefaultConfig()}, nil, nil, nil)

	requests := []domain.FixRequest{
		{Code: `password = "hunter2"`, IssueType: "hardcoded secret"},
		{Code: `@app.route("/a")`, IssueType: "missing authorization"},
		{Code: `execute(f"SELECT * FROM t WHERE c = {v}")`, IssueType: "sql injection"},
		{Code: "return \"<p>{x}</p>\"", IssueType: "xss"},
	}

	want := make([]string, len(requests))
	for i, req := range requests {
		r, err := svc.Fix(req, domain.FixOptions{})
		require.NoError(t, err)
		want[i] = r.Fixed
	}

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		for i, req := range requests {
			wg.Add(1)
			go func(i int, req domain.FixRequest) {
				defer wg.Done()
				r, err := svc.Fix(req, domain.FixOptions{})
				if assert.NoError(t, err) {
					assert.Equal(t, want[i], r.Fixed)
				}
			}(i, req)
		}
	}
	wg.Wait()
}
