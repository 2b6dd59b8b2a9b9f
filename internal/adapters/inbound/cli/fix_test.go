package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdidvp/vulnfix/internal/adapters/inbound/cli"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/history"
	"github.com/abdidvp/vulnfix/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

	root := cli.NewRootCmdForTest()
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func request(t *testing.T, code, issueType string) string {
	t.Helper()
	data, err := json.Marshal(domain.FixRequest{Code: code, IssueType: issueType})
	require.NoError(t, err)
	return string(data)
}

func TestFixCmd_FromArgument(t *testing.T) {
	req := request(t, `rows = cursor.execute("SELECT * FROM users WHERE username = " + username + "")`, "SQL Injection")

	stdout, stderr, err := runCmd(t, "", "fix", "--project", t.TempDir(), req)
	require.NoError(t, err)
	assert.Equal(t, "rows = cursor.execute(\"SELECT * FROM users WHERE username = ?\", (username,))\n", stdout)
	assert.Contains(t, stderr, "Received request to fix: SQL Injection")
	assert.Contains(t, stderr, "Applying sql injection fix...")
	assert.Contains(t, stderr, "Fixed code:")
}

func TestFixCmd_FromStdin(t *testing.T) {
	req := request(t, `password = "hunter2"`, "Hardcoded Secret")

	stdout, _, err := runCmd(t, req, "fix", "--quiet", "--project", t.TempDir(), "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "import os")
	assert.Contains(t, stdout, `password = os.getenv("PASSWORD")`)
}

func TestFixCmd_FromInputFile(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "request.json")
	require.NoError(t, os.WriteFile(fp, []byte(request(t, "x = 1", "Buffer overflow")), 0644))

	stdout, stderr, err := runCmd(t, "", "fix", "-i", fp, "--project", dir)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", stdout)
	assert.NotContains(t, stderr, "Applying")
}

func TestFixCmd_QuietSuppressesTrace(t *testing.T) {
	req := request(t, "x = 1", "XSS")
	_, stderr, err := runCmd(t, "", "fix", "-q", "--project", t.TempDir(), req)
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestFixCmd_JSONOutput(t *testing.T) {
	req := request(t, `return "<p>{name}</p>"`, "Cross-Site Scripting")

	stdout, _, err := runCmd(t, "", "fix", "--json", "-q", "--project", t.TempDir(), req)
	require.NoError(t, err)

	var result domain.FixResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, domain.CategoryXSS, result.Category)
	assert.Equal(t, "output-escaping", result.Rule)
	assert.True(t, result.Changed)
	assert.Equal(t, "from markupsafe import escape\n\n"+`return escape("<p>{name}</p>")`, result.Fixed)
}

func TestFixCmd_PrettyWritesSummary(t *testing.T) {
	req := request(t, `password = "hunter2"`, "hardcoded secret")

	_, stderr, err := runCmd(t, "", "fix", "--pretty", "--project", t.TempDir(), req)
	require.NoError(t, err)
	assert.Contains(t, stderr, "secret-redaction")
	assert.NotContains(t, stderr, "Received request to fix")
}

func TestFixCmd_RecordsHistory(t *testing.T) {
	dir := t.TempDir()
	req := request(t, "x = 1", "XSS")

	_, _, err := runCmd(t, "", "fix", "-q", "--history", "--project", dir, req)
	require.NoError(t, err)

	entries, err := history.New().Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.CategoryXSS, entries[0].Category)
}

func TestFixCmd_MalformedRequest(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no request", []string{"fix"}},
		{"invalid json", []string{"fix", "{not json"}},
		{"missing issueType", []string{"fix", `{"code": "x = 1"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCmd(t, "", tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrRequestMalformed))
		})
	}
}

func TestFixCmd_UnknownLogFormat(t *testing.T) {
	req := request(t, "x = 1", "XSS")
	_, _, err := runCmd(t, "", "fix", "--log-format", "xml", "--project", t.TempDir(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestFixCmd_InvalidProjectConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".vulnfix.yaml"), []byte("lookback_window: -1\n"), 0644))

	_, _, err := runCmd(t, "", "fix", "-q", "--project", dir, request(t, "x = 1", "XSS"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}
