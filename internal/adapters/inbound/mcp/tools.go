package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/vulnfix/internal/adapters/outbound/config"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/history"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/semgrep"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/trace"
	"github.com/abdidvp/vulnfix/internal/application"
	"github.com/abdidvp/vulnfix/internal/domain"
)

// registerTools registers all vulnfix MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	s.AddTool(
		mcplib.NewTool("vulnfix_fix",
			mcplib.WithDescription("Rewrite a code snippet to remediate a security issue. Returns the fixed code and what changed as JSON."),
			mcplib.WithString("code",
				mcplib.Required(),
				mcplib.Description("Source code snippet to fix"),
			),
			mcplib.WithString("issue_type",
				mcplib.Required(),
				mcplib.Description("Issue label, e.g. \"hardcoded secret\", \"missing authorization\", \"sql injection\", \"xss\""),
			),
			mcplib.WithBoolean("record_history", mcplib.Description("Record this fix in the project history")),
		),
		handleFix(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("vulnfix_classify",
			mcplib.WithDescription("Return the remediation category an issue label maps to"),
			mcplib.WithString("issue_type",
				mcplib.Required(),
				mcplib.Description("Issue label to classify"),
			),
		),
		handleClassify(),
	)

	s.AddTool(
		mcplib.NewTool("vulnfix_scan",
			mcplib.WithDescription("Run semgrep on a file with the project's rules and classify each finding. With fix=true the fixed code is returned, the file is not modified."),
			mcplib.WithString("path",
				mcplib.Required(),
				mcplib.Description("File to scan, relative to the project or absolute"),
			),
			mcplib.WithBoolean("fix", mcplib.Description("Apply the rule for each classified finding")),
		),
		handleScan(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("vulnfix_enrich_prompt",
			mcplib.WithDescription("Append security guidelines to a code-generation prompt"),
			mcplib.WithString("prompt",
				mcplib.Required(),
				mcplib.Description("Prompt to enrich"),
			),
		),
		handleEnrich(),
	)
}

func newFixService() *application.FixService {
	// stdout carries the MCP transport, so the trace is dropped.
	return application.NewFixService(config.New(), history.New(), gitinfo.New(), trace.Discard())
}

func handleFix(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		issueType, err := request.RequireString("issue_type")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		record, _ := request.GetArguments()["record_history"].(bool)

		result, err := newFixService().Fix(
			domain.FixRequest{Code: code, IssueType: issueType},
			domain.FixOptions{ProjectPath: projectPath, RecordHistory: record},
		)
		if err != nil {
			var ruleErr *domain.RuleExecutionError
			if errors.As(err, &ruleErr) {
				return errorResult(fmt.Sprintf("rule %s failed: %v", ruleErr.Rule, ruleErr.Cause)), nil
			}
			return errorResult(fmt.Sprintf("fix failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleClassify() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		issueType, err := request.RequireString("issue_type")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(string(domain.Classify(issueType))), nil
	}
}

func handleScan(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		fix, _ := request.GetArguments()["fix"].(bool)

		if !filepath.IsAbs(path) {
			path = filepath.Join(projectPath, path)
		}
		code, err := os.ReadFile(path)
		if err != nil {
			return errorResult(fmt.Sprintf("reading %s: %v", path, err)), nil
		}

		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}
		scanner := semgrep.New(cfg.Semgrep.Binary, cfg.Semgrep.RulesPath(projectPath))

		report, err := application.NewScanService(scanner, newFixService(), trace.Discard()).
			Scan(ctx, path, string(code), domain.ScanOptions{ProjectPath: projectPath, Fix: fix})
		if err != nil {
			return errorResult(fmt.Sprintf("scan failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleEnrich() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		prompt, err := request.RequireString("prompt")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if strings.TrimSpace(prompt) == "" {
			return errorResult("empty prompt"), nil
		}
		return textResult(domain.EnrichPrompt(prompt)), nil
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
