package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/vulnfix/internal/adapters/outbound/config"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/history"
	"github.com/abdidvp/vulnfix/internal/domain"
	"github.com/abdidvp/vulnfix/internal/domain/rewrite"
)

// ruleInfo is the JSON shape of one entry in vulnfix://rules.
type ruleInfo struct {
	Priority    int                  `json:"priority"`
	Category    domain.IssueCategory `json:"category"`
	Keywords    []string             `json:"keywords"`
	Rule        string               `json:"rule"`
	Description string               `json:"description"`
	Skipped     bool                 `json:"skipped"`
	Lookback    int                  `json:"lookback_window,omitempty"`
}

// registerResources registers all vulnfix MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	s.AddResource(
		mcplib.NewResource(
			"vulnfix://rules",
			"Remediation Rules",
			mcplib.WithResourceDescription("Issue categories in classification order with their keywords and rules"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(projectPath),
	)

	s.AddResource(
		mcplib.NewResource(
			"vulnfix://history",
			"Fix History",
			mcplib.WithResourceDescription("Fixes recorded for the project, oldest first"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(projectPath),
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"vulnfix://categories/{name}",
			"Category Rule",
			mcplib.WithTemplateDescription("Keywords and rule for a single issue category"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleCategoryResource(projectPath),
	)
}

// describeRules reports the rules as fix would run them for projectPath.
func describeRules(projectPath string) ([]ruleInfo, error) {
	cfg, err := config.New().Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	d := rewrite.NewDispatcher(rewrite.DefaultRules(cfg)...)
	infos := make([]ruleInfo, 0, len(domain.ClassificationOrder))
	for i, cr := range domain.ClassificationOrder {
		info := ruleInfo{
			Priority: i + 1,
			Category: cr.Category,
			Keywords: cr.Keywords,
			Skipped:  cfg.IsSkipped(cr.Category),
		}
		if r, ok := d.RuleFor(cr.Category); ok {
			info.Rule = r.Name()
			info.Description = r.Description()
		}
		if cr.Category == domain.CategoryMissingAuthorization {
			info.Lookback = cfg.EffectiveLookback()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func handleRulesResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		infos, err := describeRules(projectPath)
		if err != nil {
			return nil, err
		}
		return jsonContents("vulnfix://rules", infos)
	}
}

func handleHistoryResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := history.New().Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		if entries == nil {
			entries = []domain.FixEntry{}
		}
		return jsonContents("vulnfix://history", entries)
	}
}

func handleCategoryResource(projectPath string) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		name := templateArg(request.Params.Arguments["name"])
		if name == "" {
			return nil, fmt.Errorf("category name is required")
		}

		infos, err := describeRules(projectPath)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			if string(info.Category) == name {
				return jsonContents(request.Params.URI, info)
			}
		}
		return nil, fmt.Errorf("unknown category %q", name)
	}
}

// templateArg accepts both a plain string and the []string form some
// transports use for template variables.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
