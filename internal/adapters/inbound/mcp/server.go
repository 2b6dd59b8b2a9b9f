package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewVulnfixMCPServer creates an MCP server exposing the remediation engine.
// projectPath locates .vulnfix.yaml and the fix history.
func NewVulnfixMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"vulnfix",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s, projectPath)

	return s
}
