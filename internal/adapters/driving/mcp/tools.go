package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultExecutionLimit applies when list_executions is called without a limit.
const defaultExecutionLimit = 10

// ValidateNotebookInput is the input schema for the validate_notebook tool.
type ValidateNotebookInput struct {
	Notebook string `json:"notebook" jsonschema:"notebook file name, e.g. 01_income_analysis.ipynb"`
}

// StandardizeNotebookInput is the input schema for the standardize_notebook tool.
type StandardizeNotebookInput struct {
	Notebook string `json:"notebook" jsonschema:"notebook file name, e.g. 01_income_analysis.ipynb"`
	DryRun   bool   `json:"dry_run,omitempty" jsonschema:"compute the changes without writing the notebook"`
}

// ListExecutionsInput is the input schema for the list_executions tool.
type ListExecutionsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of logs to return (default 10)"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_notebook",
		Description: "Run the structure, import and pattern checks on one notebook",
	}, s.handleValidateNotebook)

	if s.ports.Standardization != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "standardize_notebook",
			Description: "Rewrite one notebook to the canonical template, optionally as a dry run",
		}, s.handleStandardizeNotebook)
	}

	if s.ports.Tracking != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_executions",
			Description: "List recent notebook execution logs, newest first",
		}, s.handleListExecutions)
	}
}

func (s *Server) handleValidateNotebook(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateNotebookInput,
) (*mcp.CallToolResult, any, error) {
	name, ok := s.knownNotebook(ctx, input.Notebook)
	if !ok {
		return toolError("notebook %q not found", input.Notebook), nil, nil
	}
	return toolJSON(s.ports.Validation.ValidateOne(ctx, name))
}

func (s *Server) handleStandardizeNotebook(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StandardizeNotebookInput,
) (*mcp.CallToolResult, any, error) {
	name, ok := s.knownNotebook(ctx, input.Notebook)
	if !ok {
		return toolError("notebook %q not found", input.Notebook), nil, nil
	}
	return toolJSON(s.ports.Standardization.StandardizeOne(ctx, name, input.DryRun))
}

func (s *Server) handleListExecutions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListExecutionsInput,
) (*mcp.CallToolResult, any, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultExecutionLimit
	}

	logs, err := s.ports.Tracking.ListRecent(ctx, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("listing executions: %w", err)
	}
	return toolJSON(logs)
}

// knownNotebook resolves name against the catalog. The .ipynb suffix
// may be omitted.
func (s *Server) knownNotebook(ctx context.Context, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if !strings.HasSuffix(name, ".ipynb") {
		name += ".ipynb"
	}
	names, err := s.ports.Catalog.List(ctx)
	if err != nil {
		return "", false
	}
	return name, slices.Contains(names, name)
}

// ==================== Helper Functions ====================

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
