package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/krlabs/kra/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for kra resources.
	uriScheme = "kra://"

	notebooksURI = uriScheme + "notebooks"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         notebooksURI,
		Name:        "notebooks",
		Description: "Notebook file names in the workspace",
		MIMEType:    "application/json",
	}, s.handleNotebooksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: notebooksURI + "/{name}",
		Name:        "notebook",
		Description: "Raw JSON of one notebook",
		MIMEType:    "application/x-ipynb+json",
	}, s.handleNotebookResource)
}

// handleNotebooksResource returns the sorted notebook names.
func (s *Server) handleNotebooksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	names, err := s.ports.Catalog.List(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("listing notebooks: %w", err)
	}
	if names == nil {
		names = []string{}
	}

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling notebooks: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleNotebookResource returns one notebook's raw JSON.
func (s *Server) handleNotebookResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractNotebookName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := s.ports.Catalog.Read(ctx, name)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading notebook: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/x-ipynb+json",
			Text:     string(data),
		}},
	}, nil
}

// extractNotebookName extracts the name from kra://notebooks/{name}.
// Nested paths are rejected.
func extractNotebookName(uri string) string {
	const prefix = notebooksURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	name := strings.TrimPrefix(uri, prefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}
