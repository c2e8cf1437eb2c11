// Package mcp provides an MCP (Model Context Protocol) server adapter for kra.
// It lets AI assistants validate and standardize notebooks and read
// execution logs without shelling out to the CLI.
package mcp

import "errors"

var (
	// ErrMissingValidateService is returned when the validate service is not provided.
	ErrMissingValidateService = errors.New("mcp: validate service is required")

	// ErrMissingCatalogService is returned when the catalog service is not provided.
	ErrMissingCatalogService = errors.New("mcp: catalog service is required")
)
