package mcp

import (
	"github.com/krlabs/kra/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server exposes.
type Ports struct {
	// Validation runs the read-only notebook checks.
	Validation driving.ValidateService

	// Catalog lists and reads workspace notebooks.
	Catalog driving.CatalogService

	// Standardization rewrites notebooks. Optional; without it the
	// standardize_notebook tool is not registered.
	Standardization driving.StandardizeService

	// Tracking reads execution logs. Optional; without it the
	// list_executions tool is not registered.
	Tracking driving.TrackingService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Validation == nil {
		return ErrMissingValidateService
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
