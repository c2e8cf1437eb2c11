// Package domain defines the core business entities for kra.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Notebook: An ordered sequence of typed cells plus top-level fields
//   - Cell: One code or markdown unit of a notebook
//   - NotebookMetadata: Attributes declared in a notebook's header cell
//   - RewriteResult: Outcome of standardizing one notebook
//   - ValidationResult: Outcome of validating one notebook
//   - ExecutionLog: Metadata stamped on a single notebook run
//   - Dataset: Tabular sample data consumed by notebooks
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
