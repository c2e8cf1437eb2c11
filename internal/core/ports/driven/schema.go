package driven

// SchemaValidator checks raw notebook JSON against the nbformat schema.
type SchemaValidator interface {
	// Validate returns human-readable violations. An empty result means
	// the document conforms.
	Validate(data []byte) ([]string, error)
}

// ImportInventory lists the modules imported by Python source.
type ImportInventory interface {
	// Modules returns the sorted, de-duplicated top-level module names
	// imported by source. Unparseable regions are skipped.
	Modules(source string) []string
}
