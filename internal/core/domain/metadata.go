package domain

// Defaults applied when a notebook header does not declare an attribute.
const (
	DefaultDomain     = "Unknown"
	DefaultTier       = "1-3"
	DefaultDataSource = "Census ACS"
)

// NotebookMetadata holds the attributes declared in a notebook's leading
// markdown cell. It is derived on demand and never persisted.
type NotebookMetadata struct {
	// Domain is the subject area, e.g. "Income Inequality".
	Domain string `json:"domain"`

	// Tier is the analytics complexity label, e.g. "1-3".
	Tier string `json:"tier"`

	// Title is the notebook heading, or a title derived from the file name.
	Title string `json:"title"`

	// DataSource labels the canonical data-loading cell.
	DataSource string `json:"data_source"`
}
