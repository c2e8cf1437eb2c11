package driven

import "context"

// NotebookStore reads and writes notebook files in the notebooks directory.
type NotebookStore interface {
	// List returns notebook file names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Read returns the raw bytes of a notebook.
	// Returns domain.ErrNotFound if the notebook does not exist.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces a notebook's contents.
	Write(ctx context.Context, name string, data []byte) error

	// Backup copies the current contents of a notebook into the backup
	// directory for the given run stamp and returns that directory.
	Backup(ctx context.Context, stamp, name string) (string, error)

	// Path returns the location of a notebook for display.
	Path(name string) string
}
