// Package file provides the TOML-backed configuration store.
//
// Configuration lives in <workspace>/.kra/config.toml. Nested tables are
// flattened to dot-separated keys on load ("paths.notebooks") and written
// back as nested tables on save, so the file stays hand-editable.
package file
