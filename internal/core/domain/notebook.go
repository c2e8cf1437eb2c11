package domain

import (
	"encoding/json"
	"strings"
)

// CellType tags a cell as code or markdown.
type CellType string

// Cell types understood by the rewriter and validator.
const (
	// CellCode is an executable code cell.
	CellCode CellType = "code"

	// CellMarkdown is a narrative markdown cell.
	CellMarkdown CellType = "markdown"
)

// Cell is one unit of a notebook.
// The type tag is fixed at construction; rewriting replaces a cell
// wholesale rather than changing its tag.
type Cell struct {
	cellType CellType

	// Source holds the cell text split into lines. Every line except
	// possibly the last keeps its trailing newline.
	Source []string

	// Outputs are the opaque output records of a code cell, kept verbatim.
	Outputs []json.RawMessage

	// ExecutionCount is nil when the cell has not been run.
	ExecutionCount *int

	// Fields holds every other cell key (metadata, id, attachments, ...)
	// as raw JSON so it survives a rewrite untouched.
	Fields map[string]json.RawMessage

	// SourceIsText records that the source was stored as a single string
	// rather than a list of lines.
	SourceIsText bool
}

// NewCell creates a cell of the given type from source text.
func NewCell(cellType CellType, text string) Cell {
	return Cell{
		cellType: cellType,
		Source:   SplitLines(text),
		Fields:   map[string]json.RawMessage{},
	}
}

// NewCellFromLines creates a cell of the given type from pre-split lines.
func NewCellFromLines(cellType CellType, lines []string) Cell {
	return Cell{
		cellType: cellType,
		Source:   lines,
		Fields:   map[string]json.RawMessage{},
	}
}

// Type returns the cell type tag.
func (c Cell) Type() CellType {
	return c.cellType
}

// IsCode reports whether this is a code cell.
func (c Cell) IsCode() bool {
	return c.cellType == CellCode
}

// IsMarkdown reports whether this is a markdown cell.
func (c Cell) IsMarkdown() bool {
	return c.cellType == CellMarkdown
}

// Text returns the joined source.
func (c Cell) Text() string {
	return strings.Join(c.Source, "")
}

// SplitLines splits text into lines, keeping each line's trailing newline.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Notebook is an ordered sequence of cells plus the document's other
// top-level fields (metadata, nbformat, ...), which are preserved verbatim.
type Notebook struct {
	// Name is the notebook's file name. It is not serialized.
	Name string

	cells []Cell

	// Fields holds every top-level key except "cells" as raw JSON.
	Fields map[string]json.RawMessage
}

// NewNotebook creates a notebook from cells and top-level fields.
func NewNotebook(name string, cells []Cell, fields map[string]json.RawMessage) *Notebook {
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return &Notebook{
		Name:   name,
		cells:  append([]Cell(nil), cells...),
		Fields: fields,
	}
}

// Cells returns the cells in document order.
// The returned slice is a copy; modifying it does not affect the notebook.
func (n *Notebook) Cells() []Cell {
	return append([]Cell(nil), n.cells...)
}

// Len returns the number of cells.
func (n *Notebook) Len() int {
	return len(n.cells)
}

// WithCells returns a new notebook with the given cells that shares every
// other top-level field with n.
func (n *Notebook) WithCells(cells []Cell) *Notebook {
	return &Notebook{
		Name:   n.Name,
		cells:  append([]Cell(nil), cells...),
		Fields: n.Fields,
	}
}

// HasField reports whether a top-level key other than "cells" is present.
func (n *Notebook) HasField(key string) bool {
	_, ok := n.Fields[key]
	return ok
}

// JoinedText concatenates the text of every cell of the given type,
// separated by newlines.
func (n *Notebook) JoinedText(cellType CellType) string {
	parts := make([]string, 0, len(n.cells))
	for _, c := range n.cells {
		if c.cellType == cellType {
			parts = append(parts, c.Text())
		}
	}
	return strings.Join(parts, "\n")
}

// Count returns the number of cells of the given type.
func (n *Notebook) Count(cellType CellType) int {
	count := 0
	for _, c := range n.cells {
		if c.cellType == cellType {
			count++
		}
	}
	return count
}
