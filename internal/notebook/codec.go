// Package notebook decodes and encodes nbformat v4 notebook JSON and
// extracts the metadata declared in a notebook's header cell.
//
// Parsing keeps every field the rewriter does not understand as raw JSON
// so that Serialize(Parse(b)) is value-equal to b. Key order is not kept.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: services, adapters
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/krlabs/kra/internal/core/domain"
)

const (
	keyCells          = "cells"
	keyCellType       = "cell_type"
	keySource         = "source"
	keyOutputs        = "outputs"
	keyExecutionCount = "execution_count"
	keyMetadata       = "metadata"
)

var emptyObject = json.RawMessage(`{}`)

// Parse decodes a notebook. It fails with a *domain.ParseError when data is
// not a JSON object, has no "cells" array, or holds a malformed cell.
func Parse(name string, data []byte) (*domain.Notebook, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &domain.ParseError{Name: name, Err: err}
	}
	if top == nil {
		return nil, &domain.ParseError{Name: name, Err: errors.New("document is null")}
	}

	rawCells, ok := top[keyCells]
	if !ok {
		return nil, &domain.ParseError{Name: name, Err: errors.New(`missing required field "cells"`)}
	}
	delete(top, keyCells)

	var items []json.RawMessage
	if err := json.Unmarshal(rawCells, &items); err != nil {
		return nil, &domain.ParseError{Name: name, Err: fmt.Errorf(`"cells" is not an array: %w`, err)}
	}

	cells := make([]domain.Cell, 0, len(items))
	for i, item := range items {
		cell, err := parseCell(item)
		if err != nil {
			return nil, &domain.ParseError{Name: name, Err: fmt.Errorf("cell %d: %w", i, err)}
		}
		cells = append(cells, cell)
	}

	return domain.NewNotebook(name, cells, top), nil
}

func parseCell(data json.RawMessage) (domain.Cell, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return domain.Cell{}, errors.New("cell is not an object")
	}

	var cellType string
	if err := json.Unmarshal(fields[keyCellType], &cellType); err != nil || cellType == "" {
		return domain.Cell{}, errors.New(`missing or invalid "cell_type"`)
	}

	lines, isText, err := parseSource(fields[keySource])
	if err != nil {
		return domain.Cell{}, err
	}

	cell := domain.NewCellFromLines(domain.CellType(cellType), lines)
	cell.SourceIsText = isText

	if cell.IsCode() {
		if err := parseExecution(&cell, fields); err != nil {
			return domain.Cell{}, err
		}
	}
	delete(fields, keyCellType)
	delete(fields, keySource)
	cell.Fields = fields
	return cell, nil
}

// parseExecution moves outputs and execution_count of a code cell out of
// the raw field map.
func parseExecution(cell *domain.Cell, fields map[string]json.RawMessage) error {
	if raw, ok := fields[keyOutputs]; ok {
		if err := json.Unmarshal(raw, &cell.Outputs); err != nil {
			return fmt.Errorf(`"outputs" is not an array: %w`, err)
		}
		if cell.Outputs == nil {
			cell.Outputs = []json.RawMessage{}
		}
	}
	if raw, ok := fields[keyExecutionCount]; ok {
		if err := json.Unmarshal(raw, &cell.ExecutionCount); err != nil {
			return fmt.Errorf(`invalid "execution_count": %w`, err)
		}
	}
	delete(fields, keyOutputs)
	delete(fields, keyExecutionCount)
	return nil
}

// parseSource accepts either a single string or an array of strings.
func parseSource(raw json.RawMessage) ([]string, bool, error) {
	if raw == nil {
		return []string{}, false, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return domain.SplitLines(text), true, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, false, errors.New(`"source" must be a string or an array of strings`)
	}
	if lines == nil {
		lines = []string{}
	}
	return lines, false, nil
}

// Serialize encodes a notebook with one-space indentation, matching the
// layout Jupyter writes.
func Serialize(nb *domain.Notebook) ([]byte, error) {
	top := make(map[string]any, len(nb.Fields)+1)
	for k, v := range nb.Fields {
		top[k] = v
	}

	cells := nb.Cells()
	encoded := make([]map[string]any, 0, len(cells))
	for i := range cells {
		encoded = append(encoded, encodeCell(cells[i]))
	}
	top[keyCells] = encoded

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(top); err != nil {
		return nil, fmt.Errorf("encode notebook: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeCell(c domain.Cell) map[string]any {
	out := make(map[string]any, len(c.Fields)+4)
	for k, v := range c.Fields {
		out[k] = v
	}
	out[keyCellType] = string(c.Type())

	if c.SourceIsText {
		out[keySource] = c.Text()
	} else {
		lines := c.Source
		if lines == nil {
			lines = []string{}
		}
		out[keySource] = lines
	}

	if _, ok := out[keyMetadata]; !ok {
		out[keyMetadata] = emptyObject
	}

	if c.IsCode() {
		outputs := c.Outputs
		if outputs == nil {
			outputs = []json.RawMessage{}
		}
		out[keyOutputs] = outputs
		out[keyExecutionCount] = c.ExecutionCount
	}
	return out
}
