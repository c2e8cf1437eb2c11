// Package table decodes small tabular documents into domain datasets.
package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/krlabs/kra/internal/core/domain"
)

// DecodeCSV reads a CSV document whose first record is the header.
func DecodeCSV(data []byte) (*domain.Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &domain.Dataset{Columns: []string{}, Rows: [][]string{}}, nil
	}
	return &domain.Dataset{Columns: records[0], Rows: records[1:]}, nil
}

// DecodeJSON accepts an array of objects, whose keys become columns in
// first-seen order, or an array of arrays whose first row is the header.
func DecodeJSON(data []byte) (*domain.Dataset, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("expected a JSON array: %w", err)
	}
	ds := &domain.Dataset{Columns: []string{}, Rows: [][]string{}}
	if len(items) == 0 {
		return ds, nil
	}

	first := bytes.TrimSpace(items[0])
	switch {
	case len(first) > 0 && first[0] == '[':
		return decodeJSONRows(items)
	case len(first) > 0 && first[0] == '{':
		return decodeJSONObjects(items)
	default:
		return nil, errors.New("expected an array of objects or an array of arrays")
	}
}

func decodeJSONRows(items []json.RawMessage) (*domain.Dataset, error) {
	ds := &domain.Dataset{Rows: make([][]string, 0, len(items)-1)}
	for i, item := range items {
		var cells []json.RawMessage
		if err := json.Unmarshal(item, &cells); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		row := make([]string, len(cells))
		for j, c := range cells {
			row[j] = scalarText(c)
		}
		if i == 0 {
			ds.Columns = row
			continue
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func decodeJSONObjects(items []json.RawMessage) (*domain.Dataset, error) {
	var columns []string
	index := make(map[string]int)
	objects := make([]map[string]json.RawMessage, len(items))

	for i, item := range items {
		keys, values, err := orderedObject(item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		for _, k := range keys {
			if _, seen := index[k]; !seen {
				index[k] = len(columns)
				columns = append(columns, k)
			}
		}
		objects[i] = values
	}

	rows := make([][]string, len(objects))
	for i, obj := range objects {
		row := make([]string, len(columns))
		for k, v := range obj {
			row[index[k]] = scalarText(v)
		}
		rows[i] = row
	}
	return &domain.Dataset{Columns: columns, Rows: rows}, nil
}

// orderedObject decodes a JSON object, keeping its key order.
func orderedObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.New("expected an object")
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = v
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	return keys, values, nil
}

// scalarText renders a JSON value as a table cell: strings unquoted,
// null empty, everything else as its JSON text.
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
