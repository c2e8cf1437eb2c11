// Package schema checks notebook documents against an embedded nbformat
// v4 JSON Schema.
package schema

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/krlabs/kra/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.SchemaValidator = (*Validator)(nil)

//go:embed nbformat.v4.schema.json
var nbformatSchema []byte

const schemaURL = "https://kra.local/schema/nbformat.v4.schema.json"

// Validator reports nbformat schema violations.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(nbformatSchema))
	if err != nil {
		return nil, fmt.Errorf("decode nbformat schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add nbformat schema: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile nbformat schema: %w", err)
	}
	return &Validator{schema: sch}, nil
}

// Validate returns one "<instance location>: <message>" line per violated
// keyword, sorted. It errors only when data is not JSON.
func (v *Validator) Validate(data []byte) ([]string, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}

	err = v.schema.Validate(inst)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validate notebook: %w", err)
	}

	seen := make(map[string]bool)
	var violations []string
	for _, unit := range ve.BasicOutput().Errors {
		if unit.Error == nil {
			continue
		}
		loc := unit.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		line := loc + ": " + unit.Error.String()
		if !seen[line] {
			seen[line] = true
			violations = append(violations, line)
		}
	}
	sort.Strings(violations)
	return violations, nil
}
