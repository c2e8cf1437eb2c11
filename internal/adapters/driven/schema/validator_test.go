package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantAt  []string
		wantNil bool
	}{
		{
			name: "conforming notebook",
			doc: `{"metadata": {}, "nbformat": 4, "nbformat_minor": 5, "cells": [
				{"cell_type": "markdown", "metadata": {}, "source": ["# T\n", "x"]},
				{"cell_type": "code", "metadata": {}, "source": "x = 1", "outputs": [], "execution_count": null}
			]}`,
			wantNil: true,
		},
		{
			name:   "missing top-level fields",
			doc:    `{"cells": []}`,
			wantAt: []string{"/: "},
		},
		{
			name: "code cell without outputs",
			doc: `{"metadata": {}, "nbformat": 4, "nbformat_minor": 5, "cells": [
				{"cell_type": "code", "metadata": {}, "source": "x"}
			]}`,
			wantAt: []string{"/cells/0: "},
		},
		{
			name: "wrong nbformat and cell type",
			doc: `{"metadata": {}, "nbformat": 3, "nbformat_minor": 0, "cells": [
				{"cell_type": "heading", "metadata": {}, "source": "x"}
			]}`,
			wantAt: []string{"/nbformat: ", "/cells/0/cell_type: "},
		},
	}

	v, err := NewValidator()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations, err := v.Validate([]byte(tt.doc))
			require.NoError(t, err)

			if tt.wantNil {
				assert.Empty(t, violations)
				return
			}
			require.NotEmpty(t, violations)
			for _, prefix := range tt.wantAt {
				found := false
				for _, line := range violations {
					if strings.HasPrefix(line, prefix) {
						found = true
					}
				}
				assert.True(t, found, "no violation at %q in %v", prefix, violations)
			}
		})
	}
}

func TestValidator_NotJSON(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	_, err = v.Validate([]byte("{broken"))
	assert.Error(t, err)
}
