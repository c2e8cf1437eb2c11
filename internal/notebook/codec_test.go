package notebook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlabs/kra/internal/core/domain"
)

const sampleNotebook = `{
 "cells": [
  {
   "cell_type": "markdown",
   "metadata": {"tags": ["header"]},
   "source": ["# Income Analysis\n", "**Domain:** Income"]
  },
  {
   "cell_type": "code",
   "execution_count": 3,
   "id": "abc123",
   "metadata": {},
   "outputs": [{"output_type": "stream", "name": "stdout", "text": ["hi <b>\n"]}],
   "source": "import pandas as pd\nprint('hi')"
  }
 ],
 "metadata": {"kernelspec": {"display_name": "Python 3", "name": "python3"}},
 "nbformat": 4,
 "nbformat_minor": 5,
 "x_custom": {"keep": [1, 2, 3]}
}`

func TestParse(t *testing.T) {
	nb, err := Parse("01_income.ipynb", []byte(sampleNotebook))
	require.NoError(t, err)

	cells := nb.Cells()
	require.Len(t, cells, 2)
	assert.Equal(t, "01_income.ipynb", nb.Name)

	assert.Equal(t, domain.CellMarkdown, cells[0].Type())
	assert.Equal(t, []string{"# Income Analysis\n", "**Domain:** Income"}, cells[0].Source)
	assert.False(t, cells[0].SourceIsText)

	assert.Equal(t, domain.CellCode, cells[1].Type())
	assert.True(t, cells[1].SourceIsText)
	assert.Equal(t, "import pandas as pd\nprint('hi')", cells[1].Text())
	require.NotNil(t, cells[1].ExecutionCount)
	assert.Equal(t, 3, *cells[1].ExecutionCount)
	assert.Len(t, cells[1].Outputs, 1)
	assert.Contains(t, cells[1].Fields, "id")

	assert.True(t, nb.HasField("metadata"))
	assert.True(t, nb.HasField("x_custom"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"cells": [`},
		{"null document", `null`},
		{"array document", `[1, 2]`},
		{"missing cells", `{"metadata": {}}`},
		{"cells not array", `{"cells": {"a": 1}}`},
		{"cell not object", `{"cells": [1]}`},
		{"cell without type", `{"cells": [{"source": "x"}]}`},
		{"bad source", `{"cells": [{"cell_type": "code", "source": 5}]}`},
		{"bad outputs", `{"cells": [{"cell_type": "code", "source": "", "outputs": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.ipynb", []byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrParse)

			var pe *domain.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "bad.ipynb", pe.Name)
		})
	}
}

func TestSerialize_RoundTripPreservesValues(t *testing.T) {
	nb, err := Parse("01_income.ipynb", []byte(sampleNotebook))
	require.NoError(t, err)

	out, err := Serialize(nb)
	require.NoError(t, err)

	var want, got any
	require.NoError(t, json.Unmarshal([]byte(sampleNotebook), &want))
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, want, got)
}

func TestSerialize_DoesNotEscapeHTML(t *testing.T) {
	nb, err := Parse("a.ipynb", []byte(sampleNotebook))
	require.NoError(t, err)

	out, err := Serialize(nb)
	require.NoError(t, err)
	assert.Contains(t, string(out), "hi <b>")
	assert.Contains(t, string(out), "\n \"cells\": [")
}

func TestSerialize_CanonicalCellDefaults(t *testing.T) {
	nb := domain.NewNotebook("a.ipynb", []domain.Cell{
		domain.NewCell(domain.CellCode, "x = 1\n"),
		domain.NewCell(domain.CellMarkdown, "# T"),
	}, nil)

	out, err := Serialize(nb)
	require.NoError(t, err)

	var doc struct {
		Cells []map[string]any `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	require.Len(t, doc.Cells, 2)

	code := doc.Cells[0]
	assert.Equal(t, "code", code["cell_type"])
	assert.Nil(t, code["execution_count"])
	assert.Contains(t, code, "execution_count")
	assert.Equal(t, []any{}, code["outputs"])
	assert.Equal(t, map[string]any{}, code["metadata"])
	assert.Equal(t, []any{"x = 1\n"}, code["source"])

	md := doc.Cells[1]
	assert.NotContains(t, md, "outputs")
	assert.NotContains(t, md, "execution_count")
}

func TestParse_MarkdownKeepsUnknownKeys(t *testing.T) {
	input := `{"cells": [{"cell_type": "markdown", "source": "# T", "attachments": {"a.png": {}}}]}`
	nb, err := Parse("a.ipynb", []byte(input))
	require.NoError(t, err)

	out, err := Serialize(nb)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"attachments"`)
	assert.Contains(t, string(out), `"source": "# T"`)
}
