package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krlabs/kra/internal/core/domain"
)

func header(text string) *domain.Notebook {
	return domain.NewNotebook("03_housing_affordability.ipynb", []domain.Cell{
		domain.NewCell(domain.CellMarkdown, text),
		domain.NewCell(domain.CellCode, "x = 1"),
	}, nil)
}

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.NotebookMetadata
	}{
		{
			name: "all attributes",
			text: "# Housing Affordability\n**Domain:** Housing Policy\nTier: 2-4 (Intermediate)\nData Source: HUD FMR",
			want: domain.NotebookMetadata{
				Domain:     "** Housing Policy",
				Tier:       "2-4",
				Title:      "Housing Affordability",
				DataSource: "HUD FMR",
			},
		},
		{
			name: "plain labels",
			text: "# Title\nDomain: Income\nTier: 1",
			want: domain.NotebookMetadata{Domain: "Income", Tier: "1", Title: "Title", DataSource: "Census ACS"},
		},
		{
			name: "last heading wins",
			text: "# First\n# Second",
			want: domain.NotebookMetadata{Domain: "Unknown", Tier: "1-3", Title: "Second", DataSource: "Census ACS"},
		},
		{
			name: "domain check wins over heading on same line",
			text: "# Domain: Labor",
			want: domain.NotebookMetadata{Domain: "Labor", Tier: "1-3", Title: "03 Housing Affordability", DataSource: "Census ACS"},
		},
		{
			name: "value after first colon only",
			text: "Domain: Health: Outcomes",
			want: domain.NotebookMetadata{Domain: "Health: Outcomes", Tier: "1-3", Title: "03 Housing Affordability", DataSource: "Census ACS"},
		},
		{
			name: "empty tier falls back to defaults",
			text: "# Title\nDomain: Income\nTier:   ",
			want: domain.NotebookMetadata{Domain: "Unknown", Tier: "1-3", Title: "03 Housing Affordability", DataSource: "Census ACS"},
		},
		{
			name: "heading needs leading hash and space",
			text: "## Overview\n#NoSpace",
			want: domain.NotebookMetadata{Domain: "Unknown", Tier: "1-3", Title: "03 Housing Affordability", DataSource: "Census ACS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMetadata(header(tt.text)))
		})
	}
}

func TestExtractMetadata_Defaults(t *testing.T) {
	want := domain.NotebookMetadata{
		Domain:     "Unknown",
		Tier:       "1-3",
		Title:      "01 Income Analysis Tutorial",
		DataSource: "Census ACS",
	}

	t.Run("first cell is code", func(t *testing.T) {
		nb := domain.NewNotebook("01_Income_Analysis_Tutorial.ipynb", []domain.Cell{
			domain.NewCell(domain.CellCode, "# Domain: Labor"),
		}, nil)
		assert.Equal(t, want, ExtractMetadata(nb))
	})

	t.Run("no cells", func(t *testing.T) {
		nb := domain.NewNotebook("01_Income_Analysis_Tutorial.ipynb", nil, nil)
		assert.Equal(t, want, ExtractMetadata(nb))
	})

	t.Run("empty markdown cell", func(t *testing.T) {
		nb := domain.NewNotebook("01_Income_Analysis_Tutorial.ipynb", []domain.Cell{
			domain.NewCell(domain.CellMarkdown, ""),
		}, nil)
		assert.Equal(t, want, ExtractMetadata(nb))
	})
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01_Income_Analysis_Tutorial.ipynb", "01 Income Analysis Tutorial"},
		{"housing_AFFORDABILITY.ipynb", "Housing Affordability"},
		{"notebooks/examples/02_labor_market.ipynb", "02 Labor Market"},
		{"07abc_x.ipynb", "07Abc X"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromFilename(tt.in))
		})
	}
}
