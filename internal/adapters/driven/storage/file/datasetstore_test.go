package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlabs/kra/internal/core/domain"
)

func TestDatasetStore_Locate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "income.json"), "[]")
	writeFile(t, filepath.Join(dir, "income.parquet"), "PAR1")
	writeFile(t, filepath.Join(dir, "crime.json"), "[]")
	store := NewDatasetStore(dir)

	file, err := store.Locate(ctx, "income")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatParquet, file.Format, "parquet is tried before json")

	file, err = store.Locate(ctx, "crime")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "crime.json"), file.Path)

	_, err = store.Locate(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDatasetStore_Read(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		columns []string
		rows    [][]string
	}{
		{
			name:    "csv with header",
			file:    "d.csv",
			content: "NAME,income\nAlabama,59609\n\"Washington, DC\",101722\n",
			columns: []string{"NAME", "income"},
			rows:    [][]string{{"Alabama", "59609"}, {"Washington, DC", "101722"}},
		},
		{
			name:    "json objects keep key order",
			file:    "d.json",
			content: `[{"state":"AL","rate":3.1,"flag":true},{"state":"AK","extra":null,"rate":4}]`,
			columns: []string{"state", "rate", "flag", "extra"},
			rows:    [][]string{{"AL", "3.1", "true", ""}, {"AK", "4", "", ""}},
		},
		{
			name:    "json rows with header",
			file:    "d.json",
			content: `[["NAME","B19013_001E"],["Alabama","59609"],["Alaska",86370]]`,
			columns: []string{"NAME", "B19013_001E"},
			rows:    [][]string{{"Alabama", "59609"}, {"Alaska", "86370"}},
		},
		{
			name:    "empty json array",
			file:    "d.json",
			content: `[]`,
			columns: []string{},
			rows:    [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tt.file), tt.content)
			store := NewDatasetStore(dir)

			file, err := store.Locate(context.Background(), "d")
			require.NoError(t, err)
			ds, err := store.Read(context.Background(), *file)
			require.NoError(t, err)

			assert.Equal(t, "d", ds.Name)
			assert.Equal(t, file.Path, ds.Source)
			assert.Equal(t, tt.columns, ds.Columns)
			assert.Equal(t, tt.rows, ds.Rows)
		})
	}
}

func TestDatasetStore_Read_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.json"), `{"not": "an array"}`)
	writeFile(t, filepath.Join(dir, "scalars.json"), `[1, 2]`)
	store := NewDatasetStore(dir)

	_, err := store.Read(ctx, domain.DatasetFile{Name: "p", Path: filepath.Join(dir, "p.pkl"), Format: domain.FormatPickle})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = store.Read(ctx, domain.DatasetFile{Name: "bad", Path: filepath.Join(dir, "bad.json"), Format: domain.FormatJSON})
	assert.ErrorContains(t, err, "expected a JSON array")

	_, err = store.Read(ctx, domain.DatasetFile{Name: "scalars", Path: filepath.Join(dir, "scalars.json"), Format: domain.FormatJSON})
	assert.Error(t, err)

	_, err = store.Read(ctx, domain.DatasetFile{Name: "gone", Path: filepath.Join(dir, "gone.csv"), Format: domain.FormatCSV})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDatasetStore_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data", "sample_datasets")
	store := NewDatasetStore(dir)

	ds := &domain.Dataset{
		Name:    "census_income_2022",
		Columns: []string{"NAME", "B19013_001E"},
		Rows:    [][]string{{"Washington, DC", "101722"}},
	}
	p, err := store.Write(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "census_income_2022.csv"), p)

	file, err := store.Locate(ctx, "census_income_2022")
	require.NoError(t, err)
	got, err := store.Read(ctx, *file)
	require.NoError(t, err)
	assert.Equal(t, ds.Columns, got.Columns)
	assert.Equal(t, ds.Rows, got.Rows)

	_, err = store.Write(ctx, &domain.Dataset{Name: "../escape"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDatasetStore_WriteManifest(t *testing.T) {
	dir := t.TempDir()
	store := NewDatasetStore(dir)

	m := &domain.Manifest{
		GeneratedAt: time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC),
		Datasets:    []domain.ManifestEntry{{Name: "a", Status: domain.ManifestSkipped, Message: "A_KEY is not set"}},
	}
	p, err := store.WriteManifest(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestFile), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	var decoded domain.Manifest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "skipped", decoded.Datasets[0].Status)
}
