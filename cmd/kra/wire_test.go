package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlabs/kra/internal/core/domain"
)

func TestWire(t *testing.T) {
	root := t.TempDir()

	svc, closer, err := wire(root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	assert.Equal(t, filepath.Join(root, "notebooks", "examples"), svc.NotebooksDir)
	assert.FileExists(t, filepath.Join(root, ".kra", "history.db"))
	assert.NotNil(t, svc.Standardize)
	assert.NotNil(t, svc.Validate)
	assert.NotNil(t, svc.Tracking)
	assert.NotNil(t, svc.Dataset)
	assert.NotNil(t, svc.Workspace)

	// A fresh workspace has no notebooks and no runs.
	_, err = svc.Catalog.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	runs, err := svc.History.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestWire_UsesConfiguredPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".kra"), 0o755))
	config := "[paths]\nnotebooks = \"nb\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".kra", "config.toml"), []byte(config), 0o600))

	svc, closer, err := wire(root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	assert.Equal(t, filepath.Join(root, "nb"), svc.NotebooksDir)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("/ws", "logs"), resolve("/ws", "logs"))
	assert.Equal(t, "/var/logs", resolve("/ws", "/var/logs"))
}
