package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlabs/kra/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleNotebooksResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists notebooks", func(t *testing.T) {
		server, err := NewServer(fullPorts())
		require.NoError(t, err)

		res, err := server.handleNotebooksResource(ctx, readRequest(notebooksURI))
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)
		assert.JSONEq(t, `["01_income.ipynb", "02_housing.ipynb"]`, res.Contents[0].Text)
	})

	t.Run("empty workspace is an empty list", func(t *testing.T) {
		ports := fullPorts()
		ports.Catalog = &mockCatalogService{err: domain.ErrNotFound}
		server, err := NewServer(ports)
		require.NoError(t, err)

		res, err := server.handleNotebooksResource(ctx, readRequest(notebooksURI))
		require.NoError(t, err)
		assert.Equal(t, "[]", res.Contents[0].Text)
	})

	t.Run("list failure is an error", func(t *testing.T) {
		ports := fullPorts()
		ports.Catalog = &mockCatalogService{err: errors.New("permission denied")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleNotebooksResource(ctx, readRequest(notebooksURI))
		assert.ErrorContains(t, err, "permission denied")
	})
}

func TestServer_handleNotebookResource(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(fullPorts())
	require.NoError(t, err)

	res, err := server.handleNotebookResource(ctx, readRequest(notebooksURI+"/01_income.ipynb"))
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, `"nbformat": 4`)

	for _, uri := range []string{notebooksURI + "/missing.ipynb", notebooksURI + "/a/b.ipynb", "other://x"} {
		_, err := server.handleNotebookResource(ctx, readRequest(uri))
		assert.Error(t, err, uri)
	}
}

func TestExtractNotebookName(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{uri: "kra://notebooks/01_income.ipynb", want: "01_income.ipynb"},
		{uri: "kra://notebooks/", want: ""},
		{uri: "kra://notebooks/sub/x.ipynb", want: ""},
		{uri: "file:///tmp/x.ipynb", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, extractNotebookName(tt.uri))
		})
	}
}
