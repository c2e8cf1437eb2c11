package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlabs/kra/internal/core/domain"
)

func censusSpec(url string) domain.DatasetSpec {
	return domain.DatasetSpec{
		Name:     "census_income_2022",
		URL:      url,
		KeyEnv:   "CENSUS_API_KEY",
		KeyParam: "key",
		Params:   map[string]string{"get": "NAME,B19013_001E", "for": "state:*"},
	}
}

func TestFetcher_Fetch(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[["NAME","B19013_001E","state"],["Alabama","59609","01"],["Alaska","86370","02"]]`))
	}))
	defer srv.Close()

	ds, err := NewFetcher(srv.Client()).Fetch(context.Background(), censusSpec(srv.URL), "secret")
	require.NoError(t, err)

	assert.Equal(t, "census_income_2022", ds.Name)
	assert.Equal(t, "remote", ds.Source)
	assert.Equal(t, []string{"NAME", "B19013_001E", "state"}, ds.Columns)
	assert.Len(t, ds.Rows, 2)

	assert.Equal(t, []string{"secret"}, gotQuery["key"])
	assert.Equal(t, []string{"state:*"}, gotQuery["for"])
	assert.Equal(t, []string{"NAME,B19013_001E"}, gotQuery["get"])
}

func TestFetcher_NoCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("key"))
		_, _ = w.Write([]byte(`[{"a": 1}]`))
	}))
	defer srv.Close()

	ds, err := NewFetcher(nil).Fetch(context.Background(), domain.DatasetSpec{Name: "open", URL: srv.URL}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ds.Columns)
}

func TestFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
		wantIs  error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: "unexpected status 500: boom"},
		{name: "not a table", status: http.StatusOK, body: `{"error": "invalid key"}`, wantIs: domain.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewFetcher(srv.Client()).Fetch(context.Background(), censusSpec(srv.URL), "k")
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			}
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestFetcher_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewFetcher(srv.Client()).Fetch(ctx, censusSpec(srv.URL), "secret-key")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), err.Error())
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestFetcher_InvalidURL(t *testing.T) {
	_, err := NewFetcher(nil).Fetch(context.Background(), domain.DatasetSpec{Name: "x", URL: "not a url"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://api.example/x?for=all&key=REDACTED", redact("https://api.example/x?key=abc&for=all", "key"))
	assert.Equal(t, "https://api.example/x?for=all", redact("https://api.example/x?for=all", "key"))
}
