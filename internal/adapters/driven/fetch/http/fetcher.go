// Package http fetches datasets from JSON table APIs over HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/logger"
	"github.com/krlabs/kra/internal/table"
)

// Ensure Fetcher implements the interface.
var _ driven.DatasetFetcher = (*Fetcher)(nil)

// maxBody bounds the response size read from an API.
const maxBody = 32 << 20

// userAgent identifies requests made by the toolkit.
const userAgent = "kra-data-generate"

// Fetcher performs one GET per dataset and decodes a JSON table response.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher. If client is nil, http.DefaultClient is used.
// Deadlines come from the caller's context.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch requests spec.URL with spec.Params and, when credential is set,
// the credential under spec.KeyParam. The body must be a JSON array of
// arrays with a header row, or an array of objects.
func (f *Fetcher) Fetch(ctx context.Context, spec domain.DatasetSpec, credential string) (*domain.Dataset, error) {
	u, err := requestURL(spec, credential)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	logger.Debug("GET %s", redact(u, spec.KeyParam))
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", spec.Name, scrub(err, spec.KeyParam))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", spec.Name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d: %s", spec.Name, resp.StatusCode, snippet(body))
	}

	ds, err := table.DecodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s response: %v", domain.ErrUnsupportedFormat, spec.Name, err)
	}
	ds.Name = spec.Name
	ds.Source = "remote"
	return ds, nil
}

func requestURL(spec domain.DatasetSpec, credential string) (string, error) {
	u, err := url.Parse(spec.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: dataset %s has invalid url %q", domain.ErrInvalidInput, spec.Name, spec.URL)
	}

	q := u.Query()
	keys := make([]string, 0, len(spec.Params))
	for k := range spec.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, spec.Params[k])
	}
	if credential != "" {
		param := spec.KeyParam
		if param == "" {
			param = "key"
		}
		q.Set(param, credential)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// redact hides the credential parameter in a URL for logging.
func redact(raw, keyParam string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if keyParam == "" {
		keyParam = "key"
	}
	q := u.Query()
	if q.Has(keyParam) {
		q.Set(keyParam, "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// scrub hides the credential in transport errors, which quote the
// request URL.
func scrub(err error, keyParam string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = redact(ue.URL, keyParam)
	}
	return err
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
