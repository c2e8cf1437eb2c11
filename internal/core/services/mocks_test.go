package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/krlabs/kra/internal/core/domain"
)

// mockProber returns fixed verdicts or a fixed error.
type mockProber struct {
	verdicts map[string]string
	err      error
	calls    int
}

func (m *mockProber) Probe(_ context.Context, _ []domain.Capability) (map[string]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.verdicts, nil
}

// allOK returns verdicts resolving every required capability.
func allOK() map[string]string {
	v := make(map[string]string, len(domain.RequiredCapabilities))
	for _, c := range domain.RequiredCapabilities {
		v[c.Name] = "OK"
	}
	return v
}

type mockInspector struct {
	env      domain.EnvironmentSnapshot
	packages map[string]string
	err      error
}

func (m *mockInspector) Inspect(_ context.Context, packages []string) (domain.EnvironmentSnapshot, map[string]string, error) {
	if m.err != nil {
		return domain.EnvironmentSnapshot{}, nil, m.err
	}
	out := make(map[string]string, len(packages))
	for _, p := range packages {
		if v, ok := m.packages[p]; ok {
			out[p] = v
		} else {
			out[p] = domain.PackageNotInstalled
		}
	}
	return m.env, out, nil
}

type mockSchema struct {
	violations []string
}

func (m *mockSchema) Validate(_ []byte) ([]string, error) {
	return m.violations, nil
}

// mockInventory reports the first word after "import " on each line.
type mockInventory struct{}

func (mockInventory) Modules(source string) []string {
	var out []string
	for _, line := range strings.Split(source, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "import "); ok {
			out = append(out, strings.Fields(rest)[0])
		}
	}
	return out
}

type mockFetcher struct {
	mu       sync.Mutex
	datasets map[string]*domain.Dataset
	errs     map[string]error
	keys     []string
	calls    []string
}

func (m *mockFetcher) Fetch(_ context.Context, spec domain.DatasetSpec, credential string) (*domain.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, spec.Name)
	m.keys = append(m.keys, credential)
	if err := m.errs[spec.Name]; err != nil {
		return nil, err
	}
	ds, ok := m.datasets[spec.Name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ds
	cp.Source = "remote"
	return &cp, nil
}

type mockReportWriter struct {
	files map[string][]byte
	err   error
}

func (m *mockReportWriter) WriteReport(_ context.Context, path string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[path] = data
	return "/ws/" + path, nil
}

// notebookJSON builds a minimal nbformat document from alternating
// cell type and source pairs.
func notebookJSON(cells ...string) []byte {
	type cell struct {
		CellType       string          `json:"cell_type"`
		Metadata       map[string]any  `json:"metadata"`
		Source         string          `json:"source"`
		Outputs        []any           `json:"outputs,omitempty"`
		ExecutionCount json.RawMessage `json:"execution_count,omitempty"`
	}
	doc := struct {
		Cells         []cell         `json:"cells"`
		Metadata      map[string]any `json:"metadata"`
		Nbformat      int            `json:"nbformat"`
		NbformatMinor int            `json:"nbformat_minor"`
	}{Metadata: map[string]any{}, Nbformat: 4, NbformatMinor: 5}

	for i := 0; i+1 < len(cells); i += 2 {
		c := cell{CellType: cells[i], Metadata: map[string]any{}, Source: cells[i+1]}
		if c.CellType == "code" {
			c.Outputs = []any{}
			c.ExecutionCount = json.RawMessage("null")
		}
		doc.Cells = append(doc.Cells, c)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}

// completeNotebook passes every structure and pattern check.
func completeNotebook() []byte {
	return notebookJSON(
		"markdown", "# Income Analysis\nDomain: Income Inequality\nTier: 2-4",
		"markdown", "## Setup",
		"code", "import kranalytics\nfrom kranalytics import data_utils",
		"markdown", "## Data Loading",
		"code", "df = data_utils.load_data('Census ACS')",
		"markdown", "## Analysis and Visualization",
		"code", "fig = df.plot()",
		"markdown", "## Key Findings and Insights",
	)
}

func noEnv(string) (string, bool) { return "", false }
