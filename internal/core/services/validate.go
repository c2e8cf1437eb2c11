package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/core/ports/driving"
	"github.com/krlabs/kra/internal/logger"
	"github.com/krlabs/kra/internal/notebook"
)

// Ensure ValidateService implements the interface.
var _ driving.ValidateService = (*ValidateService)(nil)

// probeOK is the probe's verdict for a resolved capability.
const probeOK = "OK"

// importOutcome reads the probe verdict for one capability.
func importOutcome(c domain.Capability, verdicts map[string]string) domain.ImportOutcome {
	outcome := domain.ImportOutcome{Name: c.Name}
	verdict, ok := verdicts[c.Name]
	switch {
	case !ok:
		outcome.Message = "no result reported"
	case verdict == probeOK:
		outcome.OK = true
	default:
		outcome.Message = strings.TrimSpace(strings.TrimPrefix(verdict, "FAIL:"))
	}
	return outcome
}

// environmentPackages are checked before a batch. Missing ones only warn.
var environmentPackages = []string{
	"pandas", "numpy", "matplotlib", "seaborn", "plotly",
	"scikit-learn", "scipy", "statsmodels",
}

// ValidateService runs the structure, import and pattern checks.
type ValidateService struct {
	notebooks driven.NotebookStore
	prober    driven.ImportProber
	inspector driven.EnvironmentInspector
	schema    driven.SchemaValidator
	inventory driven.ImportInventory
	history   driven.RunHistoryStore

	lookupEnv func(string) (string, bool)
	now       func() time.Time
}

// NewValidateService creates a new validate service.
// The inspector, schema, inventory and history ports are optional.
func NewValidateService(
	notebooks driven.NotebookStore,
	prober driven.ImportProber,
	inspector driven.EnvironmentInspector,
	schema driven.SchemaValidator,
	inventory driven.ImportInventory,
	history driven.RunHistoryStore,
) *ValidateService {
	return &ValidateService{
		notebooks: notebooks,
		prober:    prober,
		inspector: inspector,
		schema:    schema,
		inventory: inventory,
		history:   history,
		lookupEnv: os.LookupEnv,
		now:       time.Now,
	}
}

// ValidateAll validates every notebook, or the one named in opts,
// sequentially in sorted order.
func (s *ValidateService) ValidateAll(ctx context.Context, opts domain.ValidateOptions) (*domain.ValidationSummary, error) {
	names, err := resolveNotebooks(ctx, s.notebooks, opts.Notebook)
	if err != nil {
		return nil, err
	}

	started := s.now()
	summary := &domain.ValidationSummary{
		RunID:               uuid.NewString(),
		EnvironmentWarnings: s.environmentWarnings(ctx),
	}

	logger.Section("Validate")
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.Results = append(summary.Results, s.ValidateOne(ctx, name))
	}

	summary.Tally()
	summary.GeneratedAt = s.now()
	s.record(ctx, summary, started)
	return summary, nil
}

// ValidateOne runs all three checks on one notebook. A failure in one
// check never prevents the others from running.
func (s *ValidateService) ValidateOne(ctx context.Context, name string) domain.ValidationResult {
	result := domain.ValidationResult{
		Notebook:  name,
		Path:      s.notebooks.Path(name),
		Timestamp: s.now(),
	}

	data, err := s.notebooks.Read(ctx, name)
	var nb *domain.Notebook
	if err == nil {
		nb, err = notebook.Parse(name, data)
	}

	result.Structure = s.checkStructure(nb, data, err)
	result.Imports = s.checkImports(ctx)
	result.Patterns = s.checkPatterns(nb, err)
	result.Overall = domain.DeriveOverall(result.Structure.Status, result.Imports.Status, result.Patterns.Status)

	logger.Debug("%s: structure=%s imports=%s patterns=%s overall=%s",
		name, result.Structure.Status, result.Imports.Status, result.Patterns.Status, result.Overall)
	return result
}

func (s *ValidateService) checkStructure(nb *domain.Notebook, data []byte, loadErr error) domain.StructureResult {
	if loadErr != nil {
		return domain.StructureResult{
			Status:          domain.CheckError,
			Error:           loadErr.Error(),
			Sections:        []domain.Finding{},
			MissingSections: []string{},
		}
	}

	markdown := nb.JoinedText(domain.CellMarkdown)
	result := domain.StructureResult{
		Status:          domain.CheckPass,
		TotalCells:      nb.Len(),
		CodeCells:       nb.Count(domain.CellCode),
		MarkdownCells:   nb.Count(domain.CellMarkdown),
		HasMetadata:     nb.HasField("metadata"),
		Sections:        make([]domain.Finding, 0, len(sectionChecks)),
		MissingSections: []string{},
	}
	for _, check := range sectionChecks {
		found := check.Match(markdown)
		result.Sections = append(result.Sections, domain.Finding{Name: check.Name, Found: found})
		if !found {
			result.MissingSections = append(result.MissingSections, check.Name)
		}
	}

	if s.schema != nil {
		violations, err := s.schema.Validate(data)
		if err != nil {
			logger.Debug("schema check %s: %v", nb.Name, err)
		}
		result.SchemaViolations = violations
	}
	return result
}

func (s *ValidateService) checkImports(ctx context.Context) domain.ImportResult {
	if s.prober == nil {
		return domain.ImportResult{
			Status:   domain.CheckError,
			Error:    fmt.Errorf("%w: no prober configured", domain.ErrProbe).Error(),
			Outcomes: []domain.ImportOutcome{},
		}
	}

	verdicts, err := s.prober.Probe(ctx, domain.RequiredCapabilities)
	if err != nil {
		return domain.ImportResult{
			Status:   domain.CheckError,
			Error:    err.Error(),
			Outcomes: []domain.ImportOutcome{},
		}
	}

	result := domain.ImportResult{Outcomes: make([]domain.ImportOutcome, 0, len(domain.RequiredCapabilities))}
	for _, c := range domain.RequiredCapabilities {
		outcome := importOutcome(c, verdicts)
		if outcome.OK {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	result.Total = len(result.Outcomes)

	result.Status = domain.CheckPass
	if result.Failed > 0 {
		result.Status = domain.CheckFail
	}
	return result
}

func (s *ValidateService) checkPatterns(nb *domain.Notebook, loadErr error) domain.PatternResult {
	if loadErr != nil {
		return domain.PatternResult{
			Status:   domain.CheckError,
			Error:    loadErr.Error(),
			Patterns: []domain.Finding{},
			Issues:   []string{},
		}
	}

	code := nb.JoinedText(domain.CellCode)
	result := domain.PatternResult{
		Patterns: make([]domain.Finding, 0, len(patternChecks)),
		Issues:   []string{},
	}
	found := make(map[string]bool, len(patternChecks))
	for _, check := range patternChecks {
		found[check.Name] = check.Match(code)
		result.Patterns = append(result.Patterns, domain.Finding{Name: check.Name, Found: found[check.Name]})
	}
	for _, pi := range patternIssues {
		if !found[pi.pattern] {
			result.Issues = append(result.Issues, pi.issue)
		}
	}

	result.Status = domain.CheckPass
	if len(result.Issues) > 0 {
		result.Status = domain.CheckWarning
	}
	result.ImportedModules = s.importedModules(nb)
	return result
}

// importedModules parses each code cell separately so a cell with
// notebook magics does not hide imports in the others.
func (s *ValidateService) importedModules(nb *domain.Notebook) []string {
	if s.inventory == nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, c := range nb.Cells() {
		if !c.IsCode() {
			continue
		}
		for _, m := range s.inventory.Modules(c.Text()) {
			seen[m] = true
		}
	}
	modules := make([]string, 0, len(seen))
	for m := range seen {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	return modules
}

// environmentWarnings reports missing interpreter packages and unset
// data source credentials. None of them block validation.
func (s *ValidateService) environmentWarnings(ctx context.Context) []string {
	var warnings []string
	if s.inspector != nil {
		_, packages, err := s.inspector.Inspect(ctx, environmentPackages)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("environment check failed: %v", err))
		} else {
			for _, pkg := range environmentPackages {
				if packages[pkg] == domain.PackageNotInstalled {
					warnings = append(warnings, fmt.Sprintf("package %s is not installed", pkg))
				}
			}
		}
	}
	for _, env := range domain.CredentialEnvVars {
		if v, ok := s.lookupEnv(env); !ok || v == "" {
			warnings = append(warnings, fmt.Sprintf("%s is not set; notebooks will use sample data", env))
		}
	}
	return warnings
}

func (s *ValidateService) record(ctx context.Context, summary *domain.ValidationSummary, started time.Time) {
	entries := make([]domain.RunEntry, 0, len(summary.Results))
	for _, r := range summary.Results {
		detail, _ := json.Marshal(r)
		entries = append(entries, domain.RunEntry{Notebook: r.Notebook, Status: r.Overall.String(), Detail: detail})
	}
	recordRun(ctx, s.history, &domain.RunRecord{
		ID:         summary.RunID,
		Kind:       domain.RunValidate,
		StartedAt:  started,
		FinishedAt: summary.GeneratedAt,
		Total:      summary.Total,
		Counts: map[string]int{
			domain.OverallPass.String():    summary.Pass,
			domain.OverallPartial.String(): summary.Partial,
			domain.OverallFail.String():    summary.Fail,
			domain.OverallError.String():   summary.Error,
		},
		Results: entries,
	})
}
