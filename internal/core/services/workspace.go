package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/core/ports/driving"
	"github.com/krlabs/kra/internal/notebook"
)

// Ensure WorkspaceService implements the interface.
var _ driving.WorkspaceService = (*WorkspaceService)(nil)

// Workspace check names.
const (
	CheckNoDuplicateDocs = "no_duplicate_docs"
	CheckDocsDirectory   = "docs_directory"
	CheckReadme          = "readme"
	CheckNotebookNaming  = "notebook_naming"
	CheckRegistry        = "registry"
	CheckImportPatterns  = "import_patterns"
	CheckOutdatedMarkers = "outdated_markers"
	CheckPyproject       = "pyproject"
	CheckPackageImport   = "package_importable"
	CheckNotebookErrors  = "notebook_errors"
)

const (
	readmeMinBytes = 100
	registryPath   = "notebooks/notebook_registry.json"
	pyprojectPath  = "pyproject.toml"
	packageName    = "kranalytics"
)

// packageCapability resolves the package together with its version marker.
var packageCapability = domain.Capability{
	Name:      packageName,
	Statement: "from " + packageName + " import __version__",
}

var (
	readmeSections  = []string{"## Overview", "## Quick Start", "## Workspace Structure", "## Documentation"}
	outdatedMarkers = []string{"##PATH##", "PLACEHOLDER", "TODO:"}
	notebookName    = regexp.MustCompile(`^\d{2}_[A-Za-z0-9_]+\.ipynb$`)
)

// WorkspaceService checks the layout and naming conventions of a workspace.
type WorkspaceService struct {
	root               fs.FS
	notebooksDir       string
	problematicImports []string
	prober             driven.ImportProber
}

// NewWorkspaceService creates a workspace checker over root. notebooksDir
// is relative to root and uses forward slashes. The prober is optional;
// without it the package import check is a warning.
func NewWorkspaceService(
	root fs.FS,
	notebooksDir string,
	problematicImports []string,
	prober driven.ImportProber,
) *WorkspaceService {
	return &WorkspaceService{
		root:               root,
		notebooksDir:       path.Clean(notebooksDir),
		problematicImports: problematicImports,
		prober:             prober,
	}
}

// Check runs every workspace check in a fixed order.
func (s *WorkspaceService) Check(ctx context.Context) (*domain.WorkspaceReport, error) {
	checks := []func() domain.WorkspaceCheck{
		s.checkNoDuplicateDocs,
		s.checkDocsDirectory,
		s.checkReadme,
		s.checkNotebookNaming,
		s.checkRegistry,
		s.checkImportPatterns,
		s.checkOutdatedMarkers,
		s.checkPyproject,
		func() domain.WorkspaceCheck { return s.checkPackageImport(ctx) },
		s.checkNotebookErrors,
	}

	report := &domain.WorkspaceReport{Checks: make([]domain.WorkspaceCheck, 0, len(checks))}
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Checks = append(report.Checks, check())
	}
	return report, nil
}

func pass(name string, messages ...string) domain.WorkspaceCheck {
	return domain.WorkspaceCheck{Name: name, Status: domain.CheckPass, Messages: messages}
}

func (s *WorkspaceService) checkNoDuplicateDocs() domain.WorkspaceCheck {
	if _, err := fs.Stat(s.root, "notebooks/docs"); err == nil {
		return domain.WorkspaceCheck{
			Name:     CheckNoDuplicateDocs,
			Status:   domain.CheckFail,
			Messages: []string{"duplicate docs structure found at notebooks/docs"},
		}
	}
	return pass(CheckNoDuplicateDocs)
}

func (s *WorkspaceService) checkDocsDirectory() domain.WorkspaceCheck {
	info, err := fs.Stat(s.root, "docs")
	if err != nil || !info.IsDir() {
		return domain.WorkspaceCheck{
			Name:     CheckDocsDirectory,
			Status:   domain.CheckFail,
			Messages: []string{"docs directory is missing"},
		}
	}
	count := 0
	_ = fs.WalkDir(s.root, "docs", func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && strings.HasSuffix(p, ".md") {
			count++
		}
		return nil
	})
	return pass(CheckDocsDirectory, fmt.Sprintf("%d markdown files", count))
}

func (s *WorkspaceService) checkReadme() domain.WorkspaceCheck {
	data, err := fs.ReadFile(s.root, "README.md")
	if err != nil {
		return domain.WorkspaceCheck{Name: CheckReadme, Status: domain.CheckFail, Messages: []string{"README.md not found"}}
	}

	var problems []string
	if len(data) < readmeMinBytes {
		problems = append(problems, fmt.Sprintf("README too small: %d bytes", len(data)))
	}
	content := string(data)
	for _, section := range readmeSections {
		if !strings.Contains(content, section) {
			problems = append(problems, fmt.Sprintf("missing section %q", section))
		}
	}
	if len(problems) > 0 {
		return domain.WorkspaceCheck{Name: CheckReadme, Status: domain.CheckFail, Messages: problems}
	}
	return pass(CheckReadme, fmt.Sprintf("%d bytes", len(data)))
}

func (s *WorkspaceService) checkNotebookNaming() domain.WorkspaceCheck {
	entries, err := fs.ReadDir(s.root, s.notebooksDir)
	if err != nil {
		return domain.WorkspaceCheck{
			Name:     CheckNotebookNaming,
			Status:   domain.CheckWarning,
			Messages: []string{fmt.Sprintf("%s not readable: %v", s.notebooksDir, err)},
		}
	}
	var bad []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".ipynb") {
			continue
		}
		if !notebookName.MatchString(e.Name()) {
			bad = append(bad, fmt.Sprintf("%s does not match NN_Name.ipynb", e.Name()))
		}
	}
	if len(bad) > 0 {
		return domain.WorkspaceCheck{Name: CheckNotebookNaming, Status: domain.CheckWarning, Messages: bad}
	}
	return pass(CheckNotebookNaming)
}

func (s *WorkspaceService) checkRegistry() domain.WorkspaceCheck {
	data, err := fs.ReadFile(s.root, registryPath)
	if errors.Is(err, fs.ErrNotExist) {
		return pass(CheckRegistry, "no registry present")
	}
	if err != nil {
		return domain.WorkspaceCheck{Name: CheckRegistry, Status: domain.CheckFail, Messages: []string{err.Error()}}
	}
	if !json.Valid(data) {
		return domain.WorkspaceCheck{
			Name:     CheckRegistry,
			Status:   domain.CheckFail,
			Messages: []string{registryPath + " is not valid JSON"},
		}
	}
	return pass(CheckRegistry)
}

func (s *WorkspaceService) checkImportPatterns() domain.WorkspaceCheck {
	if _, err := fs.Stat(s.root, "src"); err != nil {
		return pass(CheckImportPatterns, "no src directory")
	}
	var found []string
	_ = fs.WalkDir(s.root, "src", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".py") {
			return nil
		}
		data, err := fs.ReadFile(s.root, p)
		if err != nil {
			return nil
		}
		for _, pattern := range s.problematicImports {
			if strings.Contains(string(data), pattern) {
				found = append(found, fmt.Sprintf("%s contains %q", p, pattern))
			}
		}
		return nil
	})
	if len(found) > 0 {
		return domain.WorkspaceCheck{Name: CheckImportPatterns, Status: domain.CheckFail, Messages: found}
	}
	return pass(CheckImportPatterns)
}

func (s *WorkspaceService) checkOutdatedMarkers() domain.WorkspaceCheck {
	var found []string
	_ = fs.WalkDir(s.root, "docs", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".md") {
			return nil
		}
		data, err := fs.ReadFile(s.root, p)
		if err != nil {
			return nil
		}
		for _, marker := range outdatedMarkers {
			if strings.Contains(string(data), marker) {
				found = append(found, fmt.Sprintf("%s contains %s", p, marker))
			}
		}
		return nil
	})
	if len(found) > 0 {
		return domain.WorkspaceCheck{Name: CheckOutdatedMarkers, Status: domain.CheckWarning, Messages: found}
	}
	return pass(CheckOutdatedMarkers)
}

func (s *WorkspaceService) checkPyproject() domain.WorkspaceCheck {
	fail := func(msg string) domain.WorkspaceCheck {
		return domain.WorkspaceCheck{Name: CheckPyproject, Status: domain.CheckFail, Messages: []string{msg}}
	}

	data, err := fs.ReadFile(s.root, pyprojectPath)
	if err != nil {
		return fail(pyprojectPath + " not found")
	}
	var doc struct {
		Project *struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fail(fmt.Sprintf("%s is not valid TOML: %v", pyprojectPath, err))
	}
	switch {
	case doc.Project == nil:
		return fail(pyprojectPath + " has no [project] table")
	case doc.Project.Name != packageName:
		return fail(fmt.Sprintf("project name is %q, want %q", doc.Project.Name, packageName))
	case doc.Project.Version == "":
		return fail(pyprojectPath + " has no project version")
	}
	return pass(CheckPyproject, doc.Project.Name+" "+doc.Project.Version)
}

func (s *WorkspaceService) checkPackageImport(ctx context.Context) domain.WorkspaceCheck {
	if s.prober == nil {
		return domain.WorkspaceCheck{
			Name:     CheckPackageImport,
			Status:   domain.CheckWarning,
			Messages: []string{"import probe not configured"},
		}
	}

	verdicts, err := s.prober.Probe(ctx, []domain.Capability{packageCapability})
	if err != nil {
		return domain.WorkspaceCheck{Name: CheckPackageImport, Status: domain.CheckFail, Messages: []string{err.Error()}}
	}
	if err := importOutcome(packageCapability, verdicts).Err(); err != nil {
		return domain.WorkspaceCheck{Name: CheckPackageImport, Status: domain.CheckFail, Messages: []string{err.Error()}}
	}
	return pass(CheckPackageImport)
}

func (s *WorkspaceService) checkNotebookErrors() domain.WorkspaceCheck {
	entries, err := fs.ReadDir(s.root, s.notebooksDir)
	if err != nil {
		return pass(CheckNotebookErrors, "no notebooks to scan")
	}

	var found []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".ipynb") || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := fs.ReadFile(s.root, path.Join(s.notebooksDir, name))
		if err != nil {
			found = append(found, err.Error())
			continue
		}
		nb, err := notebook.Parse(name, data)
		if err != nil {
			found = append(found, err.Error())
			continue
		}
		for i, c := range nb.Cells() {
			if c.IsCode() && hasErrorOutput(c.Outputs) {
				found = append(found, fmt.Sprintf("%s cell %d: contains error output", name, i+1))
			}
		}
	}
	if len(found) > 0 {
		return domain.WorkspaceCheck{Name: CheckNotebookErrors, Status: domain.CheckFail, Messages: found}
	}
	return pass(CheckNotebookErrors)
}

func hasErrorOutput(outputs []json.RawMessage) bool {
	for _, raw := range outputs {
		var out struct {
			OutputType string `json:"output_type"`
		}
		if json.Unmarshal(raw, &out) == nil && out.OutputType == "error" {
			return true
		}
	}
	return false
}
