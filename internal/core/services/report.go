package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// Default report file names, relative to the workspace root.
const (
	DefaultValidationReport      = "NOTEBOOK_VALIDATION_REPORT.md"
	DefaultStandardizationReport = "STANDARDIZATION_REPORT.md"
)

const reportTimeLayout = "2006-01-02 15:04:05"

// ReportService renders batch summaries as Markdown and JSON artifacts.
type ReportService struct {
	writer driven.ReportWriter
}

// NewReportService creates a new report service.
func NewReportService(writer driven.ReportWriter) *ReportService {
	return &ReportService{writer: writer}
}

// WriteValidation writes the Markdown report to path and its JSON sibling.
func (s *ReportService) WriteValidation(
	ctx context.Context,
	summary *domain.ValidationSummary,
	path string,
) (string, string, error) {
	if path == "" {
		path = DefaultValidationReport
	}
	return s.write(ctx, path, s.ValidationMarkdown(summary), summary)
}

// WriteStandardization writes the Markdown report to path and its JSON sibling.
func (s *ReportService) WriteStandardization(
	ctx context.Context,
	summary *domain.StandardizationSummary,
	path string,
) (string, string, error) {
	if path == "" {
		path = DefaultStandardizationReport
	}
	return s.write(ctx, path, s.StandardizationMarkdown(summary), summary)
}

func (s *ReportService) write(ctx context.Context, path, markdown string, summary any) (string, string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode report: %w", err)
	}
	mdPath, err := s.writer.WriteReport(ctx, path, []byte(markdown))
	if err != nil {
		return "", "", fmt.Errorf("write report: %w", err)
	}
	jsonPath, err := s.writer.WriteReport(ctx, jsonSibling(path), append(data, '\n'))
	if err != nil {
		return mdPath, "", fmt.Errorf("write report: %w", err)
	}
	return mdPath, jsonPath, nil
}

func jsonSibling(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// ValidationMarkdown renders a validation summary.
func (s *ReportService) ValidationMarkdown(summary *domain.ValidationSummary) string {
	var b strings.Builder
	total := summary.Total

	b.WriteString("# Notebook Validation Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", summary.GeneratedAt.Format(reportTimeLayout))
	fmt.Fprintf(&b, "**Run ID:** `%s`  \n", summary.RunID)
	fmt.Fprintf(&b, "**Total Notebooks:** %d\n\n", total)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- ✅ PASS: %d (%.1f%%)\n", summary.Pass, percent(summary.Pass, total))
	fmt.Fprintf(&b, "- ⚠️ PARTIAL: %d (%.1f%%)\n", summary.Partial, percent(summary.Partial, total))
	fmt.Fprintf(&b, "- ❌ FAIL: %d (%.1f%%)\n", summary.Fail, percent(summary.Fail, total))
	fmt.Fprintf(&b, "- 💥 ERROR: %d (%.1f%%)\n\n", summary.Error, percent(summary.Error, total))

	switch {
	case total > 0 && summary.Pass == total:
		b.WriteString("✅ **All notebooks validated successfully.**\n\n")
	case summary.Fail+summary.Error > 0:
		fmt.Fprintf(&b, "❌ **%d notebook(s) have critical issues.**\n\n", summary.Fail+summary.Error)
	case summary.Partial > 0:
		fmt.Fprintf(&b, "⚠️ **%d notebook(s) need improvements.**\n\n", summary.Partial)
	}

	if len(summary.EnvironmentWarnings) > 0 {
		b.WriteString("## Environment\n\n")
		for _, w := range summary.EnvironmentWarnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	results := sortedValidation(summary.Results)

	b.WriteString("## Status\n\n")
	b.WriteString("| Notebook | Status | Structure | Imports | Patterns |\n")
	b.WriteString("|----------|--------|-----------|---------|----------|\n")
	for _, r := range results {
		structure := r.Structure.Status
		if structure == domain.CheckPass && len(r.Structure.MissingSections) > 0 {
			structure = domain.CheckWarning
		}
		fmt.Fprintf(&b, "| `%s` | %s %s | %s | %s | %s |\n",
			r.Notebook, overallIcon(r.Overall), r.Overall,
			checkIcon(structure), checkIcon(r.Imports.Status), checkIcon(r.Patterns.Status))
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Detailed Results\n\n")
	detailed := false
	for _, r := range results {
		if r.Overall == domain.OverallPass {
			continue
		}
		detailed = true
		writeValidationDetail(&b, r)
	}
	if !detailed {
		b.WriteString("No issues found.\n\n")
	}

	writeRecommendations(&b, summary)

	b.WriteString("## Next Steps\n\n")
	b.WriteString("1. **Standardize:** Run `kra standardize --dry-run` to preview template fixes\n")
	b.WriteString("2. **Update Notebooks:** Add the missing sections and imports listed above\n")
	b.WriteString("3. **Test Execution:** Run each notebook end-to-end\n")
	b.WriteString("4. **Re-validate:** Run `kra validate` to confirm the issues are resolved\n\n")
	b.WriteString("---\n\n*Generated by kra validate*\n")
	return b.String()
}

func writeValidationDetail(b *strings.Builder, r domain.ValidationResult) {
	fmt.Fprintf(b, "### %s\n\n", r.Notebook)
	fmt.Fprintf(b, "**Overall Status:** %s\n\n", r.Overall)

	if r.Structure.Error != "" {
		fmt.Fprintf(b, "**Structure Error:** %s\n\n", r.Structure.Error)
	}
	if len(r.Structure.MissingSections) > 0 {
		b.WriteString("**Missing Sections:**\n")
		for _, section := range r.Structure.MissingSections {
			fmt.Fprintf(b, "- %s\n", section)
		}
		b.WriteString("\n")
	}
	if len(r.Structure.SchemaViolations) > 0 {
		b.WriteString("**Schema Notes:**\n")
		for _, v := range r.Structure.SchemaViolations {
			fmt.Fprintf(b, "- %s\n", v)
		}
		b.WriteString("\n")
	}

	if r.Imports.Status != domain.CheckPass {
		b.WriteString("**Import Issues:**\n")
		if r.Imports.Error != "" {
			fmt.Fprintf(b, "- probe error: %s\n", r.Imports.Error)
		}
		for _, f := range r.Imports.Failures() {
			fmt.Fprintf(b, "- `%s`: %s\n", f.Name, f.Message)
		}
		b.WriteString("\n")
	}

	if r.Patterns.Error != "" {
		fmt.Fprintf(b, "**Pattern Error:** %s\n\n", r.Patterns.Error)
	}
	if len(r.Patterns.Issues) > 0 {
		b.WriteString("**Code Pattern Issues:**\n")
		for _, issue := range r.Patterns.Issues {
			fmt.Fprintf(b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}
	b.WriteString("---\n\n")
}

func writeRecommendations(b *strings.Builder, summary *domain.ValidationSummary) {
	b.WriteString("## Recommendations\n\n")
	if summary.Fail+summary.Error == 0 && summary.Partial == 0 {
		b.WriteString("No action required.\n\n")
		return
	}
	if n := summary.Fail + summary.Error; n > 0 {
		b.WriteString("### Critical Actions Required\n\n")
		fmt.Fprintf(b, "1. **Fix %d failed notebook(s)** with structural or probe errors\n", n)
		b.WriteString("2. Check that each notebook is valid nbformat JSON with a `cells` array\n")
		b.WriteString("3. Make sure the interpreter can import the `kranalytics` package\n\n")
	}
	if summary.Partial > 0 {
		b.WriteString("### Improvements Needed\n\n")
		fmt.Fprintf(b, "1. **Standardize %d notebook(s)** to match the template\n", summary.Partial)
		b.WriteString("2. Add missing sections (Setup, Data Loading, Analysis, Insights)\n")
		b.WriteString("3. Use `kranalytics` utilities for data loading and tier-adaptive analysis\n")
		b.WriteString("4. Add execution tracking\n\n")
	}
}

// StandardizationMarkdown renders a standardization summary.
func (s *ReportService) StandardizationMarkdown(summary *domain.StandardizationSummary) string {
	var b strings.Builder

	b.WriteString("# Notebook Standardization Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", summary.GeneratedAt.Format(reportTimeLayout))
	fmt.Fprintf(&b, "**Run ID:** `%s`  \n", summary.RunID)
	if summary.DryRun {
		b.WriteString("**Mode:** dry run, no files were changed\n\n")
	} else {
		b.WriteString("**Mode:** applied\n\n")
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Total: %d\n", summary.Total)
	fmt.Fprintf(&b, "- ✅ Success: %d\n", summary.Success)
	fmt.Fprintf(&b, "- 🔍 Dry Run: %d\n", summary.DryRuns)
	fmt.Fprintf(&b, "- ❌ Errors: %d\n\n", summary.Errors)

	if !summary.DryRun && summary.BackupDir != "" {
		fmt.Fprintf(&b, "**Backups:** `%s`\n\n", summary.BackupDir)
	}

	b.WriteString("## Notebooks\n")
	for _, r := range summary.Results {
		fmt.Fprintf(&b, "\n### %s\n\n", r.Notebook)
		fmt.Fprintf(&b, "**Status:** %s  \n", r.Status)
		if r.Status != domain.RewriteError {
			fmt.Fprintf(&b, "**Cells:** %d → %d\n\n", r.CellsBefore, r.CellsAfter)
		} else {
			b.WriteString("\n")
		}
		if len(r.Changes) > 0 {
			b.WriteString("**Changes:**\n")
			for _, c := range r.Changes {
				fmt.Fprintf(&b, "- %s\n", c)
			}
			b.WriteString("\n")
		}
		if len(r.Errors) > 0 {
			b.WriteString("**Errors:**\n")
			for _, e := range r.Errors {
				fmt.Fprintf(&b, "- %s\n", e)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n---\n\n## Next Steps\n\n")
	b.WriteString("1. **Review Changes:** Open each updated notebook and verify the changes\n")
	b.WriteString("2. **Test Execution:** Run each notebook to make sure it executes\n")
	b.WriteString("3. **Validate:** Run `kra validate` to confirm the issues are resolved\n")
	return b.String()
}

func sortedValidation(results []domain.ValidationResult) []domain.ValidationResult {
	out := append([]domain.ValidationResult(nil), results...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Notebook < out[j].Notebook })
	return out
}

func overallIcon(s domain.OverallStatus) string {
	switch s {
	case domain.OverallPass:
		return "✅"
	case domain.OverallPartial:
		return "⚠️"
	case domain.OverallFail:
		return "❌"
	default:
		return "💥"
	}
}

func checkIcon(s domain.CheckStatus) string {
	switch s {
	case domain.CheckPass:
		return "✅"
	case domain.CheckWarning:
		return "⚠️"
	case domain.CheckFail:
		return "❌"
	case domain.CheckError:
		return "💥"
	default:
		return "❓"
	}
}
