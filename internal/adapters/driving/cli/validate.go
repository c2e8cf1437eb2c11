package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/krlabs/kra/internal/adapters/driving/watch"
	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate notebooks",
	Long: `Runs three checks on every notebook:

  structure  the notebook parses, has metadata and the expected sections
  imports    the required packages and kranalytics modules import cleanly
  patterns   kranalytics usage, data loading and visualization are present

Missing interpreter packages and unset API keys are reported as environment
warnings and never fail the run.

Exit codes: 0 all PASS, 2 any PARTIAL, 1 any FAIL or ERROR.

With --watch, notebooks are re-validated whenever they are saved until the
process is interrupted.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringP("notebook", "n", "", "validate only this notebook file")
	validateCmd.Flags().StringP("output", "o", "", "Markdown report path (default NOTEBOOK_VALIDATION_REPORT.md)")
	validateCmd.Flags().Bool("json", false, "print the summary as JSON")
	validateCmd.Flags().BoolP("detailed", "d", false, "print per-check details for each notebook")
	validateCmd.Flags().Bool("watch", false, "re-validate notebooks as they change")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if services.Validate == nil {
		return notConfigured("validate")
	}

	notebook, _ := cmd.Flags().GetString("notebook") //nolint:errcheck // flag is registered
	output, _ := cmd.Flags().GetString("output")     //nolint:errcheck // flag is registered
	asJSON, _ := cmd.Flags().GetBool("json")         //nolint:errcheck // flag is registered
	detailed, _ := cmd.Flags().GetBool("detailed")   //nolint:errcheck // flag is registered
	watching, _ := cmd.Flags().GetBool("watch")      //nolint:errcheck // flag is registered

	start := time.Now()
	logger.Section("Validate")
	summary, err := services.Validate.ValidateAll(cmd.Context(), domain.ValidateOptions{Notebook: notebook})
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	logger.Elapsed("validate", start)

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
	} else {
		printValidation(cmd, summary, detailed)
	}

	if services.Report != nil {
		mdPath, _, err := services.Report.WriteValidation(cmd.Context(), summary, output)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if !asJSON {
			cmd.Printf("\nReport: %s\n", mdPath)
		}
	}

	if watching {
		return watchNotebooks(cmd, detailed)
	}

	if code := validationExitCode(summary); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// validationExitCode is 1 for any FAIL or ERROR, 2 for any PARTIAL.
func validationExitCode(s *domain.ValidationSummary) int {
	switch {
	case s.Fail > 0 || s.Error > 0:
		return 1
	case s.Partial > 0:
		return 2
	default:
		return 0
	}
}

func watchNotebooks(cmd *cobra.Command, detailed bool) error {
	if services.NotebooksDir == "" {
		return notConfigured("notebook directory")
	}

	debounce := watch.DefaultDebounce
	if services.Settings != nil {
		if settings, err := services.Settings.Get(); err == nil {
			debounce = settings.Watch.Debounce
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := newPrinter(cmd.OutOrStdout())
	cmd.Printf("\nWatching %s (Ctrl+C to stop)\n", services.NotebooksDir)

	w := watch.New(services.NotebooksDir, debounce, func(ctx context.Context, name string) {
		r := services.Validate.ValidateOne(ctx, name)
		cmd.Printf("%s %s %s\n", p.dim(time.Now().Format("15:04:05")), p.overall(r.Overall), r.Notebook)
		if detailed {
			printResultDetail(cmd, &r)
		}
	})
	return w.Run(ctx)
}

func printValidation(cmd *cobra.Command, s *domain.ValidationSummary, detailed bool) {
	p := newPrinter(cmd.OutOrStdout())

	if len(s.EnvironmentWarnings) > 0 {
		cmd.Println(p.heading("Environment"))
		for _, w := range s.EnvironmentWarnings {
			cmd.Printf("  %s %s\n", p.badge("WARNING"), w)
		}
		cmd.Println()
	}

	for i := range s.Results {
		r := &s.Results[i]
		cmd.Printf("%s %s\n", p.overall(r.Overall), r.Notebook)
		if detailed {
			printResultDetail(cmd, r)
		}
	}

	cmd.Println()
	cmd.Printf("%s total=%d pass=%d partial=%d fail=%d error=%d\n",
		p.heading("Summary:"), s.Total, s.Pass, s.Partial, s.Fail, s.Error)
}

func printResultDetail(cmd *cobra.Command, r *domain.ValidationResult) {
	p := newPrinter(cmd.OutOrStdout())

	cmd.Printf("    structure %s", p.badge(string(r.Structure.Status)))
	if r.Structure.Error == "" {
		cmd.Printf(" %s", p.dim(fmt.Sprintf("(%d cells: %d code, %d markdown)",
			r.Structure.TotalCells, r.Structure.CodeCells, r.Structure.MarkdownCells)))
	}
	cmd.Println()
	if r.Structure.Error != "" {
		cmd.Printf("      ! %s\n", r.Structure.Error)
	}
	for _, m := range r.Structure.MissingSections {
		cmd.Printf("      missing section: %s\n", m)
	}
	for _, v := range r.Structure.SchemaViolations {
		cmd.Printf("      schema: %s\n", v)
	}

	cmd.Printf("    imports   %s %s\n", p.badge(string(r.Imports.Status)),
		p.dim(fmt.Sprintf("(%d/%d)", r.Imports.Passed, r.Imports.Total)))
	if r.Imports.Error != "" {
		cmd.Printf("      ! %s\n", r.Imports.Error)
	}
	for _, f := range r.Imports.Failures() {
		cmd.Printf("      %s: %s\n", f.Name, f.Message)
	}

	cmd.Printf("    patterns  %s\n", p.badge(string(r.Patterns.Status)))
	if r.Patterns.Error != "" {
		cmd.Printf("      ! %s\n", r.Patterns.Error)
	}
	for _, issue := range r.Patterns.Issues {
		cmd.Printf("      %s\n", issue)
	}
	if len(r.Patterns.ImportedModules) > 0 {
		cmd.Printf("      %s\n", p.dim(fmt.Sprintf("imports: %v", r.Patterns.ImportedModules)))
	}
}
