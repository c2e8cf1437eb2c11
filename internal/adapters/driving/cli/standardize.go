package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/logger"
)

var standardizeCmd = &cobra.Command{
	Use:   "standardize",
	Short: "Rewrite notebooks to the canonical template",
	Long: `Rewrites every notebook in the notebooks directory to the canonical
template: a standard header, the shared imports cell, an execution tracking
cell and a standardized data loading cell. Legacy path and fetch cells are
removed.

Originals are copied to a timestamped backup directory before being
overwritten. Use --dry-run to see the changes without writing anything.

Exits 1 if any notebook could not be processed.`,
	Args: cobra.NoArgs,
	RunE: runStandardize,
}

func init() {
	standardizeCmd.Flags().Bool("dry-run", false, "compute changes without writing notebooks or backups")
	standardizeCmd.Flags().StringP("notebook", "n", "", "process only this notebook file")
	standardizeCmd.Flags().StringP("output", "o", "", "Markdown report path (default STANDARDIZATION_REPORT.md)")
	standardizeCmd.Flags().Bool("json", false, "print the summary as JSON")
	rootCmd.AddCommand(standardizeCmd)
}

func runStandardize(cmd *cobra.Command, _ []string) error {
	if services.Standardize == nil {
		return notConfigured("standardize")
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")      //nolint:errcheck // flag is registered
	notebook, _ := cmd.Flags().GetString("notebook") //nolint:errcheck // flag is registered
	output, _ := cmd.Flags().GetString("output")     //nolint:errcheck // flag is registered
	asJSON, _ := cmd.Flags().GetBool("json")         //nolint:errcheck // flag is registered

	logger.Section("Standardize")
	summary, err := services.Standardize.StandardizeAll(cmd.Context(), domain.StandardizeOptions{
		Notebook: notebook,
		DryRun:   dryRun,
	})
	if err != nil {
		return fmt.Errorf("standardize: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
	} else {
		printStandardization(cmd, summary)
	}

	if services.Report != nil {
		mdPath, _, err := services.Report.WriteStandardization(cmd.Context(), summary, output)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if !asJSON {
			cmd.Printf("\nReport: %s\n", mdPath)
		}
	}

	if summary.Errors > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

func printStandardization(cmd *cobra.Command, s *domain.StandardizationSummary) {
	p := newPrinter(cmd.OutOrStdout())

	for i := range s.Results {
		r := &s.Results[i]
		cmd.Printf("%s %s %s\n", p.badge(string(r.Status)), r.Notebook,
			p.dim(fmt.Sprintf("(%d -> %d cells)", r.CellsBefore, r.CellsAfter)))
		for _, c := range r.Changes {
			cmd.Printf("    - %s\n", c)
		}
		for _, e := range r.Errors {
			cmd.Printf("    ! %s\n", e)
		}
	}

	cmd.Println()
	cmd.Printf("%s total=%d success=%d dry_run=%d errors=%d\n",
		p.heading("Summary:"), s.Total, s.Success, s.DryRuns, s.Errors)
	if s.BackupDir != "" {
		cmd.Printf("Backups: %s\n", s.BackupDir)
	}
}
