package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Workspace layout commands",
}

var workspaceCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check workspace layout and naming conventions",
	Long: `Checks the README, docs and notebook naming conventions, the notebook
registry, import patterns in src/ and outdated markers in docs/.

Exits 1 if any check fails. Warnings do not affect the exit code.`,
	Args: cobra.NoArgs,
	RunE: runWorkspaceCheck,
}

func init() {
	workspaceCheckCmd.Flags().Bool("json", false, "print the report as JSON")

	workspaceCmd.AddCommand(workspaceCheckCmd)
	rootCmd.AddCommand(workspaceCmd)
}

func runWorkspaceCheck(cmd *cobra.Command, _ []string) error {
	if services.Workspace == nil {
		return notConfigured("workspace")
	}
	asJSON, _ := cmd.Flags().GetBool("json") //nolint:errcheck // flag is registered

	report, err := services.Workspace.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("check workspace: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		p := newPrinter(cmd.OutOrStdout())
		for _, c := range report.Checks {
			cmd.Printf("%s %s\n", p.badge(string(c.Status)), c.Name)
			for _, m := range c.Messages {
				cmd.Printf("    %s\n", m)
			}
		}
	}

	if report.Failed() {
		return &ExitError{Code: 1}
	}
	return nil
}
