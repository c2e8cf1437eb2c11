package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded standardize and validate runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the per-notebook statuses of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyListCmd.Flags().IntP("limit", "l", 20, "maximum number of runs")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if services.History == nil {
		return notConfigured("history")
	}
	limit, _ := cmd.Flags().GetInt("limit") //nolint:errcheck // flag is registered

	runs, err := services.History.List(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	for i := range runs {
		r := &runs[i]
		cmd.Printf("%s  %-11s  %s  %d notebooks  %s\n",
			r.ID, r.Kind, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Total, formatCounts(r.Counts))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if services.History == nil {
		return notConfigured("history")
	}

	run, err := services.History.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	p := newPrinter(cmd.OutOrStdout())
	cmd.Printf("Run %s (%s)\n", run.ID, run.Kind)
	cmd.Printf("Started:  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("Finished: %s\n", run.FinishedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("Counts:   %s\n\n", formatCounts(run.Counts))
	for _, e := range run.Results {
		cmd.Printf("%s %s\n", p.badge(e.Status), e.Notebook)
	}
	return nil
}

// formatCounts renders counts as "ERROR=1 PASS=2" in key order.
func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
