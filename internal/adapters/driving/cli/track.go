package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/krlabs/kra/internal/core/domain"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record notebook execution logs",
	Long: `Creates and updates execution logs for notebook runs. Each log records
the environment, tracked package versions, section timings, results and
errors, and is stored as JSON under the logs directory.

A notebook typically calls "track start" in its tracking cell, records
sections and results as it runs, and calls "track finish" at the end.`,
}

var trackStartCmd = &cobra.Command{
	Use:   "start <notebook-name>",
	Short: "Start a new execution log and print its id",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackStart,
}

var trackSectionCmd = &cobra.Command{
	Use:       "section <execution-id> <name> <start|end>",
	Short:     "Record the start or end of a section",
	Args:      cobra.ExactArgs(3),
	ValidArgs: []string{string(domain.SectionStart), string(domain.SectionEnd)},
	RunE:      runTrackSection,
}

var trackResultCmd = &cobra.Command{
	Use:   "result <execution-id> <key> <value>",
	Short: "Store a result value",
	Long:  `Stores a result on the log. Values that parse as JSON are stored as such; anything else is stored as a string.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runTrackResult,
}

var trackErrorCmd = &cobra.Command{
	Use:   "error <execution-id> <message>",
	Short: "Append an error message",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackError,
}

var trackFinishCmd = &cobra.Command{
	Use:   "finish <execution-id>",
	Short: "Finish a log and print its status",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackFinish,
}

var trackShowCmd = &cobra.Command{
	Use:   "show <execution-id>",
	Short: "Print an execution log as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackShow,
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent execution logs",
	Args:  cobra.NoArgs,
	RunE:  runTrackList,
}

func init() {
	trackStartCmd.Flags().String("version", "", "notebook version (default from settings)")
	trackStartCmd.Flags().Int64("seed", 0, "random seed (default from settings)")
	trackStartCmd.Flags().Bool("advanced", false, "mark the run as using advanced analytics")
	trackListCmd.Flags().IntP("limit", "l", 10, "maximum number of logs")

	trackCmd.AddCommand(trackStartCmd)
	trackCmd.AddCommand(trackSectionCmd)
	trackCmd.AddCommand(trackResultCmd)
	trackCmd.AddCommand(trackErrorCmd)
	trackCmd.AddCommand(trackFinishCmd)
	trackCmd.AddCommand(trackShowCmd)
	trackCmd.AddCommand(trackListCmd)
	rootCmd.AddCommand(trackCmd)
}

func runTrackStart(cmd *cobra.Command, args []string) error {
	if services.Tracking == nil {
		return notConfigured("tracking")
	}
	v, _ := cmd.Flags().GetString("version")      //nolint:errcheck // flag is registered
	advanced, _ := cmd.Flags().GetBool("advanced") //nolint:errcheck // flag is registered

	opts := domain.StartOptions{
		NotebookName:      args[0],
		Version:           v,
		AdvancedAnalytics: advanced,
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed") //nolint:errcheck // flag is registered
		opts.Seed = &seed
	}

	log, err := services.Tracking.Start(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("start execution: %w", err)
	}
	cmd.Println(log.ExecutionID)
	return nil
}

func runTrackSection(cmd *cobra.Command, args []string) error {
	if services.Tracking == nil {
		return notConfigured("tracking")
	}
	event := domain.SectionEvent(args[2])
	if err := services.Tracking.Section(cmd.Context(), args[0], args[1], event); err != nil {
		return fmt.Errorf("record section: %w", err)
	}
	return nil
}

func runTrackResult(cmd *cobra.Command, args []string) error {
	if services.Tracking == nil {
		return notConfigured("tracking")
	}
	if err := services.Tracking.AddResult(cmd.Context(), args[0], args[1], parseValue(args[2])); err != nil {
		return fmt.Errorf("add result: %w", err)
	}
	return nil
}

func runTrackError(cmd *cobra.Command, args []string) error {
	if services.Tracking == nil {
		return notConfigured("tracking")
	}
	if err := services.Tracking.LogError(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("log error: %w", err)
	}
	return nil
}

func runTrackFinish(cmd *cobra.Command, args []string) error {
	if services.Tracking == nil {
		return notConfigured("tracking")
	}
	log, err := services.Tracking.Finish(cmd.Context(), args[0], nil, nil)
	if err != nil {
		return fmt.Errorf("finish execution: %w", err)
	}
	p := newPrinter(cmd.OutOrStdout())
	cmd.Printf("%s %s in %s", p.badge(log.Status), log.ExecutionID, log.DurationFormatted)
	if log.ErrorCount > 0 {
		cmd.Printf(" (%d errors)", log.ErrorCount)
	}
	cmd.Println()
	return nil
}

func runTrackShow(cmd *cobra.Command, args []string) error {
	if services.Tracking == nil {
		return notConfigured("tracking")
	}
	log, err := services.Tracking.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get execution: %w", err)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func runTrackList(cmd *cobra.Command, _ []string) error {
	if services.Tracking == nil {
		return notConfigured("tracking")
	}
	limit, _ := cmd.Flags().GetInt("limit") //nolint:errcheck // flag is registered

	logs, err := services.Tracking.ListRecent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list executions: %w", err)
	}
	if len(logs) == 0 {
		cmd.Println("No execution logs.")
		return nil
	}

	p := newPrinter(cmd.OutOrStdout())
	for i := range logs {
		l := &logs[i]
		status := l.Status
		if !l.Finished() {
			status = domain.ExecutionRunning
		}
		cmd.Printf("%s  %s  %s  %s\n", l.ExecutionID, l.StartTime.Format("2006-01-02 15:04:05"),
			p.badge(status), l.NotebookName)
	}
	return nil
}

// parseValue interprets a command-line value as JSON when it parses,
// keeping whole numbers as int.
func parseValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}
