package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage sample datasets",
	Long: `Locates and loads sample datasets and regenerates them from the
configured remote APIs. API keys are read from environment variables; run
"kra data env" to see which are set.`,
}

var dataLocateCmd = &cobra.Command{
	Use:   "locate <dataset>",
	Short: "Print the sample file path for a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataLocate,
}

var dataLoadCmd = &cobra.Command{
	Use:   "load <dataset>",
	Short: "Print the first rows of a dataset",
	Long: `Loads a dataset from its sample file. With --remote, the dataset is
fetched from its API when a key is configured, falling back to the sample.`,
	Args: cobra.ExactArgs(1),
	RunE: runDataLoad,
}

var dataGenerateCmd = &cobra.Command{
	Use:   "generate [dataset...]",
	Short: "Fetch datasets from their APIs and write sample files",
	Long: `Fetches each named dataset, or every configured dataset, one call at a
time and writes a CSV sample plus manifest.json. Datasets whose API key is
not set are skipped.`,
	RunE: runDataGenerate,
}

var dataEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Show which API key variables are set",
	Args:  cobra.NoArgs,
	RunE:  runDataEnv,
}

func init() {
	dataLoadCmd.Flags().Bool("remote", false, "fetch from the API when a key is set")
	dataLoadCmd.Flags().Int("head", 5, "number of rows to print")

	dataCmd.AddCommand(dataLocateCmd)
	dataCmd.AddCommand(dataLoadCmd)
	dataCmd.AddCommand(dataGenerateCmd)
	dataCmd.AddCommand(dataEnvCmd)
	rootCmd.AddCommand(dataCmd)
}

func runDataLocate(cmd *cobra.Command, args []string) error {
	if services.Dataset == nil {
		return notConfigured("dataset")
	}
	file, err := services.Dataset.Locate(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("locate %s: %w", args[0], err)
	}
	cmd.Printf("%s (%s)\n", file.Path, file.Format)
	return nil
}

func runDataLoad(cmd *cobra.Command, args []string) error {
	if services.Dataset == nil {
		return notConfigured("dataset")
	}
	remote, _ := cmd.Flags().GetBool("remote") //nolint:errcheck // flag is registered
	head, _ := cmd.Flags().GetInt("head")      //nolint:errcheck // flag is registered

	load := services.Dataset.Load
	if remote {
		load = services.Dataset.LoadWithFallback
	}
	ds, err := load(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	cmd.Printf("%s: %d rows x %d columns from %s\n\n", ds.Name, len(ds.Rows), len(ds.Columns), ds.Source)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(ds.Columns, "\t"))
	for i, row := range ds.Rows {
		if head >= 0 && i >= head {
			break
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func runDataGenerate(cmd *cobra.Command, args []string) error {
	if services.Dataset == nil {
		return notConfigured("dataset")
	}

	manifest, err := services.Dataset.Generate(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("generate datasets: %w", err)
	}

	p := newPrinter(cmd.OutOrStdout())
	fetched := 0
	for _, e := range manifest.Datasets {
		switch {
		case e.File != "":
			fetched++
			cmd.Printf("%s %s -> %s (%d rows, %d columns)\n", p.badge(e.Status), e.Name, e.File, e.Rows, e.Columns)
		case e.Message != "":
			cmd.Printf("%s %s: %s\n", p.badge(e.Status), e.Name, e.Message)
		default:
			cmd.Printf("%s %s\n", p.badge(e.Status), e.Name)
		}
	}
	cmd.Printf("\n%d of %d datasets fetched\n", fetched, len(manifest.Datasets))
	return nil
}

func runDataEnv(cmd *cobra.Command, _ []string) error {
	if services.Dataset == nil {
		return notConfigured("dataset")
	}

	status := services.Dataset.CredentialStatus()
	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		state := "not set"
		if status[name] {
			state = "set"
		}
		cmd.Printf("%-20s %s\n", name, state)
	}
	return nil
}
