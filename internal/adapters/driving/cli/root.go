// Package cli implements the kra command line with cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/krlabs/kra/internal/core/ports/driving"
	"github.com/krlabs/kra/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

// ExitError carries a process exit code for outcomes that are not
// failures of the command itself, such as validation finding problems.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Services holds the driving ports the commands use. Any may be nil, in
// which case commands that need it report that it is not configured.
type Services struct {
	Standardize driving.StandardizeService
	Validate    driving.ValidateService
	Report      driving.ReportService
	Tracking    driving.TrackingService
	Dataset     driving.DatasetService
	History     driving.HistoryService
	Workspace   driving.WorkspaceService
	Catalog     driving.CatalogService
	Settings    driving.SettingsService

	// NotebooksDir is the absolute notebooks directory, used by watch mode.
	NotebooksDir string
}

// Wire builds the services for a workspace root. The returned close
// function releases any resources the services hold.
type Wire func(workspace string) (*Services, func() error, error)

var (
	wire     Wire
	services = &Services{}
	closeFn  func() error
)

var rootCmd = &cobra.Command{
	Use:   "kra",
	Short: "Standardize and validate analytics notebooks",
	Long: `kra rewrites Jupyter notebooks to a canonical template and validates
them against structure, import and pattern checks.

It also records notebook execution logs, manages sample datasets and
checks the workspace layout.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace root directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print diagnostic logs to stderr")
}

// Execute runs the root command. Services are built by w once flags are
// parsed.
func Execute(ctx context.Context, v string, w Wire) error {
	version = v
	wire = w
	rootCmd.SetOut(os.Stdout)
	defer func() {
		if closeFn == nil {
			return
		}
		if err := closeFn(); err != nil {
			logger.Warn("close services: %v", err)
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("getting verbose flag: %w", err)
	}
	logger.SetVerbose(verbose)

	if wire == nil || cmd == versionCmd {
		return nil
	}
	workspace, err := cmd.Flags().GetString("workspace")
	if err != nil {
		return fmt.Errorf("getting workspace flag: %w", err)
	}
	s, closer, err := wire(workspace)
	if err != nil {
		return fmt.Errorf("open workspace %s: %w", workspace, err)
	}
	services, closeFn = s, closer
	return nil
}

// notConfigured is returned when a command's service is missing.
func notConfigured(name string) error {
	return fmt.Errorf("%s service not configured", name)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
