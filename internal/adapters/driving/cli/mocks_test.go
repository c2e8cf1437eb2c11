package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/krlabs/kra/internal/core/domain"
)

// execute runs rootCmd with args against svc and returns everything the
// command printed.
func execute(t *testing.T, svc *Services, args ...string) (string, error) {
	t.Helper()

	prevServices, prevWire := services, wire
	services, wire = svc, nil
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		services, wire = prevServices, prevWire
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so state does not leak
// between executions of the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// mockValidateService returns a fixed summary.
type mockValidateService struct {
	summary *domain.ValidationSummary
	err     error
	opts    domain.ValidateOptions
}

func (m *mockValidateService) ValidateAll(_ context.Context, opts domain.ValidateOptions) (*domain.ValidationSummary, error) {
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	m.summary.Tally()
	return m.summary, nil
}

func (m *mockValidateService) ValidateOne(_ context.Context, name string) domain.ValidationResult {
	for _, r := range m.summary.Results {
		if r.Notebook == name {
			return r
		}
	}
	return domain.ValidationResult{Notebook: name, Overall: domain.OverallError}
}

// mockStandardizeService returns a fixed summary.
type mockStandardizeService struct {
	summary *domain.StandardizationSummary
	err     error
	opts    domain.StandardizeOptions
}

func (m *mockStandardizeService) StandardizeAll(
	_ context.Context,
	opts domain.StandardizeOptions,
) (*domain.StandardizationSummary, error) {
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	m.summary.DryRun = opts.DryRun
	m.summary.Tally()
	return m.summary, nil
}

func (m *mockStandardizeService) StandardizeOne(_ context.Context, name string, _ bool) domain.RewriteResult {
	return domain.RewriteResult{Notebook: name}
}

// mockReportService records the report paths it was asked to write.
type mockReportService struct {
	paths []string
	err   error
}

func (m *mockReportService) ValidationMarkdown(_ *domain.ValidationSummary) string { return "" }

func (m *mockReportService) StandardizationMarkdown(_ *domain.StandardizationSummary) string { return "" }

func (m *mockReportService) WriteValidation(
	_ context.Context,
	_ *domain.ValidationSummary,
	path string,
) (string, string, error) {
	return m.write(path, "NOTEBOOK_VALIDATION_REPORT")
}

func (m *mockReportService) WriteStandardization(
	_ context.Context,
	_ *domain.StandardizationSummary,
	path string,
) (string, string, error) {
	return m.write(path, "STANDARDIZATION_REPORT")
}

func (m *mockReportService) write(path, stem string) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	if path == "" {
		path = stem + ".md"
	}
	m.paths = append(m.paths, path)
	return "/ws/" + path, "/ws/" + stem + ".json", nil
}
