package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveOverall(t *testing.T) {
	tests := []struct {
		name      string
		structure CheckStatus
		imports   CheckStatus
		patterns  CheckStatus
		want      OverallStatus
	}{
		{"all pass", CheckPass, CheckPass, CheckPass, OverallPass},
		{"pattern warning", CheckPass, CheckPass, CheckWarning, OverallPartial},
		{"import fail", CheckPass, CheckFail, CheckPass, OverallPartial},
		{"structure error wins", CheckError, CheckPass, CheckPass, OverallError},
		{"probe error wins over fail", CheckPass, CheckError, CheckWarning, OverallError},
		{"pattern error", CheckPass, CheckFail, CheckError, OverallError},
		{"structure not pass", CheckWarning, CheckPass, CheckPass, OverallFail},
		{"structure fail beats partial", CheckFail, CheckFail, CheckWarning, OverallFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveOverall(tt.structure, tt.imports, tt.patterns))
		})
	}
}

func TestValidationSummary_Tally(t *testing.T) {
	s := ValidationSummary{Results: []ValidationResult{
		{Overall: OverallPass},
		{Overall: OverallPass},
		{Overall: OverallPartial},
		{Overall: OverallError},
		{Overall: OverallFail},
	}}
	s.Tally()

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Pass)
	assert.Equal(t, 1, s.Partial)
	assert.Equal(t, 1, s.Fail)
	assert.Equal(t, 1, s.Error)
}

func TestStandardizationSummary_Tally(t *testing.T) {
	s := StandardizationSummary{Results: []RewriteResult{
		{Status: RewriteSuccess},
		{Status: RewriteError},
		{Status: RewriteDryRun},
		{Status: RewriteDryRun},
	}}
	s.Tally()

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Success)
	assert.Equal(t, 2, s.DryRuns)
	assert.Equal(t, 1, s.Errors)
}

func TestImportResult_Failures(t *testing.T) {
	r := ImportResult{Outcomes: []ImportOutcome{
		{Name: "pandas", OK: true},
		{Name: "plotly", OK: false, Message: "No module named 'plotly'"},
	}}

	failed := r.Failures()
	assert.Len(t, failed, 1)
	assert.Equal(t, "plotly", failed[0].Name)
}

func TestImportOutcome_Err(t *testing.T) {
	assert.NoError(t, ImportOutcome{Name: "pandas", OK: true}.Err())

	err := ImportOutcome{Name: "plotly", Message: "No module named 'plotly'"}.Err()
	assert.ErrorIs(t, err, ErrResolution)
	assert.EqualError(t, err, "capability not resolvable: plotly: No module named 'plotly'")
}

func TestRewriteStatus_IsValid(t *testing.T) {
	assert.True(t, RewriteSuccess.IsValid())
	assert.True(t, RewriteDryRun.IsValid())
	assert.True(t, RewriteError.IsValid())
	assert.False(t, RewriteStatus("DONE").IsValid())
}
