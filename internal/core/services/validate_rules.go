package services

import (
	"strings"
	"unicode/utf8"

	"github.com/krlabs/kra/internal/rewrite"
)

// headerWindow is how many characters of Markdown text the Header
// section check looks at.
const headerWindow = 500

// sectionChecks detect the narrative sections over all Markdown text,
// in report order.
var sectionChecks = []rewrite.Predicate{
	{Name: "Header", Match: func(md string) bool { return strings.Contains(prefixRunes(md, headerWindow), "# ") }},
	{Name: "Setup", Match: anyOf("Setup", "Installation")},
	{Name: "Data Loading", Match: anyOf("Data", "Loading")},
	{Name: "Analysis", Match: anyOf("Analysis", "Analytical")},
	{Name: "Visualization", Match: anyOf("Visualization", "Charts")},
	{Name: "Insights", Match: anyOf("Insights", "Key Findings")},
}

// Pattern names.
const (
	patternImports       = "has_imports"
	patternPackage       = "uses_kranalytics"
	patternTracking      = "execution_tracking"
	patternDataLoading   = "data_loading"
	patternTierAdaptive  = "tier_adaptive"
	patternVisualization = "visualizations"
	patternDocstrings    = "has_docstrings"
)

// patternChecks are tested against all code cell source.
var patternChecks = []rewrite.Predicate{
	{Name: patternImports, Match: anyOf("import ")},
	{Name: patternPackage, Match: anyOf("kranalytics")},
	{Name: patternTracking, Match: anyOf("setup_notebook_tracking", "ExecutionTracker")},
	{Name: patternDataLoading, Match: anyOf("load_data", "get_data", "read_")},
	{Name: patternTierAdaptive, Match: func(code string) bool {
		return strings.Contains(strings.ToLower(code), "tier") || strings.Contains(code, "analytics_matrix")
	}},
	{Name: patternVisualization, Match: anyOf("plot", "fig", "chart")},
	{Name: patternDocstrings, Match: anyOf(`"""`, "'''")},
}

// patternIssues maps a missing pattern to the issue it raises, in report order.
var patternIssues = []struct {
	pattern string
	issue   string
}{
	{patternPackage, "No kranalytics imports found"},
	{patternDataLoading, "No data loading code detected"},
	{patternVisualization, "No visualization code detected"},
}

func anyOf(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, sub := range subs {
			if strings.Contains(text, sub) {
				return true
			}
		}
		return false
	}
}

func prefixRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
