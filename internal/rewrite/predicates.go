package rewrite

import "strings"

// Predicate is a named test over a cell's joined source text.
type Predicate struct {
	Name  string
	Match func(text string) bool
}

// containsAny matches text holding at least one of subs.
func containsAny(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range subs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

// containsAll matches text holding every one of subs.
func containsAll(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range subs {
			if !strings.Contains(text, s) {
				return false
			}
		}
		return true
	}
}

// Trigger predicates. Matching is literal and case-sensitive unless noted.
var (
	// ImportTrigger selects the code cell replaced by the canonical imports cell.
	ImportTrigger = Predicate{Name: "import block", Match: containsAny("import")}

	// TrackingTrigger detects an existing execution tracking call.
	TrackingTrigger = Predicate{Name: "tracking entry point", Match: containsAny("setup_notebook_tracking")}

	// LegacyFetch detects hand-written remote data fetching.
	LegacyFetch = Predicate{Name: "legacy fetch", Match: containsAny("load_api_key", "requests.get")}

	// CanonicalDataLoad detects a cell that already loads data the standard way.
	CanonicalDataLoad = Predicate{Name: "canonical data loading", Match: containsAny("data_utils.load_data")}
)

// DropTriggers mark code cells near the top of a notebook as redundant
// once the canonical cells are in place.
var DropTriggers = []Predicate{
	{Name: "legacy import remnant", Match: containsAll("import", "from")},
	{Name: "legacy credential loading", Match: func(text string) bool {
		return strings.Contains(text, "API") && strings.Contains(strings.ToLower(text), "key")
	}},
}

// DropWindow is the number of leading post-header positions in which
// DropTriggers apply.
const DropWindow = 5

// matchAny returns the first predicate in table that matches text.
func matchAny(table []Predicate, text string) (Predicate, bool) {
	for _, p := range table {
		if p.Match(text) {
			return p, true
		}
	}
	return Predicate{}, false
}
