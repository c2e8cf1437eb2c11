package rewrite

import (
	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/logger"
)

// Rule is one structural transformation step.
type Rule interface {
	// Name identifies the rule in logs.
	Name() string

	// Apply transforms the state in place.
	Apply(st *State)
}

// State is the working data shared by the rules of one run.
type State struct {
	// Meta parameterizes the canonical cells.
	Meta domain.NotebookMetadata

	// Header is the preserved leading markdown cell, if any.
	Header *domain.Cell

	// Working is the original cell sequence after the header.
	Working []domain.Cell

	// Inserted holds canonical cells placed right after the header.
	Inserted []domain.Cell

	// Output holds the cells emitted by the per-cell pass.
	Output []domain.Cell

	// Replaced is the Working index consumed by the imports rule, or -1.
	Replaced int

	// Changes lists change descriptions in application order.
	Changes []string
}

func newState(nb *domain.Notebook, meta domain.NotebookMetadata) *State {
	return &State{
		Meta:     meta,
		Working:  nb.Cells(),
		Replaced: -1,
	}
}

// Cells returns the final sequence: header, insertions, then output.
func (st *State) Cells() []domain.Cell {
	cells := make([]domain.Cell, 0, len(st.Inserted)+len(st.Output)+1)
	if st.Header != nil {
		cells = append(cells, *st.Header)
	}
	cells = append(cells, st.Inserted...)
	return append(cells, st.Output...)
}

// emitted reports whether any cell placed so far, the header included,
// matches p.
func (st *State) emitted(p Predicate) bool {
	if st.Header != nil && p.Match(st.Header.Text()) {
		return true
	}
	for _, c := range st.Inserted {
		if p.Match(c.Text()) {
			return true
		}
	}
	for _, c := range st.Output {
		if p.Match(c.Text()) {
			return true
		}
	}
	return false
}

func (st *State) record(change string) {
	st.Changes = append(st.Changes, change)
}

// Pipeline chains rules and runs them in order.
type Pipeline struct {
	rules []Rule
}

// NewPipeline creates a pipeline with the given rules.
// Rules are executed in the order provided.
func NewPipeline(rules ...Rule) *Pipeline {
	return &Pipeline{rules: rules}
}

// Default returns the standard rule order: header, imports, tracking,
// cell pass.
func Default() *Pipeline {
	return NewPipeline(HeaderRule{}, ImportsRule{}, TrackingRule{}, CellPassRule{})
}

// Run applies every rule to nb and returns the rewritten notebook and the
// recorded changes. nb itself is not modified.
func (p *Pipeline) Run(nb *domain.Notebook, meta domain.NotebookMetadata) (*domain.Notebook, []string) {
	st := newState(nb, meta)
	for _, rule := range p.rules {
		before := len(st.Changes)
		rule.Apply(st)
		logger.Debug("rule %s: %d change(s)", rule.Name(), len(st.Changes)-before)
	}

	changes := st.Changes
	if changes == nil {
		changes = []string{}
	}
	return nb.WithCells(st.Cells()), changes
}

// Add appends a rule to the pipeline.
func (p *Pipeline) Add(rule Rule) {
	p.rules = append(p.rules, rule)
}

// Len returns the number of rules in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.rules)
}

// Names returns the rule names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.Name()
	}
	return names
}
