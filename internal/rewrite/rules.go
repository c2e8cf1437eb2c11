package rewrite

import (
	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/logger"
)

// HeaderRule moves a leading markdown cell out of the working sequence
// so it is emitted unchanged and first.
type HeaderRule struct{}

// Name returns the rule name.
func (HeaderRule) Name() string { return "header" }

// Apply preserves the header.
func (HeaderRule) Apply(st *State) {
	if len(st.Working) == 0 || !st.Working[0].IsMarkdown() {
		return
	}
	header := st.Working[0]
	st.Header = &header
	st.Working = st.Working[1:]
}

// ImportsRule replaces the first code cell that imports anything with the
// canonical imports cell. The replaced cell is consumed.
type ImportsRule struct{}

// Name returns the rule name.
func (ImportsRule) Name() string { return "imports" }

// Apply replaces the first import cell.
func (ImportsRule) Apply(st *State) {
	for i, c := range st.Working {
		if c.IsCode() && ImportTrigger.Match(c.Text()) {
			st.Replaced = i
			st.Inserted = append(st.Inserted, ImportsCell())
			st.record(domain.ChangeReplacedImports)
			return
		}
	}
}

// TrackingRule appends the canonical tracking cell when no code cell
// already calls the tracking entry point.
type TrackingRule struct{}

// Name returns the rule name.
func (TrackingRule) Name() string { return "tracking" }

// Apply ensures a tracking cell.
func (TrackingRule) Apply(st *State) {
	for _, c := range st.Working {
		if c.IsCode() && TrackingTrigger.Match(c.Text()) {
			return
		}
	}
	st.Inserted = append(st.Inserted, TrackingCell(st.Meta))
	st.record(domain.ChangeAddedTracking)
}

// CellPassRule walks the working cells in order. Legacy import and
// credential cells within DropWindow are dropped. A legacy fetch cell is
// replaced by the canonical data-loading cell (once per notebook) and the
// cell immediately after it is skipped unconditionally. Every other cell
// is kept, except the one consumed by ImportsRule.
type CellPassRule struct{}

// Name returns the rule name.
func (CellPassRule) Name() string { return "cell-pass" }

// Apply runs the per-cell pass.
func (CellPassRule) Apply(st *State) {
	skipNext := false
	for i, c := range st.Working {
		if skipNext {
			skipNext = false
			logger.Debug("cell %d: skipped after legacy fetch cell", i)
			continue
		}

		text := c.Text()
		if c.IsCode() && i < DropWindow {
			if p, ok := matchAny(DropTriggers, text); ok {
				logger.Debug("cell %d: dropped (%s)", i, p.Name)
				continue
			}
		}

		if LegacyFetch.Match(text) {
			if !st.emitted(CanonicalDataLoad) {
				st.Output = append(st.Output, DataLoadCell(st.Meta))
				st.record(domain.ChangeAddedDataLoad)
			}
			skipNext = true
			continue
		}

		if i == st.Replaced {
			continue
		}
		st.Output = append(st.Output, c)
	}
}
