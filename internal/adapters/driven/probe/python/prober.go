package python

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
)

// Ensure Prober implements the interface.
var _ driven.ImportProber = (*Prober)(nil)

// Prober attempts imports in a separate interpreter process.
type Prober struct {
	cfg Config
}

// NewProber creates a prober. Zero fields in cfg take the defaults.
func NewProber(cfg Config) *Prober {
	return &Prober{cfg: cfg.withDefaults()}
}

// Probe runs every capability's import statement in one subprocess and
// returns name -> "OK" or "FAIL: <message>".
func (p *Prober) Probe(ctx context.Context, capabilities []domain.Capability) (map[string]string, error) {
	verdicts := make(map[string]string, len(capabilities))
	if err := p.cfg.run(ctx, "probe.py", capabilities, &verdicts); err != nil {
		return nil, err
	}
	return verdicts, nil
}
