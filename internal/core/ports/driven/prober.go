package driven

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// ImportProber resolves capabilities in an isolated, time-bounded process
// so that a crash or hang cannot affect the caller.
type ImportProber interface {
	// Probe attempts every import and returns capability name -> "OK" or
	// "FAIL: <message>". It returns an error wrapping domain.ErrProbe when
	// the probe itself times out, exits non-zero or produces unparseable output.
	Probe(ctx context.Context, capabilities []domain.Capability) (map[string]string, error)
}

// EnvironmentInspector reports the interpreter environment of a run.
type EnvironmentInspector interface {
	// Inspect returns a snapshot of the interpreter and host, plus the
	// installed version of each package (domain.PackageNotInstalled if absent).
	Inspect(ctx context.Context, packages []string) (domain.EnvironmentSnapshot, map[string]string, error)
}
