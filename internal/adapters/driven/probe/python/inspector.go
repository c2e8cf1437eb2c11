package python

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
)

// Ensure Inspector implements the interface.
var _ driven.EnvironmentInspector = (*Inspector)(nil)

// Inspector reports the interpreter environment and package versions.
type Inspector struct {
	cfg Config
}

// NewInspector creates an inspector. Zero fields in cfg take the defaults.
func NewInspector(cfg Config) *Inspector {
	return &Inspector{cfg: cfg.withDefaults()}
}

type inspectResult struct {
	Environment domain.EnvironmentSnapshot `json:"environment"`
	Packages    map[string]string          `json:"packages"`
}

// Inspect returns the interpreter snapshot and the installed version of
// each package. Packages the interpreter did not report are "unknown".
func (i *Inspector) Inspect(ctx context.Context, packages []string) (domain.EnvironmentSnapshot, map[string]string, error) {
	if packages == nil {
		packages = []string{}
	}
	var res inspectResult
	if err := i.cfg.run(ctx, "inspect.py", packages, &res); err != nil {
		return domain.EnvironmentSnapshot{}, nil, err
	}

	versions := make(map[string]string, len(packages))
	for _, p := range packages {
		if v, ok := res.Packages[p]; ok && v != "" {
			versions[p] = v
		} else {
			versions[p] = domain.PackageUnknown
		}
	}
	return res.Environment, versions, nil
}
