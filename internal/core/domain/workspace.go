package domain

// WorkspaceCheck is the outcome of one workspace cohesion check.
type WorkspaceCheck struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Messages []string    `json:"messages,omitempty"`
}

// WorkspaceReport aggregates every workspace cohesion check.
type WorkspaceReport struct {
	Checks []WorkspaceCheck `json:"checks"`
}

// Failed reports whether any check failed.
func (r WorkspaceReport) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == CheckFail {
			return true
		}
	}
	return false
}
