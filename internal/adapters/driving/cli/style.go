package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/krlabs/kra/internal/core/domain"
)

// palette is the colour set for status badges.
var palette = struct {
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
	Title   lipgloss.Color
}{
	Success: lipgloss.Color("#A6E3A1"),
	Warning: lipgloss.Color("#F9E2AF"),
	Error:   lipgloss.Color("#F38BA8"),
	Muted:   lipgloss.Color("#6C7086"),
	Title:   lipgloss.Color("#7C3AED"),
}

// printer renders status badges: emoji glyphs and colour on a terminal,
// plain bracketed words otherwise.
type printer struct {
	tty bool

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	title   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	p := &printer{tty: isTerminal(w)}
	if !p.tty {
		return p
	}
	p.success = lipgloss.NewStyle().Foreground(palette.Success)
	p.warning = lipgloss.NewStyle().Foreground(palette.Warning)
	p.failure = lipgloss.NewStyle().Foreground(palette.Error)
	p.muted = lipgloss.NewStyle().Foreground(palette.Muted)
	p.title = lipgloss.NewStyle().Bold(true).Foreground(palette.Title)
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// badge renders a status word such as PASS or ERROR.
func (p *printer) badge(status string) string {
	if !p.tty {
		return "[" + status + "]"
	}
	switch status {
	case "PASS", "SUCCESS", "fetched", "success":
		return p.success.Render("✅ " + status)
	case "PARTIAL", "WARNING", "DRY_RUN", "skipped", "completed_with_errors", "running":
		return p.warning.Render("⚠️ " + status)
	case "FAIL", "failed":
		return p.failure.Render("❌ " + status)
	case "ERROR":
		return p.failure.Render("💥 " + status)
	default:
		return status
	}
}

func (p *printer) overall(s domain.OverallStatus) string { return p.badge(string(s)) }

func (p *printer) heading(text string) string {
	if !p.tty {
		return text
	}
	return p.title.Render(text)
}

func (p *printer) dim(text string) string {
	if !p.tty {
		return text
	}
	return p.muted.Render(text)
}
