package notebook

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/krlabs/kra/internal/core/domain"
)

// ExtractMetadata reads the declared attributes from a notebook's leading
// markdown cell. Each header line is tested against Domain, Tier, Data
// Source and "# " heading in that order; the first match wins for the
// line and later lines override earlier ones. It never fails: missing
// attributes, a non-markdown first cell or an unreadable header yield the
// defaults derived from the notebook's file name.
func ExtractMetadata(nb *domain.Notebook) domain.NotebookMetadata {
	meta := DefaultMetadata(nb.Name)

	cells := nb.Cells()
	if len(cells) == 0 || !cells[0].IsMarkdown() {
		return meta
	}

	header := cells[0].Text()
	for _, line := range strings.Split(header, "\n") {
		switch {
		case strings.Contains(line, "Domain") && strings.Contains(line, ":"):
			meta.Domain = strings.TrimSpace(afterColon(line))
		case strings.Contains(line, "Tier") && strings.Contains(line, ":"):
			fields := strings.Fields(afterColon(line))
			if len(fields) == 0 {
				return DefaultMetadata(nb.Name)
			}
			meta.Tier = fields[0]
		case strings.Contains(line, "Data Source") && strings.Contains(line, ":"):
			meta.DataSource = strings.TrimSpace(afterColon(line))
		case strings.HasPrefix(line, "# "):
			meta.Title = strings.TrimSpace(line[2:])
		}
	}
	return meta
}

// DefaultMetadata returns the attributes used when a header declares none.
func DefaultMetadata(name string) domain.NotebookMetadata {
	return domain.NotebookMetadata{
		Domain:     domain.DefaultDomain,
		Tier:       domain.DefaultTier,
		Title:      TitleFromFilename(name),
		DataSource: domain.DefaultDataSource,
	}
}

// TitleFromFilename turns "01_income_analysis.ipynb" into
// "01 Income Analysis".
func TitleFromFilename(name string) string {
	if name == "" {
		return ""
	}
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return titleCase(strings.ReplaceAll(stem, "_", " "))
}

func afterColon(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return rest
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
