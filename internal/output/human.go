package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/henrybloomingdale/getbib/internal/crossref"
)

// --- Styles ---

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	bold   = lipgloss.NewStyle().Bold(true)
	dim    = lipgloss.NewStyle().Faint(true)
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

const (
	titleMaxLen  = 50
	authorsShown = 3
)

// truncate cuts a string to maxLen runes, appending "…" if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}

// shortAuthors lists the first few authors and collapses the rest into
// "et al.".
func shortAuthors(authors []string, n int) string {
	if len(authors) == 0 {
		return ""
	}
	if len(authors) <= n {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:n], ", ") + " et al."
}

// shortDate renders an RFC 3339 timestamp as a calendar date.
func shortDate(s string) string {
	if s == "" {
		return Unknown
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

func formatMatchesHuman(w io.Writer, matches []crossref.Match) error {
	if len(matches) == 0 {
		fmt.Fprintln(w, "📚 No matches found.")
		return nil
	}

	fmt.Fprintln(w, bold.Render(fmt.Sprintf("📚 %d matches", len(matches))))
	fmt.Fprintln(w)

	var rows [][]string
	for i, m := range matches {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			bold.Render(truncate(m.Title, titleMaxLen)),
			shortAuthors(m.Authors, authorsShown),
			shortDate(m.Created),
			dim.Render(shortDate(m.Updated)),
			yellow.Render(m.DOI),
		})
	}

	t := table.New().
		Headers("#", "Title", "Authors", "Published", "Updated", "DOI").
		Rows(rows...).
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
			}
			if col == 0 {
				return cyan
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w)
	return nil
}
