// Package output provides formatting for getbib output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/henrybloomingdale/getbib/internal/crossref"
)

// Unknown is shown for a timestamp Crossref did not supply.
const Unknown = "Unknown"

// Config controls which output mode is active.
type Config struct {
	JSON  bool // Structured JSON
	Human bool // Rich terminal output with color
}

// FormatMatches writes the numbered list of search matches.
func FormatMatches(w io.Writer, matches []crossref.Match, cfg Config) error {
	if cfg.JSON {
		return writeJSON(w, matches)
	}
	if cfg.Human {
		return formatMatchesHuman(w, matches)
	}
	return formatMatchesPlain(w, matches)
}

// WriteEntry writes a formatted BibTeX entry, announcing it when it was also
// copied to the clipboard.
func WriteEntry(w io.Writer, entry string, copied bool) error {
	var err error
	if copied {
		_, err = fmt.Fprintf(w, "\nThe following BibTeX entry has been copied to the clipboard:\n\n%s\n", entry)
	} else {
		_, err = fmt.Fprintf(w, "\n%s\n", entry)
	}
	return err
}

// --- Plain text (default) ---

func formatMatchesPlain(w io.Writer, matches []crossref.Match) error {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}

	for i, m := range matches {
		fmt.Fprintf(w, "%d\n-\n", i+1)
		fmt.Fprintf(w, "Authors: %s\n", strings.Join(m.Authors, ", "))
		fmt.Fprintf(w, "Title: %s\n", m.Title)
		fmt.Fprintf(w, "Published: %s\n", orUnknown(m.Created))
		fmt.Fprintf(w, "Updated: %s\n", orUnknown(m.Updated))
		fmt.Fprintf(w, "DOI: %s\n\n", m.DOI)
	}

	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
