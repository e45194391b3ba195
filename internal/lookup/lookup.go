// Package lookup runs the getbib flow: search Crossref, pick a match,
// fetch its BibTeX record, then print it or copy it to the clipboard.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/henrybloomingdale/getbib/internal/bibtex"
	"github.com/henrybloomingdale/getbib/internal/crossref"
	"github.com/henrybloomingdale/getbib/internal/output"
	"github.com/henrybloomingdale/getbib/internal/selector"
)

// Fetcher is the subset of the Crossref API the flow needs.
type Fetcher interface {
	SearchWorks(ctx context.Context, q crossref.SearchQuery) ([]crossref.Match, error)
	FetchBibTeX(ctx context.Context, doi string) (string, error)
}

// Clipboard receives the formatted entry when copying is requested.
type Clipboard interface {
	Copy(text string) error
}

// Options describe one invocation.
type Options struct {
	Query crossref.SearchQuery
	// Choice is the 1-based match to use; nil means prompt.
	Choice    *int
	Clipboard bool
	Output    output.Config
}

// Deps are the collaborators of Run.
type Deps struct {
	Fetcher   Fetcher
	Clipboard Clipboard
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	Logger    zerolog.Logger
}

// Run executes the flow and returns the formatted BibTeX entry. With
// JSON output it only lists the matches and returns an empty entry.
// Any failure ends the run; nothing is retried.
func Run(ctx context.Context, opts Options, deps Deps) (string, error) {
	log := deps.Logger.With().
		Str("author", opts.Query.Author).
		Str("keywords", opts.Query.Keywords).
		Logger()

	matches, err := deps.Fetcher.SearchWorks(ctx, opts.Query)
	if err != nil {
		return "", err
	}
	log.Debug().Int("matches", len(matches)).Msg("search returned")

	if opts.Output.JSON {
		return "", output.FormatMatches(deps.Out, matches, opts.Output)
	}

	sel := &selector.Selector{
		In:  deps.In,
		Out: deps.Out,
		List: func(w io.Writer, m []crossref.Match) error {
			return output.FormatMatches(w, m, opts.Output)
		},
	}
	idx, err := sel.Select(ctx, matches, opts.Choice)
	if err != nil {
		return "", err
	}

	chosen := matches[idx]
	log.Debug().Int("index", idx).Str("doi", chosen.DOI).Msg("match selected")

	raw, err := deps.Fetcher.FetchBibTeX(ctx, chosen.DOI)
	if err != nil {
		return "", err
	}
	entry := bibtex.Format(raw)

	copied := false
	if opts.Clipboard {
		if deps.Clipboard == nil {
			fmt.Fprintln(deps.Err, "Warning: clipboard not configured; printing entry instead.")
		} else if err := deps.Clipboard.Copy(entry); err != nil {
			log.Debug().Err(err).Msg("clipboard copy failed")
			fmt.Fprintf(deps.Err, "Warning: could not copy to clipboard: %v\n", err)
		} else {
			copied = true
		}
	}

	if err := output.WriteEntry(deps.Out, entry, copied); err != nil {
		return "", fmt.Errorf("writing entry: %w", err)
	}
	return entry, nil
}

// Message returns the text shown to the user for an error from Run.
// Network and response problems collapse into one generic message; the
// detail is left to the debug log.
func Message(err error) string {
	var rangeErr *selector.RangeError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, selector.ErrInvalidInput):
		return "Invalid input. Please enter a number."
	case errors.As(err, &rangeErr):
		return fmt.Sprintf("Invalid choice. Please enter a number between 1 and %d.", rangeErr.Count)
	case errors.Is(err, selector.ErrNoMatches):
		return "No matches found."
	case errors.Is(err, context.Canceled):
		return "Canceled."
	default:
		return "An error occurred."
	}
}
