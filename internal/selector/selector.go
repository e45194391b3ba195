// Package selector resolves which search match the user wants, either from
// an index given up front or by prompting once on an input stream.
package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/henrybloomingdale/getbib/internal/crossref"
)

var (
	// ErrInvalidInput is returned when the interactive answer is not a number.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOutOfRange is matched by every *RangeError.
	ErrOutOfRange = errors.New("choice out of range")
	// ErrNoMatches is returned when there is nothing to prompt for.
	ErrNoMatches = errors.New("no matches")
)

// RangeError reports a 1-based choice outside [1, Count].
type RangeError struct {
	Choice int
	Count  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("choice %d is not between 1 and %d", e.Choice, e.Count)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// Lister renders the numbered match list before the prompt.
type Lister func(w io.Writer, matches []crossref.Match) error

// Selector prompts on In and writes the list and prompt to Out.
type Selector struct {
	In   io.Reader
	Out  io.Writer
	List Lister
}

// Select returns the 0-based index of the chosen match. A non-nil choice is
// taken as a 1-based index and used without prompting. Otherwise the list is
// shown and a single answer is read; there is no re-prompt on bad input.
// Canceling ctx abandons a pending prompt and returns ctx.Err().
func (s *Selector) Select(ctx context.Context, matches []crossref.Match, choice *int) (int, error) {
	n := 0
	if choice != nil {
		n = *choice
	} else {
		if len(matches) == 0 {
			return -1, ErrNoMatches
		}
		var err error
		if n, err = s.prompt(ctx, matches); err != nil {
			return -1, err
		}
	}

	idx := n - 1
	if idx < 0 || idx >= len(matches) {
		return -1, &RangeError{Choice: n, Count: len(matches)}
	}
	return idx, nil
}

func (s *Selector) prompt(ctx context.Context, matches []crossref.Match) (int, error) {
	if s.List != nil {
		if err := s.List(s.Out, matches); err != nil {
			return 0, fmt.Errorf("listing matches: %w", err)
		}
	}

	// No Validate: a bad answer is reported once instead of re-asked.
	var answer string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Choose a match (1-%d):", len(matches))).
				Value(&answer),
		),
	).WithAccessible(true).WithInput(s.In).WithOutput(s.Out)

	// The accessible reader blocks on In without watching ctx.
	done := make(chan error, 1)
	go func() { done <- form.Run() }()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case err := <-done:
		switch {
		case errors.Is(err, huh.ErrUserAborted):
			return 0, context.Canceled
		case err != nil && !errors.Is(err, io.EOF):
			return 0, fmt.Errorf("reading choice: %w", err)
		}
	}

	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, strings.TrimSpace(answer))
	}
	return n, nil
}
