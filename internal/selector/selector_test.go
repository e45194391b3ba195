package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henrybloomingdale/getbib/internal/crossref"
)

func matches(n int) []crossref.Match {
	out := make([]crossref.Match, n)
	for i := range out {
		out[i] = crossref.Match{DOI: fmt.Sprintf("10.1/%d", i), Title: fmt.Sprintf("T%d", i)}
	}
	return out
}

func intPtr(n int) *int { return &n }

func countingLister(calls *int) Lister {
	return func(w io.Writer, m []crossref.Match) error {
		*calls++
		fmt.Fprintf(w, "[%d matches]\n", len(m))
		return nil
	}
}

func TestSelect_Explicit(t *testing.T) {
	var out bytes.Buffer
	listed := 0
	s := &Selector{In: strings.NewReader("should not be read\n"), Out: &out, List: countingLister(&listed)}

	for k := 1; k <= 3; k++ {
		idx, err := s.Select(context.Background(), matches(3), intPtr(k))
		require.NoError(t, err)
		assert.Equal(t, k-1, idx)
	}
	assert.Zero(t, listed, "explicit selection must not list matches")
	assert.Empty(t, out.String(), "explicit selection must not prompt")
}

func TestSelect_ExplicitOutOfRange(t *testing.T) {
	s := &Selector{In: strings.NewReader(""), Out: io.Discard}

	for _, k := range []int{0, -1, 4, 100} {
		t.Run(fmt.Sprint(k), func(t *testing.T) {
			idx, err := s.Select(context.Background(), matches(3), intPtr(k))
			assert.Equal(t, -1, idx)
			require.ErrorIs(t, err, ErrOutOfRange)

			var re *RangeError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, k, re.Choice)
			assert.Equal(t, 3, re.Count)
		})
	}
}

func TestSelect_ExplicitNoMatches(t *testing.T) {
	s := &Selector{In: strings.NewReader(""), Out: io.Discard}
	_, err := s.Select(context.Background(), nil, intPtr(1))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSelect_Interactive(t *testing.T) {
	var out bytes.Buffer
	listed := 0
	s := &Selector{In: strings.NewReader(" 2 \n"), Out: &out, List: countingLister(&listed)}

	idx, err := s.Select(context.Background(), matches(3), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, listed)
	assert.Contains(t, out.String(), "[3 matches]")
	assert.Contains(t, out.String(), "Choose a match (1-3):")
}

func TestSelect_InteractiveNoTrailingNewline(t *testing.T) {
	s := &Selector{In: strings.NewReader("3"), Out: io.Discard}
	idx, err := s.Select(context.Background(), matches(3), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestSelect_InteractiveInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"word", "two\n"},
		{"empty line", "\n"},
		{"eof", ""},
		{"float", "1.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := strings.NewReader(tt.input + "1\n")
			if tt.input == "" {
				in = strings.NewReader("")
			}
			s := &Selector{In: in, Out: io.Discard}

			idx, err := s.Select(context.Background(), matches(3), nil)
			assert.Equal(t, -1, idx)
			assert.ErrorIs(t, err, ErrInvalidInput, "no re-prompt on invalid input")
		})
	}
}

func TestSelect_InteractiveOutOfRange(t *testing.T) {
	s := &Selector{In: strings.NewReader("7\n"), Out: io.Discard}
	_, err := s.Select(context.Background(), matches(3), nil)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSelect_InteractiveNoMatches(t *testing.T) {
	var out bytes.Buffer
	s := &Selector{In: strings.NewReader("1\n"), Out: &out}
	_, err := s.Select(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoMatches)
	assert.Empty(t, out.String())
}

func TestSelect_ListerError(t *testing.T) {
	boom := errors.New("boom")
	s := &Selector{
		In:   strings.NewReader("1\n"),
		Out:  io.Discard,
		List: func(io.Writer, []crossref.Match) error { return boom },
	}
	_, err := s.Select(context.Background(), matches(1), nil)
	assert.ErrorIs(t, err, boom)
}

func TestSelect_InteractiveCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	s := &Selector{In: pr, Out: io.Discard}
	start := time.Now()
	idx, err := s.Select(ctx, matches(3), nil)

	assert.Equal(t, -1, idx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second, "prompt must not wait for input after cancel")
}

func TestSelect_ExplicitIgnoresCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Selector{In: strings.NewReader(""), Out: io.Discard}
	idx, err := s.Select(ctx, matches(2), intPtr(2))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}
