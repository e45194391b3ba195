package crossref

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is matched by every *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrMalformedResponse reports a response that could not be decoded
	// or lacks a required field.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned when Crossref answers with anything but 200 OK.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("crossref returned HTTP %d for %s", e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// MalformedError describes which part of a search response failed
// validation. Index is -1 when the problem is in the envelope rather than
// in a specific item.
type MalformedError struct {
	Index int
	Field string
}

func (e *MalformedError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed response: missing %s", e.Field)
	}
	return fmt.Sprintf("malformed response: item %d missing %s", e.Index, e.Field)
}

func (e *MalformedError) Unwrap() error { return ErrMalformedResponse }
