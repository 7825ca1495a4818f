// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guardian

import (
	"errors"
	"fmt"
)

// Failure kinds reported by the pipeline. Match with errors.Is.
var (
	ErrMalformedEndpoint = errors.New("malformed endpoint")
	ErrFetch             = errors.New("fetch failed")
	ErrDecode            = errors.New("decode failed")
	ErrRecord            = errors.New("invalid article record")
)

// FetchError describes a failed GET: either a non-200 status or a
// transport-level error (StatusCode is 0 in that case).
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports ErrFetch so callers need not know the concrete type.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// RecordError describes one article entry of results that could not be
// turned into an Article.
type RecordError struct {
	// Index is the position of the entry in response.results.
	Index int
	// Field names the offending JSON field, empty when the entry itself is malformed.
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("result %d: %s: %v", e.Index, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("result %d: missing %s", e.Index, e.Field)
	default:
		return fmt.Sprintf("result %d: %v", e.Index, e.Err)
	}
}

func (e *RecordError) Unwrap() error { return e.Err }

func (e *RecordError) Is(target error) bool { return target == ErrRecord }
