package domain

import (
	"errors"
	"fmt"
)

// ErrSearchUnavailable marks a search engine that could not be reached or
// whose result page no longer matches the expected shape. Callers degrade
// to zero results instead of aborting the run.
var ErrSearchUnavailable = errors.New("search unavailable")

// FetchKind classifies why a page fetch failed.
type FetchKind int

const (
	FetchTimeout FetchKind = iota
	FetchStatus
	FetchConnection
)

func (k FetchKind) String() string {
	switch k {
	case FetchTimeout:
		return "timeout"
	case FetchStatus:
		return "status"
	case FetchConnection:
		return "connection"
	}
	return "unknown"
}

// FetchError is a per-URL fetch failure. The pipeline treats any FetchError
// as "skip this candidate".
type FetchError struct {
	URL    string
	Kind   FetchKind
	Status int // set when Kind == FetchStatus
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchStatus {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistenceError is a failed spreadsheet write. One failure is reported
// and the run continues; a streak of them aborts the run.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("sheet: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
