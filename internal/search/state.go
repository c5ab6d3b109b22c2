package search

import (
	"errors"

	"github.com/tuannvm/gobooks/internal/services/books"
)

// Status is the phase of the latest search.
type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the outcome of the latest issued search. Page is set only when
// Succeeded, Err only when Failed.
type State struct {
	Status Status
	// Query is the effective query of the request this state belongs to.
	Query string
	Page  *books.Page
	Err   error
}

// Message is the user-facing failure text, or "" unless Failed.
func (s State) Message() string {
	if s.Status != Failed || s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Kind is the failure category, or 0 when the error did not come from the
// books service.
func (s State) Kind() books.ErrorKind {
	var e *books.Error
	if errors.As(s.Err, &e) {
		return e.Kind
	}
	return 0
}
