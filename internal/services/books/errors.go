package books

import "fmt"

// ErrorKind classifies why a volume search failed.
type ErrorKind int

const (
	// NetworkFailure means no response was received.
	NetworkFailure ErrorKind = iota + 1
	// HTTPStatusFailure means the API answered with a non-2xx status.
	HTTPStatusFailure
	// APIReportedFailure means the body carried an error object.
	APIReportedFailure
	// MalformedResponseFailure means the body was not JSON or had the wrong shape.
	MalformedResponseFailure
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network"
	case HTTPStatusFailure:
		return "http_status"
	case APIReportedFailure:
		return "api_error"
	case MalformedResponseFailure:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is returned by Service.Search for every failed search.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func networkError(err error) *Error {
	return &Error{
		Kind:    NetworkFailure,
		Message: fmt.Sprintf("could not reach the book catalog: %v", err),
		Err:     err,
	}
}

func statusError(code int) *Error {
	return &Error{
		Kind:       HTTPStatusFailure,
		StatusCode: code,
		Message:    fmt.Sprintf("search failed: HTTP %d", code),
	}
}

func apiError(code int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("book catalog reported error %d", code)
	}
	return &Error{
		Kind:       APIReportedFailure,
		StatusCode: code,
		Message:    message,
	}
}

func malformedError(err error) *Error {
	return &Error{
		Kind:    MalformedResponseFailure,
		Message: fmt.Sprintf("malformed response from book catalog: %v", err),
		Err:     err,
	}
}
