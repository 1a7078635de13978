// Package apperr defines the error taxonomy shared by the daemon client,
// the registry scraper and the background tasks. Every error surfaced to the
// user is an *Error carrying a Kind and a human-readable message.
package apperr

import (
	"errors"
	"fmt"
)

// Re-exported for callers that only import apperr.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Kind classifies an application error.
type Kind int

const (
	Unknown Kind = iota
	IO
	Network
	Deserialization
	Response
	Scraping
	Command
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "I/O error"
	case Network:
		return "network error"
	case Deserialization:
		return "deserialization error"
	case Response:
		return "API error"
	case Scraping:
		return "scraping error"
	case Command:
		return "command error"
	default:
		return "error"
	}
}

// Error is the single concrete error type of the application.
type Error struct {
	Kind Kind
	Msg  string
	// StatusCode is set for Response errors.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind, so errors.Is(err, apperr.ErrScraping)
// works for any scraping failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks by kind.
var (
	ErrIO              = &Error{Kind: IO}
	ErrNetwork         = &Error{Kind: Network}
	ErrDeserialization = &Error{Kind: Deserialization}
	ErrResponse        = &Error{Kind: Response}
	ErrScraping        = &Error{Kind: Scraping}
	ErrCommand         = &Error{Kind: Command}
)

func NewIO(msg string, err error) *Error {
	return &Error{Kind: IO, Msg: msg, Err: err}
}

func NewNetwork(msg string, err error) *Error {
	return &Error{Kind: Network, Msg: msg, Err: err}
}

func NewDeserialization(msg string, err error) *Error {
	return &Error{Kind: Deserialization, Msg: msg, Err: err}
}

// NewResponse records a non-success response from a remote endpoint.
func NewResponse(statusCode int, msg string) *Error {
	return &Error{Kind: Response, StatusCode: statusCode, Msg: fmt.Sprintf("API returned %d: %s", statusCode, msg)}
}

func NewScraping(msg string) *Error {
	return &Error{Kind: Scraping, Msg: msg}
}

func NewCommand(msg string, err error) *Error {
	return &Error{Kind: Command, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
