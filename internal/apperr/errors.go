// Package apperr defines the error taxonomy shared by the store adapters, the
// pipeline runner and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for propagation to the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindUpstream
	KindIngestion
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindUpstream:
		return "upstream_failure"
	case KindIngestion:
		return "ingestion_failure"
	default:
		return "internal"
	}
}

// Error carries a kind, a user-facing message and the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing player, game or analysis record.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// BadRequest reports a missing or malformed request parameter.
func BadRequest(message string) error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// Upstream wraps a store or third-party API failure.
func Upstream(message string, err error) error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// Ingestion wraps a failed ingestion program run.
func Ingestion(message string, err error) error {
	return &Error{Kind: KindIngestion, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message for err, or fallback when err does
// not carry one.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// HTTPStatus maps an error to the status code written at the API boundary.
// Store and ingestion failures both surface as 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
