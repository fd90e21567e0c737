// Package apperr defines the HTTP-facing error taxonomy: a fixed set of
// error kinds, each carrying the exact HTTP status and JSON `{"code",
// "message"}` body the façade must emit, generalized from the original
// repository's per-kind response builder catalog
// (api_request_handler.h/response_utils.h) into one typed Go error.
package apperr

import (
	"fmt"
	"net/http"
)

// Code is one of the six error kinds surfaced to HTTP clients.
type Code string

const (
	CodeMapNotFound     Code = "mapNotFound"
	CodeInvalidArgument Code = "invalidArgument"
	CodeInvalidMethod   Code = "invalidMethod"
	CodeInvalidToken    Code = "invalidToken"
	CodeUnknownToken    Code = "unknownToken"
	CodeBadRequest      Code = "badRequest"
)

// Error is the typed error every handler-facing failure in this repo should
// resolve to before being written to the wire.
type Error struct {
	Code    Code
	Message string
	Status  int

	// Allow, when non-empty, is copied onto the response's Allow header; only
	// meaningful for CodeInvalidMethod.
	Allow string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapNotFound builds a 404 mapNotFound error.
func MapNotFound(message string) *Error {
	return &Error{Code: CodeMapNotFound, Message: message, Status: http.StatusNotFound}
}

// InvalidArgument builds a 400 invalidArgument error.
func InvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message, Status: http.StatusBadRequest}
}

// InvalidMethod builds a 405 invalidMethod error; allow is the method list
// for the response's Allow header.
func InvalidMethod(message, allow string) *Error {
	return &Error{Code: CodeInvalidMethod, Message: message, Status: http.StatusMethodNotAllowed, Allow: allow}
}

// InvalidToken builds a 401 invalidToken error (missing/malformed header).
func InvalidToken(message string) *Error {
	return &Error{Code: CodeInvalidToken, Message: message, Status: http.StatusUnauthorized}
}

// UnknownToken builds a 401 unknownToken error (well-formed but unrecognized
// token).
func UnknownToken(message string) *Error {
	return &Error{Code: CodeUnknownToken, Message: message, Status: http.StatusUnauthorized}
}

// BadRequest builds a 400 badRequest error, used for unmatched /api/ paths
// and malformed bodies that don't fit a more specific kind.
func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message, Status: http.StatusBadRequest}
}
