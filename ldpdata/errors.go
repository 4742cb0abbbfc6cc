// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpdata

import (
	"fmt"
	"net/http"
	"time"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// ErrorStatus describes errors that correspond to specific HTTP status
// codes.  The handler layer maps any other error to a 500.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrBadRequest wraps a request-shape error: a malformed header, an
// unparsable body, or a digest mismatch.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string { return e.Err.Error() }

// HTTPStatus returns a fixed 400 Bad Request status code.
func (e ErrBadRequest) HTTPStatus() int { return http.StatusBadRequest }

// ErrUnauthorized is returned when an anonymous session lacks a
// required access mode.
type ErrUnauthorized struct{}

func (e ErrUnauthorized) Error() string { return "authentication required" }

// HTTPStatus returns a fixed 401 Unauthorized status code.
func (e ErrUnauthorized) HTTPStatus() int { return http.StatusUnauthorized }

// ErrForbidden is returned when an authenticated session lacks a
// required access mode.
type ErrForbidden struct {
	Agent string
}

func (e ErrForbidden) Error() string { return fmt.Sprintf("access denied for %v", e.Agent) }

// HTTPStatus returns a fixed 403 Forbidden status code.
func (e ErrForbidden) HTTPStatus() int { return http.StatusForbidden }

// ErrNotFound wraps an error that means the requested resource or
// version does not exist.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string { return e.Err.Error() }

// HTTPStatus returns a fixed 404 Not Found status code.
func (e ErrNotFound) HTTPStatus() int { return http.StatusNotFound }

// ErrMethodNotAllowed flags a method a target does not support, such
// as any mutation against a memento or timemap.
type ErrMethodNotAllowed struct {
	Method string
}

func (e ErrMethodNotAllowed) Error() string { return fmt.Sprintf("method %v not allowed", e.Method) }

// HTTPStatus returns a fixed 405 Method Not Allowed status code.
func (e ErrMethodNotAllowed) HTTPStatus() int { return http.StatusMethodNotAllowed }

// ErrNotAcceptable is returned when no Accept entry matches a
// writable RDF syntax.
type ErrNotAcceptable struct{}

func (e ErrNotAcceptable) Error() string { return "no acceptable representation for response" }

// HTTPStatus returns a fixed 406 Not Acceptable status code.
func (e ErrNotAcceptable) HTTPStatus() int { return http.StatusNotAcceptable }

// ErrConflict reports a resource-state conflict: a constraint
// violation, an invalid interaction-model transition, or an existing
// child on POST.  Constraints are surfaced as constrainedBy links.
type ErrConflict struct {
	Message     string
	Constraints []rdf.IRI
}

func (e ErrConflict) Error() string { return e.Message }

// HTTPStatus returns a fixed 409 Conflict status code.
func (e ErrConflict) HTTPStatus() int { return http.StatusConflict }

// ErrGone marks a tombstoned resource.  Mementos lets the response
// still advertise the resource's history.
type ErrGone struct {
	Identifier rdf.IRI
	Mementos   []trellis.VersionRange
}

func (e ErrGone) Error() string { return fmt.Sprintf("resource %v has been deleted", e.Identifier.Value) }

// HTTPStatus returns a fixed 410 Gone status code.
func (e ErrGone) HTTPStatus() int { return http.StatusGone }

// ErrUnsupportedMediaType is returned when a request body arrives in a
// content type no reader supports.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string { return fmt.Sprintf("unsupported media type %q", e.Type) }

// HTTPStatus returns a fixed 415 Unsupported Media Type status code.
func (e ErrUnsupportedMediaType) HTTPStatus() int { return http.StatusUnsupportedMediaType }

// ErrPreconditionFailed is returned when a conditional request header
// rules out the current resource state.
type ErrPreconditionFailed struct {
	Header string
}

func (e ErrPreconditionFailed) Error() string { return fmt.Sprintf("precondition %v failed", e.Header) }

// HTTPStatus returns a fixed 412 Precondition Failed status code.
func (e ErrPreconditionFailed) HTTPStatus() int { return http.StatusPreconditionFailed }

// ErrPreconditionRequired is returned when the server mandates
// conditional writes and the request carried none.
type ErrPreconditionRequired struct{}

func (e ErrPreconditionRequired) Error() string {
	return "this server requires conditional write requests"
}

// HTTPStatus returns a fixed 428 Precondition Required status code.
func (e ErrPreconditionRequired) HTTPStatus() int { return http.StatusPreconditionRequired }

// ErrNotModified short-circuits a conditional GET/HEAD.  It travels
// the error path because it terminates handling early, but it is a
// success from the client's point of view.
type ErrNotModified struct {
	ETag     string
	Modified time.Time
}

func (e ErrNotModified) Error() string { return "not modified" }

// HTTPStatus returns a fixed 304 Not Modified status code.
func (e ErrNotModified) HTTPStatus() int { return http.StatusNotModified }
