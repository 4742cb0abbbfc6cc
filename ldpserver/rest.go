// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

// This file contains the protocol skeleton: the central ServeHTTP
// dispatch, the result type handlers produce, and the mapping from
// typed errors to HTTP responses.  Handlers never write to the
// ResponseWriter themselves; they return a *result or an error and
// everything observable happens here.

import (
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trellis-ldp/go-trellis/headers"
	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// result is a handler's successful response: a status code, response
// headers, and an optional body writer.  The body writer runs after
// the status line is sent, so it must not fail for reasons that should
// have produced a different status.
type result struct {
	status int
	header http.Header
	body   func(io.Writer) error
}

func newResult(status int) *result {
	return &result{status: status, header: make(http.Header)}
}

func (h *resourceHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	status := http.StatusInternalServerError

	// Recover from panics by sending an HTTP error.
	defer func() {
		if recovered := recover(); recovered != nil {
			var stack [4096]byte
			n := runtime.Stack(stack[:], false)
			logrus.WithFields(logrus.Fields{
				"panic": recovered,
				"stack": string(stack[:n]),
			}).Error("Panic in request handler")
			resp.Header().Set("Content-Type", ldpdata.ApplicationJSON)
			resp.WriteHeader(http.StatusInternalServerError)
			ldpdata.ErrorResponse{Error: "panic", Message: fmt.Sprintf("%v", recovered)}.WriteTo(resp)
		}
		requestsTotal.WithLabelValues(req.Method, strconv.Itoa(status)).Inc()
	}()

	ctx := h.newContext(req)
	res, err := h.dispatch(ctx, req)
	if err != nil {
		status = h.writeError(resp, ctx, err)
		return
	}
	status = res.status
	for key, values := range res.header {
		for _, value := range values {
			resp.Header().Add(key, value)
		}
	}
	resp.WriteHeader(res.status)
	if res.body != nil && req.Method != http.MethodHead {
		if err := res.body(resp); err != nil {
			// The status line is already on the wire; all we
			// can do is log.
			logrus.WithFields(logrus.Fields{
				"err":  err,
				"path": ctx.path,
			}).Error("Error writing response body")
		}
	}
}

func (h *resourceHandler) dispatch(ctx *requestContext, req *http.Request) (*result, error) {
	if err := h.authorize(ctx); err != nil {
		return nil, err
	}

	// Versions and timemaps are immutable through the live-resource
	// path.
	_, hasVersion, validVersion := ctx.Version()
	if !validVersion {
		return nil, ldpdata.ErrBadRequest{Err: fmt.Errorf("invalid version parameter %q", ctx.query.Get("version"))}
	}
	if hasVersion || ctx.Ext() == extTimemap {
		switch ctx.method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			return nil, ldpdata.ErrMethodNotAllowed{Method: ctx.method}
		}
	}

	switch ctx.method {
	case http.MethodGet, http.MethodHead:
		return h.Get(ctx)
	case http.MethodOptions:
		return h.Options(ctx)
	case http.MethodPut:
		return h.Put(ctx, req.Body)
	case http.MethodPost:
		return h.Post(ctx, req.Body)
	case http.MethodPatch:
		return h.Patch(ctx, req.Body)
	case http.MethodDelete:
		return h.Delete(ctx)
	default:
		return nil, ldpdata.ErrMethodNotAllowed{Method: ctx.method}
	}
}

// writeError maps a handler error onto the response and returns the
// status code it sent.
func (h *resourceHandler) writeError(resp http.ResponseWriter, ctx *requestContext, err error) int {
	status := http.StatusInternalServerError
	if errS, hasStatus := err.(ldpdata.ErrorStatus); hasStatus {
		status = errS.HTTPStatus()
	} else {
		logrus.WithFields(logrus.Fields{
			"err":    err,
			"path":   ctx.path,
			"method": ctx.method,
		}).Error("Internal error handling request")
	}

	switch e := err.(type) {
	case ldpdata.ErrNotModified:
		if e.ETag != "" {
			resp.Header().Set("ETag", e.ETag)
		}
		resp.WriteHeader(status)
		return status
	case ldpdata.ErrGone:
		// A deleted resource still has history; advertise it.
		for _, link := range h.mementoLinks(e.Identifier, e.Mementos) {
			resp.Header().Add("Link", link)
		}
	case ldpdata.ErrConflict:
		for _, constraint := range e.Constraints {
			resp.Header().Add("Link", headers.FormatLink(constraint.Value, "rel", constrainedByRel))
		}
	case ldpdata.ErrUnauthorized:
		resp.Header().Set("WWW-Authenticate", `Bearer realm="trellis"`)
	case ldpdata.ErrPreconditionRequired:
		resp.Header().Add("Link", headers.FormatLink(trellis.PreconditionRequired.Value, "rel", constrainedByRel))
	}

	resp.Header().Set("Content-Type", ldpdata.ApplicationJSON)
	resp.WriteHeader(status)
	body := ldpdata.ErrorResponse{Error: http.StatusText(status), Message: err.Error()}
	if writeErr := body.WriteTo(resp); writeErr != nil {
		logrus.WithFields(logrus.Fields{"err": writeErr}).Debug("Error encoding error response")
	}
	return status
}

const (
	extTimemap       = "timemap"
	constrainedByRel = "http://www.w3.org/ns/ldp#constrainedBy"
)

// httpDate renders an instant in the RFC 7231 date format.
func httpDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}
