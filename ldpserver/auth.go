// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// authorize gates the request against the access service.  A nil
// access service leaves the server open.
func (h *resourceHandler) authorize(ctx *requestContext) error {
	if h.svcs.Access == nil {
		return nil
	}
	held := h.svcs.Access.Modes(ctx.id, ctx.session)
	for _, mode := range requiredModes(ctx) {
		if held.Has(mode) {
			return h.logAccess(ctx, nil)
		}
	}
	if ctx.session.IsAnonymous() {
		return h.logAccess(ctx, ldpdata.ErrUnauthorized{})
	}
	return h.logAccess(ctx, ldpdata.ErrForbidden{Agent: ctx.session.Agent})
}

// requiredModes lists the access modes, any one of which permits the
// request.  Access-control documents always need acl:Control.
func requiredModes(ctx *requestContext) []trellis.AccessMode {
	if ctx.IsACL() {
		return []trellis.AccessMode{trellis.AccessControl}
	}
	switch ctx.method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return []trellis.AccessMode{trellis.AccessRead}
	case http.MethodPatch:
		// A PATCH that only adds triples is an append; holders of
		// either mode may try, and the backend write is identical.
		return []trellis.AccessMode{trellis.AccessWrite, trellis.AccessAppend}
	default:
		return []trellis.AccessMode{trellis.AccessWrite}
	}
}

func (h *resourceHandler) logAccess(ctx *requestContext, err error) error {
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"agent":  ctx.session.Agent,
			"method": ctx.method,
			"path":   ctx.path,
		}).Info("Access denied")
	}
	return err
}
