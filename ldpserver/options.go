// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"strings"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// Options advertises the method and media-type surface of a resource.
func (h *resourceHandler) Options(ctx *requestContext) (*result, error) {
	out := newResult(204)

	_, hasVersion, _ := ctx.Version()
	if hasVersion || ctx.Ext() == extTimemap {
		out.header.Set("Allow", "GET, HEAD, OPTIONS")
		return out, nil
	}

	res, err := h.liveResource(ctx.id)
	if err != nil {
		return nil, err
	}

	allow := "GET, HEAD, OPTIONS, PUT, PATCH, DELETE"
	if res.InteractionModel().IsA(trellis.ModelContainer) {
		allow += ", POST"
		var accepted []string
		for _, syntax := range h.svcs.IO.ReadSyntaxes() {
			accepted = append(accepted, syntax.MediaType)
		}
		out.header.Set("Accept-Post", strings.Join(accepted, ", "))
	}
	out.header.Set("Allow", allow)
	out.header.Set("Accept-Patch", ldpdata.ApplicationSparql)
	return out, nil
}
