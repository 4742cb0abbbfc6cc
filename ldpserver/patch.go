// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"io"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/headers"
	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// Patch applies a SPARQL update to a resource's user-managed graph, or
// to its access-control graph for ?ext=acl.
func (h *resourceHandler) Patch(ctx *requestContext, r io.Reader) (*result, error) {
	res, err := h.liveResource(ctx.id)
	if err != nil {
		return nil, err
	}
	if res.InteractionModel().IsA(trellis.ModelNonRDFSource) && !ctx.IsACL() {
		return nil, ldpdata.ErrMethodNotAllowed{Method: ctx.method}
	}

	if err := h.checkRequiredPreconditions(ctx); err != nil {
		return nil, err
	}
	if err := h.checkCache(ctx, res, etagFor(res, false)); err != nil {
		return nil, err
	}

	contentType := strings.TrimSpace(ctx.header.Get("Content-Type"))
	mediaType, _, _ := strings.Cut(contentType, ";")
	if !strings.EqualFold(strings.TrimSpace(mediaType), ldpdata.ApplicationSparql) {
		return nil, ldpdata.ErrUnsupportedMediaType{Type: contentType}
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, ldpdata.ErrBadRequest{Err: err}
	}
	update, err := h.parseSparqlUpdate(string(body), ctx.id.Value)
	if err != nil {
		return nil, err
	}

	target := trellis.PreferUserManaged
	if ctx.IsACL() {
		target = trellis.PreferAccessControl
	}
	patched := update.apply(trellis.GraphTriples(res.Quads(target), target))
	if !ctx.IsACL() {
		if err := h.checkConstraints(res.InteractionModel(), patched); err != nil {
			return nil, err
		}
	}

	meta := metadataFrom(res)
	d, err := buildDataset(res, target, patched, h.auditQuads(trellis.AuditUpdate, ctx.id, ctx.session))
	if err != nil {
		return nil, err
	}
	defer d.Close()
	meta.Revision = contentRevision(meta, d)

	if err := h.svcs.Resources.Replace(meta, d); err != nil {
		return nil, err
	}
	h.emit(ctx.id, trellis.AuditUpdate, ctx.session, meta.InteractionModel)

	if prefer := ctx.Prefer(); prefer != nil && prefer.Preference == headers.PreferRepresentation {
		return h.patchedRepresentation(ctx, patched)
	}
	return newResult(204), nil
}

// patchedRepresentation answers a PATCH carrying Prefer:
// return=representation with the updated graph.
func (h *resourceHandler) patchedRepresentation(ctx *requestContext, triples []rdf.Triple) (*result, error) {
	rep, err := h.negotiateResponse(ctx, false)
	if err != nil {
		return nil, err
	}
	out := newResult(200)
	out.header.Set("Content-Type", rep.syntax.MediaType)
	out.header.Set("Preference-Applied", "return=representation")
	out.body = func(w io.Writer) error {
		return h.svcs.IO.Write(w, triples, *rep.syntax, rep.profile)
	}
	return out, nil
}
