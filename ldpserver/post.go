// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"bytes"
	"fmt"
	"io"

	"github.com/geoknoesis/rdf-go/rdf"
	uuid "github.com/satori/go.uuid"

	"github.com/trellis-ldp/go-trellis/headers"
	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// Post creates a child resource inside a container.  The child's name
// comes from the Slug header when available, otherwise a generated
// identifier.
func (h *resourceHandler) Post(ctx *requestContext, r io.Reader) (*result, error) {
	parent, err := h.liveResource(ctx.id)
	if err != nil {
		return nil, err
	}
	if !parent.InteractionModel().IsA(trellis.ModelContainer) {
		return nil, ldpdata.ErrMethodNotAllowed{Method: ctx.method}
	}

	body, err := h.readBody(ctx, r)
	if err != nil {
		return nil, err
	}

	childID, err := h.childIdentifier(ctx)
	if err != nil {
		return nil, err
	}
	model, err := h.resolveModel(ctx, nil, body)
	if err != nil {
		return nil, err
	}
	if err := h.modelSupported(model); err != nil {
		return nil, err
	}

	meta := trellis.Metadata{
		Identifier:       childID,
		InteractionModel: model,
		Container:        &ctx.id,
	}

	var triples []rdf.Triple
	if model.IsA(trellis.ModelNonRDFSource) {
		childCtx := *ctx
		childCtx.id = childID
		binary, err := h.storeBinary(&childCtx, nil, body)
		if err != nil {
			return nil, err
		}
		meta.Binary = binary
	} else {
		if !body.isRDF() {
			return nil, ldpdata.ErrUnsupportedMediaType{Type: ctx.header.Get("Content-Type")}
		}
		// Relative IRIs in the body refer to the new child.
		triples, err = h.svcs.IO.Read(bytes.NewReader(body.data), childID.Value, *body.syntax)
		if err != nil {
			return nil, ldpdata.ErrBadRequest{Err: err}
		}
		if err := h.checkConstraints(model, triples); err != nil {
			return nil, err
		}
	}

	d, err := buildDataset(nil, trellis.PreferUserManaged, triples,
		h.auditQuads(trellis.AuditCreation, childID, ctx.session))
	if err != nil {
		return nil, err
	}
	defer d.Close()
	meta.Revision = contentRevision(meta, d)

	if err := h.svcs.Resources.Create(meta, d); err != nil {
		if err == trellis.ErrChildExists {
			// Lost a create race with a concurrent writer.
			return nil, ldpdata.ErrConflict{Message: err.Error()}
		}
		return nil, err
	}
	h.emit(childID, trellis.AuditCreation, ctx.session, model)

	out := newResult(201)
	out.header.Set("Location", childID.Value)
	out.header.Add("Link", headers.FormatLink(model.IRI().Value, "rel", "type"))
	return out, nil
}

// childIdentifier picks the new child's IRI.  A Slug naming a live
// resource is a conflict; a tombstoned name may be reused.  Without a
// Slug the name is generated.
func (h *resourceHandler) childIdentifier(ctx *requestContext) (rdf.IRI, error) {
	base := ctx.path
	if slug := headers.ParseSlug(ctx.header.Get("Slug")); slug != "" {
		id := h.identifierFor(joinPath(base, slug))
		if res, err := h.svcs.Resources.Get(id); err != nil || res.IsDeleted() {
			return id, nil
		}
		return rdf.IRI{}, ldpdata.ErrConflict{
			Message: fmt.Sprintf("a resource already exists at %v", id.Value),
		}
	}
	return h.identifierFor(joinPath(base, uuid.NewV4().String())), nil
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}
