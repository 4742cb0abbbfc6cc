// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"bytes"
	"fmt"
	"io"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// Put replaces a resource's state, creating the resource when nothing
// lives at the identifier yet.
func (h *resourceHandler) Put(ctx *requestContext, r io.Reader) (*result, error) {
	prev, err := h.svcs.Resources.Get(ctx.id)
	switch err.(type) {
	case nil:
	case trellis.ErrNoSuchResource:
		prev = nil
	default:
		return nil, err
	}
	exists := prev != nil && !prev.IsDeleted()
	if prev != nil && prev.IsDeleted() {
		// Re-creating over a tombstone extends the old history.
		prev = nil
	}

	if exists {
		if err := h.checkRequiredPreconditions(ctx); err != nil {
			return nil, err
		}
		if err := h.checkCache(ctx, prev, etagFor(prev, false)); err != nil {
			return nil, err
		}
	}

	body, err := h.readBody(ctx, r)
	if err != nil {
		return nil, err
	}

	if ctx.IsACL() {
		return h.putACL(ctx, prev, exists, body)
	}

	model, err := h.resolveModel(ctx, prev, body)
	if err != nil {
		return nil, err
	}
	if err := h.modelSupported(model); err != nil {
		return nil, err
	}

	meta := trellis.Metadata{
		Identifier:       ctx.id,
		InteractionModel: model,
	}
	if exists {
		if container, ok := prev.Container(); ok {
			meta.Container = &container
		}
	} else {
		meta.Container = h.resolveContainer(ctx)
	}

	var triples []rdf.Triple
	target := trellis.PreferUserManaged
	if model.IsA(trellis.ModelNonRDFSource) && !body.isRDF() {
		binary, err := h.storeBinary(ctx, prev, body)
		if err != nil {
			return nil, err
		}
		meta.Binary = binary
	} else {
		if !body.isRDF() {
			return nil, ldpdata.ErrUnsupportedMediaType{Type: ctx.header.Get("Content-Type")}
		}
		triples, err = h.parseTriples(ctx, body)
		if err != nil {
			return nil, err
		}
		if err := h.checkConstraints(model, triples); err != nil {
			return nil, err
		}
	}

	activity := trellis.AuditUpdate
	if !exists {
		activity = trellis.AuditCreation
	}
	d, err := buildDataset(prev, target, triples, h.auditQuads(activity, ctx.id, ctx.session))
	if err != nil {
		return nil, err
	}
	defer d.Close()
	meta.Revision = contentRevision(meta, d)

	if exists {
		err = h.svcs.Resources.Replace(meta, d)
	} else {
		err = h.svcs.Resources.Create(meta, d)
		if err == trellis.ErrChildExists {
			// Lost a create race with a concurrent writer.
			err = ldpdata.ErrConflict{Message: err.Error()}
		}
	}
	if err != nil {
		return nil, err
	}
	h.emit(ctx.id, activity, ctx.session, model)

	if !exists {
		out := newResult(201)
		out.header.Set("Location", ctx.id.Value)
		return out, nil
	}
	return newResult(204), nil
}

// putACL replaces only the access-control graph of an existing
// resource.
func (h *resourceHandler) putACL(ctx *requestContext, prev trellis.Resource, exists bool, body requestBody) (*result, error) {
	if !exists {
		return nil, ldpdata.ErrNotFound{Err: trellis.ErrNoSuchResource{Identifier: ctx.id}}
	}
	if !body.isRDF() {
		return nil, ldpdata.ErrUnsupportedMediaType{Type: ctx.header.Get("Content-Type")}
	}
	triples, err := h.parseTriples(ctx, body)
	if err != nil {
		return nil, err
	}

	meta := metadataFrom(prev)
	d, err := buildDataset(prev, trellis.PreferAccessControl, triples,
		h.auditQuads(trellis.AuditUpdate, ctx.id, ctx.session))
	if err != nil {
		return nil, err
	}
	defer d.Close()
	meta.Revision = contentRevision(meta, d)

	if err := h.svcs.Resources.Replace(meta, d); err != nil {
		return nil, err
	}
	h.emit(ctx.id, trellis.AuditUpdate, ctx.session, meta.InteractionModel)
	return newResult(204), nil
}

// resolveModel determines the interaction model of the written state:
// an explicit Link: rel=type wins, then the previous model, then the
// body shape.
func (h *resourceHandler) resolveModel(ctx *requestContext, prev trellis.Resource, body requestBody) (trellis.InteractionModel, error) {
	model, linked := ctx.TypeLink()
	if !linked {
		if prev != nil {
			model = prev.InteractionModel()
		} else if body.isRDF() {
			model = trellis.ModelRDFSource
		} else {
			model = trellis.ModelNonRDFSource
		}
	}

	// RDF and non-RDF state are not interchangeable in place.
	if prev != nil {
		was, is := prev.InteractionModel(), model
		if was.IsA(trellis.ModelNonRDFSource) != is.IsA(trellis.ModelNonRDFSource) {
			return model, ldpdata.ErrConflict{
				Message:     fmt.Sprintf("cannot change interaction model from %v to %v", was, is),
				Constraints: []rdf.IRI{trellis.InvalidInteractionModel},
			}
		}
	}
	if model.IsA(trellis.ModelNonRDFSource) && body.isRDF() {
		return model, ldpdata.ErrConflict{
			Message:     "an ldp:NonRDFSource cannot be created from an RDF body",
			Constraints: []rdf.IRI{trellis.InvalidInteractionModel},
		}
	}
	return model, nil
}

// resolveContainer finds the parent container for a PUT-created
// resource.  The parent participates only if it is a live container.
func (h *resourceHandler) resolveContainer(ctx *requestContext) *rdf.IRI {
	parent, ok := parentPath(ctx.path)
	if !ok {
		return nil
	}
	id := h.identifierFor(parent)
	res, err := h.svcs.Resources.Get(id)
	if err != nil || res.IsDeleted() || !res.InteractionModel().IsA(trellis.ModelContainer) {
		return nil
	}
	return &id
}

// storeBinary persists uploaded content, reusing the previous internal
// identifier when replacing.
func (h *resourceHandler) storeBinary(ctx *requestContext, prev trellis.Resource, body requestBody) (*trellis.BinaryMetadata, error) {
	if h.svcs.Binaries == nil {
		return nil, ldpdata.ErrUnsupportedMediaType{Type: ctx.header.Get("Content-Type")}
	}
	var identifier rdf.IRI
	if prev != nil {
		if bin, ok := prev.Binary(); ok {
			identifier = bin.Identifier
		}
	}
	if identifier.Value == "" {
		identifier = h.svcs.Binaries.GenerateIdentifier()
	}
	size, err := h.svcs.Binaries.SetContent(identifier, bytes.NewReader(body.data))
	if err != nil {
		return nil, err
	}
	mimeType := ctx.header.Get("Content-Type")
	if mimeType == "" {
		mimeType = ldpdata.OctetStream
	}
	return &trellis.BinaryMetadata{Identifier: identifier, MimeType: mimeType, Size: size}, nil
}

// metadataFrom copies a resource's server-managed state into a
// Metadata record.
func metadataFrom(res trellis.Resource) trellis.Metadata {
	meta := trellis.Metadata{
		Identifier:       res.Identifier(),
		InteractionModel: res.InteractionModel(),
	}
	if container, ok := res.Container(); ok {
		meta.Container = &container
	}
	if bin, ok := res.Binary(); ok {
		meta.Binary = &bin
	}
	return meta
}
