// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/sirupsen/logrus"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// Delete tombstones a resource.  With ?ext=acl it instead strips the
// access-control graph, leaving the resource itself in place.
func (h *resourceHandler) Delete(ctx *requestContext) (*result, error) {
	res, err := h.liveResource(ctx.id)
	if err != nil {
		return nil, err
	}
	if err := h.checkRequiredPreconditions(ctx); err != nil {
		return nil, err
	}
	if err := h.checkCache(ctx, res, etagFor(res, false)); err != nil {
		return nil, err
	}

	if ctx.IsACL() {
		return h.deleteACL(ctx, res)
	}

	meta := metadataFrom(res)
	d := trellis.NewDataset()
	defer d.Close()
	if err := d.AddAll(res.Quads(trellis.PreferAudit)); err != nil {
		return nil, err
	}
	if err := d.AddAll(h.auditQuads(trellis.AuditDeletion, ctx.id, ctx.session)); err != nil {
		return nil, err
	}
	meta.Revision = contentRevision(meta, d)

	if err := h.svcs.Resources.Delete(meta, d); err != nil {
		return nil, err
	}
	h.emit(ctx.id, trellis.AuditDeletion, ctx.session, meta.InteractionModel)

	if h.cfg.PurgeBinariesOnDelete && meta.Binary != nil {
		if err := h.svcs.Binaries.PurgeContent(meta.Binary.Identifier); err != nil {
			logrus.WithFields(logrus.Fields{
				"err":    err,
				"binary": meta.Binary.Identifier.Value,
			}).Warn("Error purging binary content")
		}
	}
	return newResult(204), nil
}

// deleteACL rewrites the resource without its access-control graph;
// access decisions fall back to the inherited defaults.
func (h *resourceHandler) deleteACL(ctx *requestContext, res trellis.Resource) (*result, error) {
	meta := metadataFrom(res)
	d := trellis.NewDataset()
	defer d.Close()
	carried := []rdf.IRI{trellis.PreferUserManaged, trellis.PreferAudit}
	for _, graph := range carried {
		if err := d.AddAll(res.Quads(graph)); err != nil {
			return nil, err
		}
	}
	if err := d.AddAll(h.auditQuads(trellis.AuditUpdate, ctx.id, ctx.session)); err != nil {
		return nil, err
	}
	meta.Revision = contentRevision(meta, d)
	if err := h.svcs.Resources.Replace(meta, d); err != nil {
		return nil, err
	}
	h.emit(ctx.id, trellis.AuditUpdate, ctx.session, meta.InteractionModel)
	return newResult(204), nil
}
