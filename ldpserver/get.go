// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/headers"
	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// Get serves GET and HEAD.  The request shape is resolved in strict
// precedence: an explicit version, then a timemap, then datetime
// negotiation, then the live resource.
func (h *resourceHandler) Get(ctx *requestContext) (*result, error) {
	if ctx.Ext() == extTimemap {
		return h.timemapResult(ctx)
	}

	instant, hasVersion, _ := ctx.Version()
	if !hasVersion {
		if dt := ctx.Datetime(); dt != nil {
			return h.timegateResult(ctx, dt.Instant)
		}
	}

	res, err := h.fetch(ctx, instant, hasVersion)
	if err != nil {
		return nil, err
	}

	bin, hasBinary := res.Binary()
	rep, err := h.negotiateResponse(ctx, hasBinary && !ctx.IsACL())
	if err != nil {
		return nil, err
	}

	etag := etagFor(res, rep.syntax == nil)
	if err := h.checkCache(ctx, res, etag); err != nil {
		return nil, err
	}

	out := newResult(200)
	out.header.Set("ETag", etag)
	out.header.Set("Last-Modified", httpDate(res.Modified()))
	out.header.Set("Vary", "Accept, Prefer, Accept-Datetime")
	h.addResourceLinks(out, ctx, res)
	if hasVersion {
		out.header.Set("Memento-Datetime", httpDate(res.Modified()))
	}

	if rep.syntax == nil {
		return h.binaryResult(ctx, out, bin)
	}

	out.header.Set("Content-Type", rep.syntax.MediaType)
	triples, applied := h.selectTriples(ctx, res)
	triples = ctx.Pattern().filter(triples)
	if applied != "" {
		out.header.Set("Preference-Applied", applied)
	}
	out.body = func(w io.Writer) error {
		return h.svcs.IO.Write(w, triples, *rep.syntax, rep.profile)
	}
	return out, nil
}

// fetch loads the resource state for the resolved request shape,
// mapping storage errors to protocol errors.
func (h *resourceHandler) fetch(ctx *requestContext, instant time.Time, versioned bool) (trellis.Resource, error) {
	var res trellis.Resource
	var err error
	if versioned {
		res, err = h.svcs.Resources.GetAt(ctx.id, instant)
	} else {
		res, err = h.svcs.Resources.Get(ctx.id)
	}
	switch err.(type) {
	case nil:
	case trellis.ErrNoSuchResource, trellis.ErrNoSuchVersion:
		return nil, ldpdata.ErrNotFound{Err: err}
	default:
		return nil, err
	}
	if res.IsDeleted() && !versioned {
		ranges, _ := h.svcs.Resources.Mementos(ctx.id)
		return nil, ldpdata.ErrGone{Identifier: ctx.id, Mementos: ranges}
	}
	return res, nil
}

// addResourceLinks sets the LDP type links, the Allow/Accept-* surface
// and the Memento navigation links.
func (h *resourceHandler) addResourceLinks(out *result, ctx *requestContext, res trellis.Resource) {
	model := res.InteractionModel()
	out.header.Add("Link", headers.FormatLink(trellis.LDPResource.Value, "rel", "type"))
	out.header.Add("Link", headers.FormatLink(model.IRI().Value, "rel", "type"))

	allow := "GET, HEAD, OPTIONS, PUT, PATCH, DELETE"
	if model.IsA(trellis.ModelContainer) {
		allow += ", POST"
		var accepted []string
		for _, syntax := range h.svcs.IO.ReadSyntaxes() {
			accepted = append(accepted, syntax.MediaType)
		}
		out.header.Set("Accept-Post", strings.Join(accepted, ", "))
	}
	out.header.Set("Allow", allow)
	out.header.Set("Accept-Patch", ldpdata.ApplicationSparql)

	if ranges, err := h.svcs.Resources.Mementos(ctx.id); err == nil {
		for _, link := range h.mementoLinks(ctx.id, ranges) {
			out.header.Add("Link", link)
		}
	}
}

// binaryResult streams stored content, honoring a single-range Range
// header and a Want-Digest request.
func (h *resourceHandler) binaryResult(ctx *requestContext, out *result, bin trellis.BinaryMetadata) (*result, error) {
	from, to := int64(0), int64(-1)
	if raw := ctx.header.Get("Range"); raw != "" {
		rng := headers.ParseRange(raw)
		if rng == nil {
			return nil, ldpdata.ErrBadRequest{Err: fmt.Errorf("unsatisfiable range %q", raw)}
		}
		from, to = rng.From, rng.To
		out.status = 206
		out.header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", from, to, bin.Size))
	}

	if want := ctx.header.Get("Want-Digest"); want != "" {
		if algorithm := headers.ParseWantDigest(want, h.cfg.digestAlgorithms()); algorithm != "" {
			digest, err := h.svcs.Binaries.Digest(bin.Identifier, algorithm)
			if err != nil {
				return nil, err
			}
			out.header.Set("Digest", algorithm+"="+digest)
		}
	}

	mimeType := bin.MimeType
	if mimeType == "" {
		mimeType = ldpdata.OctetStream
	}
	out.header.Set("Content-Type", mimeType)
	out.header.Set("Accept-Ranges", "bytes")

	identifier := bin.Identifier
	out.body = func(w io.Writer) error {
		content, err := h.svcs.Binaries.Content(identifier, from, to)
		if err != nil {
			return err
		}
		defer content.Close()
		_, err = io.Copy(w, content)
		return err
	}
	return out, nil
}

// graphSelection is the set of graphs a representation includes.
type graphSelection struct {
	userManaged   bool
	containment   bool
	membership    bool
	serverManaged bool
	audit         bool
	accessControl bool
}

// selectTriples assembles the response graph, applying ?ext=acl and
// the Prefer include/omit parameters.  The second return is the
// Preference-Applied value, empty when no recognized token was seen.
func (h *resourceHandler) selectTriples(ctx *requestContext, res trellis.Resource) ([]rdf.Triple, string) {
	if ctx.IsACL() {
		return trellis.GraphTriples(res.Quads(trellis.PreferAccessControl), trellis.PreferAccessControl), ""
	}

	sel := graphSelection{userManaged: true, containment: true, membership: true, serverManaged: true}
	applied := ""
	if prefer := ctx.Prefer(); prefer != nil && prefer.Preference == headers.PreferRepresentation {
		recognized := false
		for _, token := range prefer.Include {
			recognized = sel.apply(token, true) || recognized
		}
		for _, token := range prefer.Omit {
			recognized = sel.apply(token, false) || recognized
		}
		if recognized {
			applied = "return=representation"
		}
	}

	var triples []rdf.Triple
	if sel.userManaged {
		triples = append(triples, trellis.GraphTriples(res.Quads(trellis.PreferUserManaged), trellis.PreferUserManaged)...)
	}
	if sel.containment {
		triples = append(triples, trellis.GraphTriples(res.Quads(trellis.PreferContainment), trellis.PreferContainment)...)
	}
	if sel.membership {
		triples = append(triples, trellis.GraphTriples(res.Quads(trellis.PreferMembership), trellis.PreferMembership)...)
	}
	if sel.serverManaged {
		triples = append(triples, serverManagedTriples(res)...)
	}
	if sel.audit {
		triples = append(triples, trellis.GraphTriples(res.Quads(trellis.PreferAudit), trellis.PreferAudit)...)
	}
	if sel.accessControl {
		triples = append(triples, trellis.GraphTriples(res.Quads(trellis.PreferAccessControl), trellis.PreferAccessControl)...)
	}
	return triples, applied
}

// apply toggles the graphs named by one Prefer token.  Reports whether
// the token was recognized.
func (sel *graphSelection) apply(token string, include bool) bool {
	switch token {
	case trellis.PreferUserManaged.Value:
		sel.userManaged = include
	case trellis.PreferContainment.Value:
		sel.containment = include
	case trellis.PreferMembership.Value:
		sel.membership = include
	case trellis.PreferServerManaged.Value:
		sel.serverManaged = include
	case trellis.PreferAudit.Value:
		sel.audit = include
	case trellis.PreferAccessControl.Value:
		sel.accessControl = include
	case trellis.PreferMinimalContainer.Value:
		// Minimal container inverts: including it drops the
		// containment and membership triples.
		sel.containment = !include
		sel.membership = !include
	default:
		return false
	}
	return true
}

// serverManagedTriples synthesizes the server-managed description of a
// resource: its type, modification time, and binary descriptor.
func serverManagedTriples(res trellis.Resource) []rdf.Triple {
	id := res.Identifier()
	triples := []rdf.Triple{
		{S: id, P: trellis.RDFType, O: res.InteractionModel().IRI()},
		{S: id, P: trellis.DCModified, O: xsdInstant(res.Modified())},
	}
	if container, ok := res.Container(); ok {
		triples = append(triples, rdf.Triple{S: id, P: trellis.DCIsPartOf, O: container})
	}
	if bin, ok := res.Binary(); ok {
		if bin.MimeType != "" {
			triples = append(triples, rdf.Triple{S: id, P: trellis.DCFormat,
				O: rdf.Literal{Lexical: bin.MimeType}})
		}
		triples = append(triples, rdf.Triple{S: id, P: trellis.DCExtent,
			O: rdf.Literal{Lexical: fmt.Sprintf("%d", bin.Size),
				Datatype: rdf.IRI{Value: trellis.NSXSD + "long"}}})
	}
	return triples
}
