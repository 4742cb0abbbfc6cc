// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

// Shared machinery for the mutating methods: request body handling,
// digest verification, constraint checking, dataset assembly, and
// event emission.

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/headers"
	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// requestBody is a fully buffered request body.  Buffering first keeps
// digest verification and parsing independent of the network read.
type requestBody struct {
	data   []byte
	syntax *trellis.RDFSyntax
}

func (b requestBody) isRDF() bool { return b.syntax != nil }

// readBody buffers the request body and resolves its content type to a
// read syntax.  Digest verification happens here, before anything is
// parsed or persisted.
func (h *resourceHandler) readBody(ctx *requestContext, r io.Reader) (requestBody, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return requestBody{}, ldpdata.ErrBadRequest{Err: fmt.Errorf("reading request body: %w", err)}
	}

	if raw := ctx.header.Get("Digest"); raw != "" {
		digest := headers.ParseDigest(raw, h.cfg.digestAlgorithms())
		if digest == nil {
			return requestBody{}, ldpdata.ErrBadRequest{Err: fmt.Errorf("unsupported digest %q", raw)}
		}
		computed, err := ldpdata.HashDigest(digest.Algorithm, data)
		if err != nil {
			return requestBody{}, err
		}
		if computed != digest.Value {
			return requestBody{}, ldpdata.ErrBadRequest{Err: fmt.Errorf("digest mismatch for %v", digest.Algorithm)}
		}
	}

	syntax, err := h.negotiateRequest(ctx.header.Get("Content-Type"))
	if err != nil {
		return requestBody{}, err
	}
	return requestBody{data: data, syntax: syntax}, nil
}

// parseTriples parses a buffered RDF body against the resource base.
func (h *resourceHandler) parseTriples(ctx *requestContext, body requestBody) ([]rdf.Triple, error) {
	triples, err := h.svcs.IO.Read(bytes.NewReader(body.data), ctx.id.Value, *body.syntax)
	if err != nil {
		return nil, ldpdata.ErrBadRequest{Err: fmt.Errorf("parsing %v body: %w", body.syntax.MediaType, err)}
	}
	return triples, nil
}

// checkConstraints fans the graph out to every configured constraint
// service and joins the violations into one conflict.
func (h *resourceHandler) checkConstraints(model trellis.InteractionModel, graph []rdf.Triple) error {
	if len(h.svcs.Constraints) == 0 {
		return nil
	}
	violations := make([][]trellis.ConstraintViolation, len(h.svcs.Constraints))
	var wg sync.WaitGroup
	for i, svc := range h.svcs.Constraints {
		wg.Add(1)
		go func(i int, svc trellis.ConstraintService) {
			defer wg.Done()
			violations[i] = svc.Check(model, graph)
		}(i, svc)
	}
	wg.Wait()

	var constraints []rdf.IRI
	var messages []string
	for _, vs := range violations {
		for _, v := range vs {
			constraints = append(constraints, v.Constraint)
			messages = append(messages, v.Message)
		}
	}
	if len(constraints) == 0 {
		return nil
	}
	return ldpdata.ErrConflict{
		Message:     strings.Join(messages, "; "),
		Constraints: constraints,
	}
}

// buildDataset assembles the atomic write: the new triples in their
// target graph, every other graph carried over from the previous
// state, and the audit trail (previous entries plus the new one).
func buildDataset(prev trellis.Resource, target rdf.IRI, triples []rdf.Triple, audit []rdf.Quad) (*trellis.Dataset, error) {
	d := trellis.NewDataset()
	if err := d.AddTriples(target, triples); err != nil {
		return nil, err
	}
	if prev != nil {
		carried := []rdf.IRI{trellis.PreferUserManaged, trellis.PreferAccessControl, trellis.PreferAudit}
		for _, graph := range carried {
			if graph == target {
				continue
			}
			if err := d.AddAll(prev.Quads(graph)); err != nil {
				return nil, err
			}
		}
	}
	if err := d.AddAll(audit); err != nil {
		return nil, err
	}
	return d, nil
}

// auditQuads asks the audit service for the trail entry of one
// mutation kind against one resource.
func (h *resourceHandler) auditQuads(kind rdf.IRI, id rdf.IRI, session trellis.Session) []rdf.Quad {
	if h.svcs.Audit == nil {
		return nil
	}
	switch kind {
	case trellis.AuditCreation:
		return h.svcs.Audit.Creation(id, session)
	case trellis.AuditDeletion:
		return h.svcs.Audit.Deletion(id, session)
	default:
		return h.svcs.Audit.Update(id, session)
	}
}

// emit notifies the event service after a successful mutation.
func (h *resourceHandler) emit(id rdf.IRI, activity rdf.IRI, session trellis.Session, model trellis.InteractionModel) {
	if h.svcs.Events == nil {
		return
	}
	h.svcs.Events.Emit(trellis.Event{
		Identifier: id,
		Activity:   activity,
		Agent:      session.Agent,
		Types:      []rdf.IRI{model.IRI()},
	})
}

// contentRevision derives the revision token from the semantic content
// of a write: the identifier, the interaction model, the binary
// descriptor, and every non-audit quad in canonical order.  A replace
// that leaves the content unchanged keeps its revision, and with it
// the strong ETag.
func contentRevision(meta trellis.Metadata, d *trellis.Dataset) string {
	lines := []string{meta.Identifier.Value, meta.InteractionModel.IRI().Value}
	if meta.Binary != nil {
		lines = append(lines,
			meta.Binary.Identifier.Value,
			meta.Binary.MimeType,
			strconv.FormatInt(meta.Binary.Size, 10))
	}
	var quads []string
	for _, q := range d.Quads() {
		if g, ok := q.G.(rdf.IRI); ok && g == trellis.PreferAudit {
			continue
		}
		graph := ""
		if q.G != nil {
			graph = q.G.String()
		}
		quads = append(quads, q.S.String()+" "+q.P.String()+" "+q.O.String()+" "+graph)
	}
	sort.Strings(quads)
	sum := md5.Sum([]byte(strings.Join(append(lines, quads...), "\n")))
	return fmt.Sprintf("%x", sum)
}

// modelSupported verifies the backend persists the requested LDP type.
func (h *resourceHandler) modelSupported(model trellis.InteractionModel) error {
	for _, m := range h.svcs.Resources.SupportedInteractionModels() {
		if m == model {
			return nil
		}
	}
	return ldpdata.ErrConflict{
		Message:     fmt.Sprintf("interaction model %v is not supported", model),
		Constraints: []rdf.IRI{trellis.UnsupportedInteractionModel},
	}
}

// liveResource loads the current state, translating a tombstone into
// 410 with the version history attached.
func (h *resourceHandler) liveResource(id rdf.IRI) (trellis.Resource, error) {
	res, err := h.svcs.Resources.Get(id)
	if err != nil {
		if _, missing := err.(trellis.ErrNoSuchResource); missing {
			return nil, ldpdata.ErrNotFound{Err: err}
		}
		return nil, err
	}
	if res.IsDeleted() {
		ranges, _ := h.svcs.Resources.Mementos(id)
		return nil, ldpdata.ErrGone{Identifier: id, Mementos: ranges}
	}
	return res, nil
}
