// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/headers"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// requestContext holds all of the information that can be extracted
// from one HTTP request before any handler logic runs.  It is built
// once per request and read-only afterwards; the lazily parsed header
// accessors cache their results, which is safe because a context never
// leaves its request's goroutine.
type requestContext struct {
	path    string
	id      rdf.IRI
	method  string
	header  http.Header
	query   url.Values
	accept  []headers.MediaRange
	session trellis.Session

	preferParsed bool
	prefer       *headers.Prefer

	datetimeParsed bool
	datetime       *headers.AcceptDatetime
}

func (h *resourceHandler) newContext(req *http.Request) *requestContext {
	path := strings.Trim(req.URL.Path, "/")
	ctx := &requestContext{
		path:   path,
		id:     h.identifierFor(path),
		method: req.Method,
		header: req.Header,
		query:  req.URL.Query(),
		accept: headers.ParseAccept(req.Header.Get("Accept")),
	}
	if h.cfg.Principal != nil {
		ctx.session = h.cfg.Principal(req)
	}
	return ctx
}

// identifierFor maps a trimmed URL path to the resource IRI.  The root
// container is BaseURL + "/".
func (h *resourceHandler) identifierFor(path string) rdf.IRI {
	if path == "" {
		return rdf.IRI{Value: h.cfg.BaseURL + "/"}
	}
	return rdf.IRI{Value: h.cfg.BaseURL + "/" + path}
}

// parentPath returns the container path of a resource path.
func parentPath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i], true
	}
	return "", true
}

// Ext returns the ?ext= query parameter.
func (ctx *requestContext) Ext() string {
	return ctx.query.Get("ext")
}

// IsACL reports whether the request targets the access-control graph.
func (ctx *requestContext) IsACL() bool {
	return ctx.Ext() == "acl"
}

// Version returns the ?version= instant.  The third return is false
// when the parameter is present but not an integer epoch-millisecond
// value.
func (ctx *requestContext) Version() (instant time.Time, present, valid bool) {
	raw := ctx.query.Get("version")
	if raw == "" {
		return time.Time{}, false, true
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, true, false
	}
	return time.UnixMilli(millis).UTC(), true, true
}

// Prefer returns the parsed Prefer header, caching the result.
func (ctx *requestContext) Prefer() *headers.Prefer {
	if !ctx.preferParsed {
		ctx.prefer = headers.ParsePrefer(ctx.header.Get("Prefer"))
		ctx.preferParsed = true
	}
	return ctx.prefer
}

// Datetime returns the parsed Accept-Datetime header, caching the
// result.
func (ctx *requestContext) Datetime() *headers.AcceptDatetime {
	if !ctx.datetimeParsed {
		ctx.datetime = headers.ParseAcceptDatetime(ctx.header.Get("Accept-Datetime"))
		ctx.datetimeParsed = true
	}
	return ctx.datetime
}

// triplePattern is the LDF-style filter built from the subject,
// predicate and object query parameters.  A nil field matches
// anything.
type triplePattern struct {
	subject   *rdf.IRI
	predicate *rdf.IRI
	object    rdf.Term
}

// Pattern returns the request's triple-pattern filter.
func (ctx *requestContext) Pattern() triplePattern {
	var p triplePattern
	if v := ctx.query.Get("subject"); v != "" {
		iri := rdf.IRI{Value: v}
		p.subject = &iri
	}
	if v := ctx.query.Get("predicate"); v != "" {
		iri := rdf.IRI{Value: v}
		p.predicate = &iri
	}
	if v := ctx.query.Get("object"); v != "" {
		p.object = objectTerm(v)
	}
	return p
}

// objectTerm reads an object parameter as an IRI when it looks like
// one, a plain literal otherwise.
func objectTerm(v string) rdf.Term {
	if strings.Contains(v, "://") || strings.HasPrefix(v, "urn:") {
		return rdf.IRI{Value: v}
	}
	return rdf.Literal{Lexical: v}
}

func (p triplePattern) empty() bool {
	return p.subject == nil && p.predicate == nil && p.object == nil
}

// filter keeps the triples matching the pattern.
func (p triplePattern) filter(triples []rdf.Triple) []rdf.Triple {
	if p.empty() {
		return triples
	}
	var out []rdf.Triple
	for _, t := range triples {
		if p.subject != nil && t.S != rdf.Term(*p.subject) {
			continue
		}
		if p.predicate != nil && t.P != *p.predicate {
			continue
		}
		if p.object != nil && !objectMatches(p.object, t.O) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// objectMatches compares literals by lexical form so a filter value
// matches regardless of the stored datatype.
func objectMatches(want, got rdf.Term) bool {
	if w, ok := want.(rdf.Literal); ok {
		g, ok := got.(rdf.Literal)
		return ok && g.Lexical == w.Lexical
	}
	return want == got
}

// TypeLink returns the interaction model requested through a
// Link: rel=type header, if one names an LDP type.
func (ctx *requestContext) TypeLink() (trellis.InteractionModel, bool) {
	for _, link := range headers.ParseLinks(ctx.header.Values("Link")...) {
		if link.Rel() != "type" {
			continue
		}
		if model, ok := trellis.ModelFromIRI(rdf.IRI{Value: link.URI}); ok {
			return model, true
		}
	}
	return trellis.ModelResource, false
}
