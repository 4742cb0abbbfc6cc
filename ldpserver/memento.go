// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

// Memento (RFC 7089) support: version URLs, navigation links, and the
// TimeMap representation in both link-format and RDF.

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

// versionURL addresses one memento by its creation instant, in epoch
// milliseconds.
func versionURL(id rdf.IRI, instant time.Time) string {
	return fmt.Sprintf("%s?version=%d", id.Value, instant.UnixMilli())
}

func timemapURL(id rdf.IRI) string {
	return id.Value + "?ext=timemap"
}

// mementoLinks builds the Link header entries advertising a resource's
// version history.
func (h *resourceHandler) mementoLinks(id rdf.IRI, ranges []trellis.VersionRange) []string {
	links := []string{
		headers.FormatLink(id.Value, "rel", "original timegate"),
	}
	if len(ranges) > 0 {
		links = append(links, headers.FormatLink(timemapURL(id),
			"rel", "timemap",
			"type", ldpdata.ApplicationLinkFormat,
			"from", httpDate(ranges[0].From),
			"until", httpDate(lastInstant(ranges))))
	}
	for _, r := range ranges {
		links = append(links, headers.FormatLink(versionURL(id, r.From),
			"rel", "memento",
			"datetime", httpDate(r.From)))
	}
	return links
}

// lastInstant is the upper bound of a version history: the final
// range's Until, or its From when the final version is still live.
func lastInstant(ranges []trellis.VersionRange) time.Time {
	last := ranges[len(ranges)-1]
	if last.Until.IsZero() {
		return last.From
	}
	return last.Until
}

// timemapResult renders the TimeMap for a resource, negotiating between
// application/link-format and the RDF syntaxes.
func (h *resourceHandler) timemapResult(ctx *requestContext) (*result, error) {
	ranges, err := h.svcs.Resources.Mementos(ctx.id)
	if err != nil {
		if _, missing := err.(trellis.ErrNoSuchResource); missing {
			return nil, ldpdata.ErrNotFound{Err: err}
		}
		return nil, err
	}

	wantLinkFormat := len(ctx.accept) == 0
	for _, mr := range ctx.accept {
		if mr.Matches(ldpdata.ApplicationLinkFormat) {
			wantLinkFormat = true
			break
		}
		if isRDFRange(mr, h.svcs.IO.WriteSyntaxes()) {
			break
		}
	}

	res := newResult(200)
	res.header.Set("Allow", "GET, HEAD, OPTIONS")
	if wantLinkFormat {
		res.header.Set("Content-Type", ldpdata.ApplicationLinkFormat)
		body := h.timemapLinkFormat(ctx.id, ranges)
		res.body = func(w io.Writer) error {
			_, err := io.WriteString(w, body)
			return err
		}
		return res, nil
	}

	rep, err := h.negotiateResponse(ctx, false)
	if err != nil {
		return nil, err
	}
	res.header.Set("Content-Type", rep.syntax.MediaType)
	triples := h.timemapGraph(ctx.id, ranges)
	res.body = func(w io.Writer) error {
		return h.svcs.IO.Write(w, triples, *rep.syntax, rep.profile)
	}
	return res, nil
}

// timemapLinkFormat renders the RFC 7089 serialization of a TimeMap.
func (h *resourceHandler) timemapLinkFormat(id rdf.IRI, ranges []trellis.VersionRange) string {
	var entries []string
	entries = append(entries, headers.FormatLink(id.Value, "rel", "original timegate"))
	if len(ranges) > 0 {
		entries = append(entries, headers.FormatLink(timemapURL(id),
			"rel", "self",
			"type", ldpdata.ApplicationLinkFormat,
			"from", httpDate(ranges[0].From),
			"until", httpDate(lastInstant(ranges))))
	}
	for _, r := range ranges {
		entries = append(entries, headers.FormatLink(versionURL(id, r.From),
			"rel", "memento",
			"datetime", httpDate(r.From)))
	}
	return strings.Join(entries, ",\n") + "\n"
}

// timemapGraph renders the TimeMap as RDF using the Memento and OWL
// Time vocabularies.
func (h *resourceHandler) timemapGraph(id rdf.IRI, ranges []trellis.VersionRange) []rdf.Triple {
	timemap := rdf.IRI{Value: timemapURL(id)}
	triples := []rdf.Triple{
		{S: timemap, P: trellis.RDFType, O: trellis.MementoTimeMap},
		{S: timemap, P: trellis.MementoForOriginal, O: id},
		{S: id, P: trellis.RDFType, O: trellis.MementoOriginalResource},
		{S: id, P: trellis.RDFType, O: trellis.MementoTimeGate},
		{S: id, P: trellis.MementoTimemapRel, O: timemap},
	}
	if len(ranges) > 0 {
		triples = append(triples,
			rdf.Triple{S: timemap, P: trellis.TimeHasBeginning, O: xsdInstant(ranges[0].From)},
			rdf.Triple{S: timemap, P: trellis.TimeHasEnd, O: xsdInstant(lastInstant(ranges))})
	}
	for _, r := range ranges {
		memento := rdf.IRI{Value: versionURL(id, r.From)}
		triples = append(triples,
			rdf.Triple{S: memento, P: trellis.RDFType, O: trellis.MementoMemento},
			rdf.Triple{S: memento, P: trellis.MementoForOriginal, O: id},
			rdf.Triple{S: memento, P: trellis.TimeHasTime, O: xsdInstant(r.From)},
			rdf.Triple{S: id, P: trellis.MementoHasMemento, O: memento})
	}
	return triples
}

func xsdInstant(t time.Time) rdf.Literal {
	return rdf.Literal{Lexical: t.UTC().Format(time.RFC3339), Datatype: trellis.XSDDateTime}
}

// timegateResult answers an Accept-Datetime request with a redirect to
// the closest memento at or before the requested instant.
func (h *resourceHandler) timegateResult(ctx *requestContext, instant time.Time) (*result, error) {
	ranges, err := h.svcs.Resources.Mementos(ctx.id)
	if err != nil {
		if _, missing := err.(trellis.ErrNoSuchResource); missing {
			return nil, ldpdata.ErrNotFound{Err: err}
		}
		return nil, err
	}
	target := time.Time{}
	for _, r := range ranges {
		if !r.From.After(instant) {
			target = r.From
		}
	}
	if target.IsZero() {
		return nil, ldpdata.ErrNotFound{Err: fmt.Errorf("no version of %v at %v",
			ctx.id.Value, instant.Format(time.RFC3339))}
	}

	res := newResult(302)
	res.header.Set("Location", versionURL(ctx.id, target))
	res.header.Set("Vary", "Accept-Datetime")
	for _, link := range h.mementoLinks(ctx.id, ranges) {
		res.header.Add("Link", link)
	}
	return res, nil
}
