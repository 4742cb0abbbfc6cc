// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"strings"

	"github.com/trellis-ldp/go-trellis/headers"
	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// representation is the outcome of content negotiation: an RDF syntax
// to serialize into, or nil for binary passthrough.
type representation struct {
	syntax  *trellis.RDFSyntax
	profile string
}

// negotiateResponse picks the response representation.  A resource with
// binary content serves those bytes unless the client explicitly asks
// for an RDF syntax (which yields the description instead).
func (h *resourceHandler) negotiateResponse(ctx *requestContext, hasBinary bool) (representation, error) {
	offered := h.svcs.IO.WriteSyntaxes()

	if len(ctx.accept) == 0 {
		if hasBinary {
			return representation{}, nil
		}
		syntax := offered[0]
		return representation{syntax: &syntax}, nil
	}

	for _, mr := range ctx.accept {
		if hasBinary && (mr.MediaType() == "*/*" || !isRDFRange(mr, offered)) {
			return representation{}, nil
		}
		for _, syntax := range offered {
			if mr.Matches(syntax.MediaType) {
				s := syntax
				return representation{syntax: &s, profile: jsonldProfile(mr, s)}, nil
			}
		}
	}
	return representation{}, ldpdata.ErrNotAcceptable{}
}

// negotiateRequest resolves a request body's Content-Type to a read
// syntax.  A missing content type defaults to Turtle for RDF sources
// and binary for everything else.
func (h *resourceHandler) negotiateRequest(contentType string) (*trellis.RDFSyntax, error) {
	if contentType == "" {
		return nil, nil
	}
	mediaType := contentType
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	for _, syntax := range h.svcs.IO.ReadSyntaxes() {
		if mediaType == syntax.MediaType {
			s := syntax
			return &s, nil
		}
	}
	return nil, nil
}

// isRDFRange reports whether the media range targets one of the
// offered RDF syntaxes specifically.
func isRDFRange(mr headers.MediaRange, offered []trellis.RDFSyntax) bool {
	for _, syntax := range offered {
		if mr.Matches(syntax.MediaType) {
			return true
		}
	}
	return false
}

// jsonldProfile extracts the requested JSON-LD profile, defaulting to
// compacted output.
func jsonldProfile(mr headers.MediaRange, syntax trellis.RDFSyntax) string {
	if syntax.MediaType != ldpdata.ApplicationLDJSON {
		return ""
	}
	for _, p := range strings.Fields(mr.Params["profile"]) {
		switch p {
		case ldpdata.JSONLDCompacted, ldpdata.JSONLDExpanded, ldpdata.JSONLDFlattened:
			return p
		}
	}
	return ldpdata.JSONLDCompacted
}
