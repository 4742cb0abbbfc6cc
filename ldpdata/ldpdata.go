// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package ldpdata defines data shared across the LDP HTTP surface:
// media type constants, the ErrorStatus error taxonomy mapped to HTTP
// status codes, and the JSON error response body.
package ldpdata

import (
	"io"

	"github.com/ugorji/go/codec"
)

// Media types the server negotiates over.
const (
	TextTurtle            = "text/turtle"
	ApplicationLDJSON     = "application/ld+json"
	ApplicationNTriples   = "application/n-triples"
	ApplicationNQuads     = "application/n-quads"
	ApplicationRDFXML     = "application/rdf+xml"
	ApplicationTriG       = "application/trig"
	ApplicationSparql     = "application/sparql-update"
	ApplicationLinkFormat = "application/link-format"
	ApplicationJSON       = "application/json"
	OctetStream           = "application/octet-stream"
)

// JSON-LD profile IRIs.
const (
	JSONLDCompacted = "http://www.w3.org/ns/json-ld#compacted"
	JSONLDExpanded  = "http://www.w3.org/ns/json-ld#expanded"
	JSONLDFlattened = "http://www.w3.org/ns/json-ld#flattened"
)

// ErrorResponse is the JSON body sent with error statuses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteTo encodes the response as JSON.
func (e ErrorResponse) WriteTo(w io.Writer) error {
	json := &codec.JsonHandle{}
	return codec.NewEncoder(w, json).Encode(e)
}
