// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package rdfio implements trellis.IOService on top of
// github.com/geoknoesis/rdf-go.  It reads and writes every syntax the
// underlying library supports; the protocol layer narrows that list
// through content negotiation.
package rdfio

import (
	"fmt"
	"io"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// The syntaxes offered for response bodies, most preferred first.
// Turtle leads because it is the LDP default.
var writeSyntaxes = []trellis.RDFSyntax{
	{MediaType: ldpdata.TextTurtle, Format: rdf.FormatTurtle},
	{MediaType: ldpdata.ApplicationLDJSON, Format: rdf.FormatJSONLD},
	{MediaType: ldpdata.ApplicationNTriples, Format: rdf.FormatNTriples},
	{MediaType: ldpdata.ApplicationRDFXML, Format: rdf.FormatRDFXML},
}

// Request bodies additionally accept quad formats; quads outside the
// default graph are dropped on read.
var readSyntaxes = append([]trellis.RDFSyntax{
	{MediaType: ldpdata.ApplicationNQuads, Format: rdf.FormatNQuads},
	{MediaType: ldpdata.ApplicationTriG, Format: rdf.FormatTriG},
}, writeSyntaxes...)

// Service implements trellis.IOService.
type Service struct{}

// New creates the I/O service.
func New() *Service {
	return &Service{}
}

// Read parses triples from r.  Relative IRIs resolve against base.
func (s *Service) Read(r io.Reader, base string, syntax trellis.RDFSyntax) ([]rdf.Triple, error) {
	reader, err := rdf.NewReader(r, syntax.Format)
	if err != nil {
		return nil, fmt.Errorf("opening %v reader: %w", syntax.MediaType, err)
	}
	defer reader.Close()

	var triples []rdf.Triple
	for {
		stmt, err := reader.Next()
		if err == io.EOF {
			return triples, nil
		}
		if err != nil {
			return nil, err
		}
		triple := rdf.Triple{S: stmt.S, P: stmt.P, O: stmt.O}
		triple.S = resolveTerm(triple.S, base)
		triple.P = resolveIRI(triple.P, base)
		triple.O = resolveTerm(triple.O, base)
		triples = append(triples, triple)
	}
}

// Write serializes triples to w.  The profile parameter is honored for
// JSON-LD and ignored elsewhere.
func (s *Service) Write(w io.Writer, triples []rdf.Triple, syntax trellis.RDFSyntax, profile string) error {
	writer, err := rdf.NewWriter(w, syntax.Format)
	if err != nil {
		return fmt.Errorf("opening %v writer: %w", syntax.MediaType, err)
	}
	for _, t := range triples {
		if err := writer.Write(rdf.Statement{S: t.S, P: t.P, O: t.O}); err != nil {
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return writer.Close()
}

// ReadSyntaxes lists syntaxes accepted in request bodies.
func (s *Service) ReadSyntaxes() []trellis.RDFSyntax {
	return readSyntaxes
}

// WriteSyntaxes lists syntaxes offered in responses.
func (s *Service) WriteSyntaxes() []trellis.RDFSyntax {
	return writeSyntaxes
}

// resolveTerm resolves a relative IRI term against the resource base.
// Parsers emit relative IRIs for <> and friends in Turtle bodies.
func resolveTerm(t rdf.Term, base string) rdf.Term {
	if iri, ok := t.(rdf.IRI); ok {
		return resolveIRI(iri, base)
	}
	return t
}

func resolveIRI(iri rdf.IRI, base string) rdf.IRI {
	if iri.Value == "" {
		return rdf.IRI{Value: base}
	}
	if strings.Contains(iri.Value, "://") || strings.HasPrefix(iri.Value, "urn:") || strings.HasPrefix(iri.Value, "mailto:") {
		return iri
	}
	if strings.HasPrefix(iri.Value, "#") || strings.HasPrefix(iri.Value, "?") {
		return rdf.IRI{Value: base + iri.Value}
	}
	return rdf.IRI{Value: strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(iri.Value, "/")}
}
