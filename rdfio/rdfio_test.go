// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package rdfio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

const base = "http://res.test/r1"

var turtle = trellis.RDFSyntax{MediaType: ldpdata.TextTurtle, Format: rdf.FormatTurtle}
var ntriples = trellis.RDFSyntax{MediaType: ldpdata.ApplicationNTriples, Format: rdf.FormatNTriples}

func TestReadResolvesRelativeIRIs(t *testing.T) {
	svc := New()
	doc := `@prefix dc: <http://purl.org/dc/terms/> .
<> dc:title "Self" .
<#section> dc:title "Fragment" .
<child> dc:title "Child" .`

	triples, err := svc.Read(strings.NewReader(doc), base, turtle)
	require.NoError(t, err)
	require.Len(t, triples, 3)

	subjects := map[string]bool{}
	for _, tr := range triples {
		iri, ok := tr.S.(rdf.IRI)
		require.True(t, ok)
		subjects[iri.Value] = true
	}
	assert.True(t, subjects[base])
	assert.True(t, subjects[base+"#section"])
	assert.True(t, subjects["http://res.test/r1/child"])
}

func TestReadKeepsAbsoluteIRIs(t *testing.T) {
	svc := New()
	doc := `<http://elsewhere.test/x> <http://purl.org/dc/terms/creator> <urn:uuid:1234> .`

	triples, err := svc.Read(strings.NewReader(doc), base, turtle)
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, rdf.IRI{Value: "http://elsewhere.test/x"}, triples[0].S)
	assert.Equal(t, rdf.IRI{Value: "urn:uuid:1234"}, triples[0].O)
}

func TestReadRejectsGarbage(t *testing.T) {
	svc := New()
	_, err := svc.Read(strings.NewReader("this is { not turtle"), base, turtle)
	assert.Error(t, err)
}

func TestWriteReadRoundTrip(t *testing.T) {
	svc := New()
	in := []rdf.Triple{
		{S: rdf.IRI{Value: base}, P: rdf.IRI{Value: "http://purl.org/dc/terms/title"},
			O: rdf.Literal{Lexical: "A title"}},
		{S: rdf.IRI{Value: base}, P: rdf.IRI{Value: "http://purl.org/dc/terms/isPartOf"},
			O: rdf.IRI{Value: "http://res.test/"}},
	}

	for _, syntax := range svc.WriteSyntaxes() {
		var buf bytes.Buffer
		require.NoError(t, svc.Write(&buf, in, syntax, ""), syntax.MediaType)

		out, err := svc.Read(&buf, base, syntax)
		require.NoError(t, err, syntax.MediaType)
		assert.Len(t, out, len(in), syntax.MediaType)
	}
}

func TestSyntaxLists(t *testing.T) {
	svc := New()

	write := svc.WriteSyntaxes()
	require.NotEmpty(t, write)
	assert.Equal(t, ldpdata.TextTurtle, write[0].MediaType)

	read := map[string]bool{}
	for _, syntax := range svc.ReadSyntaxes() {
		read[syntax.MediaType] = true
	}
	// Everything writable is also readable, plus the quad formats.
	for _, syntax := range write {
		assert.True(t, read[syntax.MediaType], syntax.MediaType)
	}
	assert.True(t, read[ldpdata.ApplicationNQuads])
	assert.True(t, read[ldpdata.ApplicationTriG])
}

func TestWriteNTriplesShape(t *testing.T) {
	svc := New()
	var buf bytes.Buffer
	err := svc.Write(&buf, []rdf.Triple{
		{S: rdf.IRI{Value: base}, P: rdf.IRI{Value: "http://purl.org/dc/terms/title"},
			O: rdf.Literal{Lexical: "x"}},
	}, ntriples, "")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<"+base+">")
	assert.Contains(t, buf.String(), `"x"`)
}
