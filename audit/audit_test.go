// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package audit

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/stretchr/testify/assert"

	"github.com/trellis-ldp/go-trellis/trellis"
)

func find(quads []rdf.Quad, p rdf.IRI) []rdf.Quad {
	var out []rdf.Quad
	for _, q := range quads {
		if q.P == p {
			out = append(out, q)
		}
	}
	return out
}

func TestCreationActivity(t *testing.T) {
	clk := clock.NewMock()
	clk.Add(time.Duration(1556000000) * time.Second)
	svc := NewWithClock(clk)
	id := rdf.IRI{Value: "http://audit.test/resource"}

	quads := svc.Creation(id, trellis.Session{Agent: "https://alice.example/i"})
	assert.Len(t, quads, 5)
	for _, q := range quads {
		assert.Equal(t, trellis.PreferAudit, q.G)
	}

	generated := find(quads, trellis.ProvWasGeneratedBy)
	if assert.Len(t, generated, 1) {
		assert.Equal(t, id, generated[0].S)
		event, ok := generated[0].O.(rdf.IRI)
		if assert.True(t, ok) {
			assert.Contains(t, event.Value, "urn:uuid:")
		}
	}

	types := find(quads, trellis.RDFType)
	assert.Len(t, types, 2)
	kinds := []rdf.Term{}
	for _, q := range types {
		kinds = append(kinds, q.O)
	}
	assert.Contains(t, kinds, rdf.Term(trellis.ProvActivity))
	assert.Contains(t, kinds, rdf.Term(trellis.AuditCreation))

	atTime := find(quads, trellis.ProvAtTime)
	if assert.Len(t, atTime, 1) {
		lit, ok := atTime[0].O.(rdf.Literal)
		if assert.True(t, ok) {
			assert.Equal(t, "2019-04-23T06:13:20Z", lit.Lexical)
			assert.Equal(t, trellis.XSDDateTime, lit.Datatype)
		}
	}

	agents := find(quads, trellis.ProvWasAssociatedWith)
	if assert.Len(t, agents, 1) {
		assert.Equal(t, rdf.Term(rdf.IRI{Value: "https://alice.example/i"}), agents[0].O)
	}
}

func TestAnonymousActivityHasNoAgent(t *testing.T) {
	svc := New()
	id := rdf.IRI{Value: "http://audit.test/resource"}

	quads := svc.Deletion(id, trellis.Session{})
	assert.Len(t, quads, 4)
	assert.Empty(t, find(quads, trellis.ProvWasAssociatedWith))

	types := find(quads, trellis.RDFType)
	kinds := []rdf.Term{}
	for _, q := range types {
		kinds = append(kinds, q.O)
	}
	assert.Contains(t, kinds, rdf.Term(trellis.AuditDeletion))
}

func TestActivitiesAreUnique(t *testing.T) {
	svc := New()
	id := rdf.IRI{Value: "http://audit.test/resource"}

	first := find(svc.Update(id, trellis.Session{}), trellis.ProvWasGeneratedBy)
	second := find(svc.Update(id, trellis.Session{}), trellis.ProvWasGeneratedBy)
	assert.NotEqual(t, first[0].O, second[0].O)
}
