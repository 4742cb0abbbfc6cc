// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package audit generates PROV-O audit quads for resource mutations.
// The quads land in the trellis:PreferAudit graph of the mutated
// resource and ride along in the same atomic dataset write.
package audit

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/geoknoesis/rdf-go/rdf"
	uuid "github.com/satori/go.uuid"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// Service implements trellis.AuditService.
type Service struct {
	clock clock.Clock
}

// New creates an audit service using the real time source.
func New() *Service {
	return NewWithClock(clock.New())
}

// NewWithClock creates an audit service with an explicit time source,
// for tests that need deterministic prov:atTime literals.
func NewWithClock(clk clock.Clock) *Service {
	return &Service{clock: clk}
}

// Creation describes a resource creation.
func (s *Service) Creation(id rdf.IRI, session trellis.Session) []rdf.Quad {
	return s.activity(id, session, trellis.AuditCreation)
}

// Update describes a resource update.
func (s *Service) Update(id rdf.IRI, session trellis.Session) []rdf.Quad {
	return s.activity(id, session, trellis.AuditUpdate)
}

// Deletion describes a resource deletion.
func (s *Service) Deletion(id rdf.IRI, session trellis.Session) []rdf.Quad {
	return s.activity(id, session, trellis.AuditDeletion)
}

func (s *Service) activity(id rdf.IRI, session trellis.Session, kind rdf.IRI) []rdf.Quad {
	event := rdf.IRI{Value: "urn:uuid:" + uuid.NewV4().String()}
	atTime := rdf.Literal{
		Lexical:  s.clock.Now().UTC().Format(time.RFC3339),
		Datatype: trellis.XSDDateTime,
	}
	quads := []rdf.Quad{
		{S: id, P: trellis.ProvWasGeneratedBy, O: event, G: trellis.PreferAudit},
		{S: event, P: trellis.RDFType, O: trellis.ProvActivity, G: trellis.PreferAudit},
		{S: event, P: trellis.RDFType, O: kind, G: trellis.PreferAudit},
		{S: event, P: trellis.ProvAtTime, O: atTime, G: trellis.PreferAudit},
	}
	if !session.IsAnonymous() {
		agent := rdf.IRI{Value: session.Agent}
		quads = append(quads, rdf.Quad{S: event, P: trellis.ProvWasAssociatedWith, O: agent, G: trellis.PreferAudit})
	}
	return quads
}
