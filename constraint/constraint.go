// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package constraint implements the LDP shape checks applied to every
// graph before it is written: server-managed predicates may not be set
// by clients, membership predicates take IRI objects, and a direct or
// indirect container carries each membership predicate at most once.
package constraint

import (
	"fmt"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// serverManaged lists the predicates only the server may write.
var serverManaged = []rdf.IRI{
	trellis.LDPContains,
	trellis.DCModified,
}

// membership lists the predicates that configure a direct or indirect
// container.  Each takes a single IRI object.
var membership = []rdf.IRI{
	trellis.LDPMembershipResource,
	trellis.LDPHasMemberRelation,
	trellis.LDPIsMemberOfRelation,
	trellis.LDPInsertedContentRelation,
}

// Service implements trellis.ConstraintService.
type Service struct{}

// New creates the LDP constraint service.
func New() *Service {
	return &Service{}
}

// Check inspects one graph against the LDP shape rules.
func (s *Service) Check(model trellis.InteractionModel, graph []rdf.Triple) []trellis.ConstraintViolation {
	var violations []trellis.ConstraintViolation

	counts := make(map[rdf.IRI]int)
	for _, t := range graph {
		for _, p := range serverManaged {
			if t.P == p {
				violations = append(violations, trellis.ConstraintViolation{
					Constraint: trellis.InvalidRange,
					Message:    fmt.Sprintf("%v is a server-managed predicate", p.Value),
				})
			}
		}
		for _, p := range membership {
			if t.P != p {
				continue
			}
			counts[p]++
			if _, ok := t.O.(rdf.IRI); !ok {
				violations = append(violations, trellis.ConstraintViolation{
					Constraint: trellis.InvalidRange,
					Message:    fmt.Sprintf("%v requires an IRI object", p.Value),
				})
			}
		}
	}

	for _, p := range membership {
		if counts[p] > 1 {
			violations = append(violations, trellis.ConstraintViolation{
				Constraint: trellis.InvalidCardinality,
				Message:    fmt.Sprintf("%v appears %d times", p.Value, counts[p]),
			})
		}
	}

	// Membership configuration only makes sense on the container
	// types that use it.
	if len(counts) > 0 &&
		!model.IsA(trellis.ModelDirectContainer) && !model.IsA(trellis.ModelIndirectContainer) {
		violations = append(violations, trellis.ConstraintViolation{
			Constraint: trellis.InvalidInteractionModel,
			Message:    "membership predicates require a direct or indirect container",
		})
	}

	return violations
}
