// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package trellistest provides generic functional tests for the
// Trellis storage interfaces.  A typical backend test module needs to
// wrap Suite to create its backend:
//
//	package mybackend
//
//	import (
//	        "testing"
//
//	        "github.com/stretchr/testify/suite"
//	        "github.com/trellis-ldp/go-trellis/trellis/trellistest"
//	)
//
//	// Suite is the per-backend generic test suite.
//	type Suite struct {
//	        trellistest.Suite
//	}
//
//	// SetupTest creates a fresh backend for each test.
//	func (s *Suite) SetupTest() {
//	        s.Suite.SetupTest()
//	        s.Resources = NewWithClock(s.Clock)
//	        s.Binaries = NewBinaryStore()
//	}
//
//	// TestStorage runs the storage generic tests.
//	func TestStorage(t *testing.T) {
//	        suite.Run(t, &Suite{})
//	}
package trellistest

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/stretchr/testify/suite"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// Suite is the generic Trellis storage backend test suite.
type Suite struct {
	suite.Suite

	// Clock contains the alternate time source to be used in tests.
	// It is pre-initialized to a mock clock.
	Clock *clock.Mock

	// Resources contains the resource service under test.  It is set
	// by importing packages.
	Resources trellis.ResourceService

	// Binaries contains the binary service under test.  It is set by
	// importing packages.
	Binaries trellis.BinaryService

	sequence int
}

// SetupTest resets the mock clock.  Importing packages overwrite the
// services here, giving every test an isolated resource tree.
func (s *Suite) SetupTest() {
	s.Clock = clock.NewMock()
	s.sequence = 0
}

// iri mints a unique resource identifier for the running test.
func (s *Suite) iri(path string) rdf.IRI {
	return rdf.IRI{Value: "http://storage.test/" + path}
}

// revision mints a unique revision token.
func (s *Suite) revision() string {
	s.sequence++
	return fmt.Sprintf("rev-%d", s.sequence)
}

// create stores a simple RDF source with one user-managed triple.
func (s *Suite) create(id rdf.IRI, container *rdf.IRI) trellis.Metadata {
	meta := trellis.Metadata{
		Identifier:       id,
		InteractionModel: trellis.ModelRDFSource,
		Container:        container,
		Revision:         s.revision(),
	}
	d := trellis.NewDataset()
	defer d.Close()
	s.NoError(d.AddTriples(trellis.PreferUserManaged, []rdf.Triple{{
		S: id,
		P: rdf.IRI{Value: "http://purl.org/dc/terms/title"},
		O: rdf.Literal{Lexical: "test resource"},
	}}))
	s.NoError(s.Resources.Create(meta, d))
	return meta
}
