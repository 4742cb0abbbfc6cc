// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package trellis

import (
	"time"

	"github.com/geoknoesis/rdf-go/rdf"
)

// InteractionModel is the LDP resource type governing which operations a
// resource supports.  The LDP type hierarchy is closed, so rather than
// modeling it with embedded interfaces it is a flat enumeration with an
// explicit supertype table; IsA walks up that table.
type InteractionModel int

// The interaction models, most general first.
const (
	ModelResource InteractionModel = iota
	ModelRDFSource
	ModelNonRDFSource
	ModelContainer
	ModelBasicContainer
	ModelDirectContainer
	ModelIndirectContainer
)

var superType = map[InteractionModel]InteractionModel{
	ModelRDFSource:         ModelResource,
	ModelNonRDFSource:      ModelResource,
	ModelContainer:         ModelRDFSource,
	ModelBasicContainer:    ModelContainer,
	ModelDirectContainer:   ModelContainer,
	ModelIndirectContainer: ModelContainer,
}

var modelIRIs = map[InteractionModel]rdf.IRI{
	ModelResource:          LDPResource,
	ModelRDFSource:         LDPRDFSource,
	ModelNonRDFSource:      LDPNonRDFSource,
	ModelContainer:         LDPContainer,
	ModelBasicContainer:    LDPBasicContainer,
	ModelDirectContainer:   LDPDirectContainer,
	ModelIndirectContainer: LDPIndirectContainer,
}

// IsA reports whether m is other or a subtype of other.
func (m InteractionModel) IsA(other InteractionModel) bool {
	for {
		if m == other {
			return true
		}
		parent, ok := superType[m]
		if !ok {
			return false
		}
		m = parent
	}
}

// IRI returns the LDP type IRI for this model.
func (m InteractionModel) IRI() rdf.IRI {
	return modelIRIs[m]
}

func (m InteractionModel) String() string {
	return modelIRIs[m].Value
}

// ModelFromIRI maps an LDP type IRI back to an interaction model.
func ModelFromIRI(iri rdf.IRI) (InteractionModel, bool) {
	for m, v := range modelIRIs {
		if v == iri {
			return m, true
		}
	}
	return ModelResource, false
}

// BinaryMetadata describes the non-RDF content attached to an
// ldp:NonRDFSource.
type BinaryMetadata struct {
	// Identifier locates the content in the binary store.  This is
	// an internal identifier, not the resource's HTTP identifier.
	Identifier rdf.IRI

	// MimeType is the content type the binary was uploaded with.
	MimeType string

	// Size is the content length in bytes, or -1 if unknown.
	Size int64
}

// Metadata carries the server-managed state handed to the resource
// service on every mutation.
type Metadata struct {
	// Identifier is the resource's IRI.
	Identifier rdf.IRI

	// InteractionModel is the LDP type being written.
	InteractionModel InteractionModel

	// Container is the parent container IRI, if any.
	Container *rdf.IRI

	// Binary is set when the interaction model is ldp:NonRDFSource.
	Binary *BinaryMetadata

	// Revision is the new opaque revision token for the resource.
	Revision string
}

// VersionRange is a period during which a resource's representation did
// not change.  From is the instant the version was created; Until is the
// instant it was superseded, or the zero time for the live version.
type VersionRange struct {
	From  time.Time
	Until time.Time
}

// Session identifies the agent performing a request.  A zero Session is
// an anonymous request.
type Session struct {
	// Agent is the authenticated principal's IRI or name, or empty.
	Agent string

	// Delegate is the agent acting on behalf of Agent, if any.
	Delegate string
}

// IsAnonymous reports whether no principal authenticated.
func (s Session) IsAnonymous() bool {
	return s.Agent == ""
}

// AccessMode is a WebAC access mode.
type AccessMode int

// The WebAC access modes.
const (
	AccessRead AccessMode = iota
	AccessWrite
	AccessAppend
	AccessControl
)

// IRI returns the acl: vocabulary IRI for the mode.
func (m AccessMode) IRI() rdf.IRI {
	switch m {
	case AccessWrite:
		return ACLWrite
	case AccessAppend:
		return ACLAppend
	case AccessControl:
		return ACLControl
	default:
		return ACLRead
	}
}

// ModeSet is the set of access modes granted to a session.
type ModeSet map[AccessMode]bool

// Has reports whether the set grants mode.
func (s ModeSet) Has(mode AccessMode) bool {
	return s[mode]
}

// AllModes returns a set granting everything.
func AllModes() ModeSet {
	return ModeSet{AccessRead: true, AccessWrite: true, AccessAppend: true, AccessControl: true}
}
