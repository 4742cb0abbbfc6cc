// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package trellis

import "github.com/geoknoesis/rdf-go/rdf"

// Namespace prefixes for the vocabularies the server emits.
const (
	NSLDP     = "http://www.w3.org/ns/ldp#"
	NSMemento = "http://mementoweb.org/ns#"
	NSTime    = "http://www.w3.org/2006/time#"
	NSProv    = "http://www.w3.org/ns/prov#"
	NSACL     = "http://www.w3.org/ns/auth/acl#"
	NSFOAF    = "http://xmlns.com/foaf/0.1/"
	NSRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSXSD     = "http://www.w3.org/2001/XMLSchema#"
	NSDC      = "http://purl.org/dc/terms/"
	NSTrellis = "http://www.trellisldp.org/ns/trellis#"
)

// LDP vocabulary.
var (
	LDPResource          = rdf.IRI{Value: NSLDP + "Resource"}
	LDPRDFSource         = rdf.IRI{Value: NSLDP + "RDFSource"}
	LDPNonRDFSource      = rdf.IRI{Value: NSLDP + "NonRDFSource"}
	LDPContainer         = rdf.IRI{Value: NSLDP + "Container"}
	LDPBasicContainer    = rdf.IRI{Value: NSLDP + "BasicContainer"}
	LDPDirectContainer   = rdf.IRI{Value: NSLDP + "DirectContainer"}
	LDPIndirectContainer = rdf.IRI{Value: NSLDP + "IndirectContainer"}
	LDPContains          = rdf.IRI{Value: NSLDP + "contains"}
	LDPMember            = rdf.IRI{Value: NSLDP + "member"}
	LDPConstrainedBy     = rdf.IRI{Value: NSLDP + "constrainedBy"}

	LDPMembershipResource      = rdf.IRI{Value: NSLDP + "membershipResource"}
	LDPHasMemberRelation       = rdf.IRI{Value: NSLDP + "hasMemberRelation"}
	LDPIsMemberOfRelation      = rdf.IRI{Value: NSLDP + "isMemberOfRelation"}
	LDPInsertedContentRelation = rdf.IRI{Value: NSLDP + "insertedContentRelation"}
)

// Named graphs a resource's quads are partitioned into.  User-managed,
// server-managed, audit and access-control quads use Trellis graph names;
// containment and membership use the LDP ones.
var (
	PreferUserManaged   = rdf.IRI{Value: NSTrellis + "PreferUserManaged"}
	PreferServerManaged = rdf.IRI{Value: NSTrellis + "PreferServerManaged"}
	PreferAudit         = rdf.IRI{Value: NSTrellis + "PreferAudit"}
	PreferAccessControl = rdf.IRI{Value: NSTrellis + "PreferAccessControl"}
	PreferContainment   = rdf.IRI{Value: NSLDP + "PreferContainment"}
	PreferMembership    = rdf.IRI{Value: NSLDP + "PreferMembership"}

	// PreferMinimalContainer is not a graph of its own; it is the
	// Prefer token selecting a container representation without its
	// containment or membership triples.
	PreferMinimalContainer = rdf.IRI{Value: NSLDP + "PreferMinimalContainer"}
)

// Memento vocabulary (RFC 7089 TimeMap graphs).
var (
	MementoOriginalResource = rdf.IRI{Value: NSMemento + "OriginalResource"}
	MementoTimeGate         = rdf.IRI{Value: NSMemento + "TimeGate"}
	MementoTimeMap          = rdf.IRI{Value: NSMemento + "TimeMap"}
	MementoMemento          = rdf.IRI{Value: NSMemento + "Memento"}
	MementoHasMemento       = rdf.IRI{Value: NSMemento + "memento"}
	MementoForOriginal      = rdf.IRI{Value: NSMemento + "original"}
	MementoTimegateRel      = rdf.IRI{Value: NSMemento + "timegate"}
	MementoTimemapRel       = rdf.IRI{Value: NSMemento + "timemap"}
	TimeHasBeginning        = rdf.IRI{Value: NSTime + "hasBeginning"}
	TimeHasEnd              = rdf.IRI{Value: NSTime + "hasEnd"}
	TimeHasTime             = rdf.IRI{Value: NSTime + "hasTime"}
	TimeInXSDDateTime       = rdf.IRI{Value: NSTime + "inXSDDateTimeStamp"}
)

// WebAC vocabulary.
var (
	ACLAuthorization = rdf.IRI{Value: NSACL + "Authorization"}
	ACLAccessTo      = rdf.IRI{Value: NSACL + "accessTo"}
	ACLAgent         = rdf.IRI{Value: NSACL + "agent"}
	ACLAgentClass    = rdf.IRI{Value: NSACL + "agentClass"}
	ACLDefault       = rdf.IRI{Value: NSACL + "default"}
	ACLMode          = rdf.IRI{Value: NSACL + "mode"}
	ACLRead          = rdf.IRI{Value: NSACL + "Read"}
	ACLWrite         = rdf.IRI{Value: NSACL + "Write"}
	ACLAppend        = rdf.IRI{Value: NSACL + "Append"}
	ACLControl       = rdf.IRI{Value: NSACL + "Control"}
	FOAFAgent        = rdf.IRI{Value: NSFOAF + "Agent"}
)

// PROV and audit vocabulary.
var (
	ProvActivity          = rdf.IRI{Value: NSProv + "Activity"}
	ProvWasGeneratedBy    = rdf.IRI{Value: NSProv + "wasGeneratedBy"}
	ProvWasAssociatedWith = rdf.IRI{Value: NSProv + "wasAssociatedWith"}
	ProvAtTime            = rdf.IRI{Value: NSProv + "atTime"}
	AuditCreation         = rdf.IRI{Value: NSTrellis + "Creation"}
	AuditUpdate           = rdf.IRI{Value: NSTrellis + "Update"}
	AuditDeletion         = rdf.IRI{Value: NSTrellis + "Deletion"}
)

// Constraint IRIs surfaced in Link: rel=constrainedBy headers.
var (
	UnsupportedInteractionModel = rdf.IRI{Value: NSTrellis + "UnsupportedInteractionModel"}
	InvalidInteractionModel     = rdf.IRI{Value: NSTrellis + "InvalidInteractionModel"}
	InvalidCardinality          = rdf.IRI{Value: NSTrellis + "InvalidCardinality"}
	InvalidRange                = rdf.IRI{Value: NSTrellis + "InvalidRange"}
	PreconditionRequired        = rdf.IRI{Value: NSTrellis + "PreconditionRequired"}
)

// Common terms.
var (
	RDFType     = rdf.IRI{Value: NSRDF + "type"}
	XSDDateTime = rdf.IRI{Value: NSXSD + "dateTime"}
	DCModified  = rdf.IRI{Value: NSDC + "modified"}
	DCIsPartOf  = rdf.IRI{Value: NSDC + "isPartOf"}
	DCFormat    = rdf.IRI{Value: NSDC + "format"}
	DCExtent    = rdf.IRI{Value: NSDC + "extent"}
)
