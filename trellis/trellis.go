// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package trellis defines an abstract API to a Trellis linked data
// server.
//
// The HTTP protocol layer in package ldpserver drives these interfaces
// and never mutates stored state directly: every mutation is expressed
// as a Dataset of quads plus a Metadata record, handed to a
// ResourceService implementation as one atomic write.  Backends such as
// the memory and postgres packages implement the storage interfaces;
// the rdfio, webac and audit packages implement the others.
//
// In general, objects here have a small amount of immutable data (a
// Resource's Identifier() never changes, for instance) and the
// accessors of these return the value directly.  Accessors to state
// that can fail return the value and an error.
package trellis

import (
	"io"
	"time"

	"github.com/geoknoesis/rdf-go/rdf"
)

// Resource is one addressable LDP resource: an RDF graph set, possibly
// with attached binary content, at a particular revision.  Resource
// values are immutable snapshots; a later fetch may observe a newer
// revision.
type Resource interface {
	// Identifier returns the resource's IRI.
	Identifier() rdf.IRI

	// InteractionModel returns the resource's LDP type.
	InteractionModel() InteractionModel

	// Modified returns the last modification instant.
	Modified() time.Time

	// Revision returns the opaque revision token used to derive
	// cache validators.
	Revision() string

	// Container returns the parent container IRI, if the resource
	// is contained.
	Container() (rdf.IRI, bool)

	// Binary returns the binary descriptor for ldp:NonRDFSource
	// resources.
	Binary() (BinaryMetadata, bool)

	// IsDeleted reports whether the resource is a tombstone.  A
	// deleted resource still has mementos.
	IsDeleted() bool

	// Quads returns the resource's quads restricted to the named
	// graphs, or every quad when no graph is given.
	Quads(graphs ...rdf.IRI) []rdf.Quad
}

// ResourceService is the persistence boundary for resources.  Mutations
// are atomic: either the full dataset becomes the resource's new state
// or an error is returned and nothing changed.  Implementations keep a
// memento of each superseded state.
type ResourceService interface {
	// Get retrieves the current state of a resource.  Returns
	// ErrNoSuchResource if nothing was ever stored there; a
	// tombstone is returned as a Resource whose IsDeleted() is true.
	Get(id rdf.IRI) (Resource, error)

	// GetAt retrieves the newest version whose creation instant is
	// at or before the given instant.  Returns ErrNoSuchVersion if
	// the resource had no version yet at that instant.
	GetAt(id rdf.IRI, instant time.Time) (Resource, error)

	// Create stores a brand-new resource.  Returns ErrChildExists
	// if a live resource already occupies the identifier.
	Create(meta Metadata, d *Dataset) error

	// Replace atomically replaces the state of an existing
	// resource.
	Replace(meta Metadata, d *Dataset) error

	// Delete tombstones a resource.  The dataset carries the audit
	// quads recorded with the deletion.
	Delete(meta Metadata, d *Dataset) error

	// Mementos lists the version ranges of a resource, oldest
	// first.  The live version's Until is the zero time.
	Mementos(id rdf.IRI) ([]VersionRange, error)

	// SupportedInteractionModels reports which LDP types this
	// backend can persist.
	SupportedInteractionModels() []InteractionModel
}

// BinaryService is the persistence boundary for non-RDF content.
type BinaryService interface {
	// Content streams stored content.  from/to restrict to a byte
	// range when to > from; pass 0, -1 for the whole object.
	Content(id rdf.IRI, from, to int64) (io.ReadCloser, error)

	// SetContent stores content, replacing any previous bytes, and
	// returns the stored size.
	SetContent(id rdf.IRI, r io.Reader) (int64, error)

	// PurgeContent removes stored content.
	PurgeContent(id rdf.IRI) error

	// Digest computes the named digest (md5, sha, sha-256) of the
	// stored content, base64-encoded.
	Digest(id rdf.IRI, algorithm string) (string, error)

	// GenerateIdentifier mints a fresh internal identifier for new
	// content.
	GenerateIdentifier() rdf.IRI
}

// RDFSyntax names one serialization the I/O service can read or write.
type RDFSyntax struct {
	// MediaType is the syntax's canonical media type.
	MediaType string

	// Format is the rdf-go format name backing the syntax.
	Format rdf.Format
}

// IOService reads and writes RDF in a named syntax.
type IOService interface {
	// Read parses triples from r, resolving relative IRIs against
	// base.
	Read(r io.Reader, base string, syntax RDFSyntax) ([]rdf.Triple, error)

	// Write serializes triples to w.  profile further qualifies
	// the output for syntaxes that support one (JSON-LD).
	Write(w io.Writer, triples []rdf.Triple, syntax RDFSyntax, profile string) error

	// ReadSyntaxes lists the syntaxes accepted in request bodies.
	ReadSyntaxes() []RDFSyntax

	// WriteSyntaxes lists the syntaxes offered in responses.
	WriteSyntaxes() []RDFSyntax
}

// AuditService generates audit quads describing a mutation.  The quads
// are stored in the PreferAudit graph of the resource being mutated.
type AuditService interface {
	Creation(id rdf.IRI, session Session) []rdf.Quad
	Update(id rdf.IRI, session Session) []rdf.Quad
	Deletion(id rdf.IRI, session Session) []rdf.Quad
}

// Event describes a completed mutation for downstream notification.
type Event struct {
	// Identifier is the mutated resource's IRI.
	Identifier rdf.IRI

	// Activity is one of the audit type IRIs (Creation, Update,
	// Deletion).
	Activity rdf.IRI

	// Agent is the session agent, or empty for anonymous.
	Agent string

	// Types carries the resource's LDP type IRI.
	Types []rdf.IRI
}

// EventService receives fire-and-forget notifications after a mutation
// persists.  Implementations must not block the request path.
type EventService interface {
	Emit(Event)
}

// ConstraintViolation is one failed constraint check.
type ConstraintViolation struct {
	// Constraint identifies the violated rule; surfaced as a
	// Link: rel=constrainedBy target.
	Constraint rdf.IRI

	// Message is a human-readable description.
	Message string
}

// ConstraintService checks an LDP shape constraint against the graph
// being written.  Implementations must treat the graph as read-only;
// the protocol layer may evaluate several services in parallel.
type ConstraintService interface {
	Check(model InteractionModel, graph []rdf.Triple) []ConstraintViolation
}

// AccessService is the authorization decision point: the set of access
// modes a session holds on a resource.
type AccessService interface {
	Modes(id rdf.IRI, session Session) ModeSet
}
