// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory implementation of
// the Trellis storage services.  There is no persistence; every write
// keeps a full snapshot of the superseded state so the Memento layer
// has real history to serve.  The entire store is behind a single
// global mutex to protect against concurrent updates; this limits
// performance in the name of correctness.
//
// This is mostly intended as a reference implementation that can be
// used for testing, including in-process testing of the HTTP protocol
// layer.  It is tuned for correctness, not scalability.
package memory

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/geoknoesis/rdf-go/rdf"
	uuid "github.com/satori/go.uuid"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// Store implements trellis.ResourceService in memory.
type Store struct {
	sem       sync.Mutex
	clock     clock.Clock
	resources map[string]*record
}

// New creates an empty store using the real time source.
func New() *Store {
	return NewWithClock(clock.New())
}

// NewWithClock creates an empty store with an explicit time source.
// Most application code should call New(); this entry point is for
// tests that need to control Memento instants.
func NewWithClock(clk clock.Clock) *Store {
	return &Store{
		clock:     clk,
		resources: make(map[string]*record),
	}
}

// record is the mutable per-identifier state.  versions holds every
// superseded snapshot, oldest first; current is the live state.
type record struct {
	current  *snapshot
	versions []*snapshot
	deleted  bool
}

// snapshot is one immutable resource state.  It doubles as the
// trellis.Resource view handed to callers.
type snapshot struct {
	id        rdf.IRI
	model     trellis.InteractionModel
	container *rdf.IRI
	binary    *trellis.BinaryMetadata
	revision  string
	from      time.Time
	deleted   bool
	quads     []rdf.Quad
}

func (s *snapshot) Identifier() rdf.IRI { return s.id }

func (s *snapshot) InteractionModel() trellis.InteractionModel { return s.model }

func (s *snapshot) Modified() time.Time { return s.from }

func (s *snapshot) Revision() string { return s.revision }

func (s *snapshot) Container() (rdf.IRI, bool) {
	if s.container == nil {
		return rdf.IRI{}, false
	}
	return *s.container, true
}

func (s *snapshot) Binary() (trellis.BinaryMetadata, bool) {
	if s.binary == nil {
		return trellis.BinaryMetadata{}, false
	}
	return *s.binary, true
}

func (s *snapshot) IsDeleted() bool { return s.deleted }

func (s *snapshot) Quads(graphs ...rdf.IRI) []rdf.Quad {
	if len(graphs) == 0 {
		return append([]rdf.Quad(nil), s.quads...)
	}
	var out []rdf.Quad
	for _, q := range s.quads {
		g, ok := q.G.(rdf.IRI)
		if !ok {
			continue
		}
		for _, want := range graphs {
			if g == want {
				out = append(out, q)
				break
			}
		}
	}
	return out
}

// EnsureRoot seeds the root container if nothing is stored there yet.
func (s *Store) EnsureRoot(root rdf.IRI) {
	s.sem.Lock()
	defer s.sem.Unlock()
	if _, ok := s.resources[root.Value]; ok {
		return
	}
	s.resources[root.Value] = &record{current: &snapshot{
		id:       root,
		model:    trellis.ModelBasicContainer,
		revision: "root",
		from:     s.clock.Now().UTC(),
	}}
}

// Get retrieves the current state of a resource.
func (s *Store) Get(id rdf.IRI) (trellis.Resource, error) {
	s.sem.Lock()
	defer s.sem.Unlock()
	rec, ok := s.resources[id.Value]
	if !ok {
		return nil, trellis.ErrNoSuchResource{Identifier: id}
	}
	return rec.current, nil
}

// GetAt retrieves the newest version created at or before instant.
// Tombstones are not versions and never resolve.
func (s *Store) GetAt(id rdf.IRI, instant time.Time) (trellis.Resource, error) {
	s.sem.Lock()
	defer s.sem.Unlock()
	rec, ok := s.resources[id.Value]
	if !ok {
		return nil, trellis.ErrNoSuchResource{Identifier: id}
	}
	var best *snapshot
	for _, v := range append(append([]*snapshot(nil), rec.versions...), rec.current) {
		if v.deleted {
			continue
		}
		if !v.from.After(instant) {
			best = v
		}
	}
	if best == nil {
		return nil, trellis.ErrNoSuchVersion{Identifier: id, Instant: instant}
	}
	return best, nil
}

// Create stores a brand-new resource and links it into its container.
func (s *Store) Create(meta trellis.Metadata, d *trellis.Dataset) error {
	s.sem.Lock()
	defer s.sem.Unlock()
	if rec, ok := s.resources[meta.Identifier.Value]; ok && !rec.deleted {
		return trellis.ErrChildExists
	}
	now := s.clock.Now().UTC()
	next := s.materialize(meta, d, now)
	if rec, ok := s.resources[meta.Identifier.Value]; ok {
		// Re-creating over a tombstone keeps the old history.
		rec.versions = append(rec.versions, rec.current)
		rec.current = next
		rec.deleted = false
	} else {
		s.resources[meta.Identifier.Value] = &record{current: next}
	}
	if meta.Container != nil {
		s.addContainment(*meta.Container, meta.Identifier, now)
	}
	return nil
}

// Replace atomically replaces the state of an existing resource.
func (s *Store) Replace(meta trellis.Metadata, d *trellis.Dataset) error {
	s.sem.Lock()
	defer s.sem.Unlock()
	rec, ok := s.resources[meta.Identifier.Value]
	if !ok {
		return trellis.ErrNoSuchResource{Identifier: meta.Identifier}
	}
	now := s.clock.Now().UTC()
	next := s.materialize(meta, d, now)
	rec.versions = append(rec.versions, rec.current)
	rec.current = next
	rec.deleted = false
	return nil
}

// Delete tombstones a resource and unlinks it from its container.
func (s *Store) Delete(meta trellis.Metadata, d *trellis.Dataset) error {
	s.sem.Lock()
	defer s.sem.Unlock()
	rec, ok := s.resources[meta.Identifier.Value]
	if !ok {
		return trellis.ErrNoSuchResource{Identifier: meta.Identifier}
	}
	now := s.clock.Now().UTC()
	tombstone := &snapshot{
		id:       meta.Identifier,
		model:    rec.current.model,
		revision: meta.Revision,
		from:     now,
		deleted:  true,
		quads:    d.Graph(trellis.PreferAudit),
	}
	prev := rec.current
	rec.versions = append(rec.versions, prev)
	rec.current = tombstone
	rec.deleted = true
	if prev.container != nil {
		s.removeContainment(*prev.container, meta.Identifier, now)
	}
	return nil
}

// Mementos lists the version ranges of a resource, oldest first.
func (s *Store) Mementos(id rdf.IRI) ([]trellis.VersionRange, error) {
	s.sem.Lock()
	defer s.sem.Unlock()
	rec, ok := s.resources[id.Value]
	if !ok {
		return nil, trellis.ErrNoSuchResource{Identifier: id}
	}
	all := append(append([]*snapshot(nil), rec.versions...), rec.current)
	var ranges []trellis.VersionRange
	for i, v := range all {
		if v.deleted {
			continue
		}
		r := trellis.VersionRange{From: v.from}
		if i+1 < len(all) {
			r.Until = all[i+1].from
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// SupportedInteractionModels reports every LDP type; the memory store
// persists them all.
func (s *Store) SupportedInteractionModels() []trellis.InteractionModel {
	return []trellis.InteractionModel{
		trellis.ModelRDFSource,
		trellis.ModelNonRDFSource,
		trellis.ModelContainer,
		trellis.ModelBasicContainer,
		trellis.ModelDirectContainer,
		trellis.ModelIndirectContainer,
	}
}

// materialize snapshots a metadata+dataset pair, carrying over the
// server-maintained containment quads of any previous state.
func (s *Store) materialize(meta trellis.Metadata, d *trellis.Dataset, now time.Time) *snapshot {
	quads := append([]rdf.Quad(nil), d.Quads()...)
	if rec, ok := s.resources[meta.Identifier.Value]; ok && !rec.deleted {
		quads = append(quads, rec.current.Quads(trellis.PreferContainment, trellis.PreferMembership)...)
	}
	return &snapshot{
		id:        meta.Identifier,
		model:     meta.InteractionModel,
		container: meta.Container,
		binary:    meta.Binary,
		revision:  meta.Revision,
		from:      now,
		quads:     quads,
	}
}

func (s *Store) addContainment(container, child rdf.IRI, now time.Time) {
	rec, ok := s.resources[container.Value]
	if !ok || rec.deleted {
		return
	}
	next := *rec.current
	next.quads = append(append([]rdf.Quad(nil), next.quads...),
		rdf.Quad{S: container, P: trellis.LDPContains, O: child, G: trellis.PreferContainment})
	next.from = now
	next.revision = uuid.NewV4().String()
	rec.versions = append(rec.versions, rec.current)
	rec.current = &next
}

func (s *Store) removeContainment(container, child rdf.IRI, now time.Time) {
	rec, ok := s.resources[container.Value]
	if !ok || rec.deleted {
		return
	}
	next := *rec.current
	var quads []rdf.Quad
	for _, q := range next.quads {
		if q.P == trellis.LDPContains {
			if o, ok := q.O.(rdf.IRI); ok && o == child {
				continue
			}
		}
		quads = append(quads, q)
	}
	next.quads = quads
	next.from = now
	next.revision = uuid.NewV4().String()
	rec.versions = append(rec.versions, rec.current)
	rec.current = &next
}
