// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package trellistest

import (
	"time"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// TestCreateAndGet validates the basic resource lifecycle.
func (s *Suite) TestCreateAndGet() {
	s.Clock.Add(time.Hour)
	id := s.iri("create-and-get")
	meta := s.create(id, nil)

	res, err := s.Resources.Get(id)
	if !s.NoError(err) {
		return
	}
	s.Equal(id, res.Identifier())
	s.Equal(trellis.ModelRDFSource, res.InteractionModel())
	s.Equal(meta.Revision, res.Revision())
	s.False(res.IsDeleted())
	s.Len(res.Quads(trellis.PreferUserManaged), 1)
	_, contained := res.Container()
	s.False(contained)
}

// TestGetMissing validates the missing-resource error.
func (s *Suite) TestGetMissing() {
	_, err := s.Resources.Get(s.iri("never-created"))
	s.IsType(trellis.ErrNoSuchResource{}, err)
}

// TestCreateConflict validates that a live resource cannot be created
// twice.
func (s *Suite) TestCreateConflict() {
	s.Clock.Add(time.Hour)
	id := s.iri("create-conflict")
	s.create(id, nil)

	meta := trellis.Metadata{
		Identifier:       id,
		InteractionModel: trellis.ModelRDFSource,
		Revision:         s.revision(),
	}
	d := trellis.NewDataset()
	defer d.Close()
	s.Equal(trellis.ErrChildExists, s.Resources.Create(meta, d))
}

// TestReplaceVersioning validates that Replace snapshots the previous
// state and GetAt can recover it.
func (s *Suite) TestReplaceVersioning() {
	s.Clock.Add(time.Hour)
	id := s.iri("replace-versioning")
	s.create(id, nil)
	created := s.Clock.Now().UTC()

	s.Clock.Add(time.Minute)
	meta := trellis.Metadata{
		Identifier:       id,
		InteractionModel: trellis.ModelRDFSource,
		Revision:         s.revision(),
	}
	d := trellis.NewDataset()
	defer d.Close()
	s.NoError(d.AddTriples(trellis.PreferUserManaged, []rdf.Triple{{
		S: id,
		P: rdf.IRI{Value: "http://purl.org/dc/terms/title"},
		O: rdf.Literal{Lexical: "replaced"},
	}}))
	s.NoError(s.Resources.Replace(meta, d))

	res, err := s.Resources.Get(id)
	if s.NoError(err) {
		s.Equal(meta.Revision, res.Revision())
	}

	old, err := s.Resources.GetAt(id, created)
	if s.NoError(err) {
		s.NotEqual(meta.Revision, old.Revision())
		s.Equal(created, old.Modified())
	}

	ranges, err := s.Resources.Mementos(id)
	if s.NoError(err) && s.Len(ranges, 2) {
		s.Equal(created, ranges[0].From)
		s.Equal(ranges[1].From, ranges[0].Until)
		s.True(ranges[1].Until.IsZero())
	}
}

// TestGetAtBeforeCreation validates the missing-version error.
func (s *Suite) TestGetAtBeforeCreation() {
	s.Clock.Add(time.Hour)
	id := s.iri("get-at-before")
	s.create(id, nil)

	_, err := s.Resources.GetAt(id, s.Clock.Now().UTC().Add(-time.Minute))
	s.IsType(trellis.ErrNoSuchVersion{}, err)
}

// TestDeleteTombstone validates deletion semantics: the tombstone is
// visible, keeps its audit trail, and drops out of the memento list.
func (s *Suite) TestDeleteTombstone() {
	s.Clock.Add(time.Hour)
	id := s.iri("delete-tombstone")
	s.create(id, nil)

	s.Clock.Add(time.Minute)
	meta := trellis.Metadata{
		Identifier:       id,
		InteractionModel: trellis.ModelRDFSource,
		Revision:         s.revision(),
	}
	d := trellis.NewDataset()
	defer d.Close()
	s.NoError(d.Add(rdf.Quad{
		S: id,
		P: trellis.ProvWasGeneratedBy,
		O: rdf.IRI{Value: "urn:uuid:some-activity"},
		G: trellis.PreferAudit,
	}))
	s.NoError(s.Resources.Delete(meta, d))

	res, err := s.Resources.Get(id)
	if s.NoError(err) {
		s.True(res.IsDeleted())
		s.Len(res.Quads(trellis.PreferAudit), 1)
		s.Empty(res.Quads(trellis.PreferUserManaged))
	}

	ranges, err := s.Resources.Mementos(id)
	if s.NoError(err) && s.Len(ranges, 1) {
		s.False(ranges[0].Until.IsZero())
	}
}

// TestGetAtSkipsTombstones validates that versioned reads resolve to
// the nearest prior real version, never the tombstone.
func (s *Suite) TestGetAtSkipsTombstones() {
	s.Clock.Add(time.Hour)
	id := s.iri("get-at-deleted")
	created := s.create(id, nil)
	createdAt := s.Clock.Now().UTC()

	s.Clock.Add(time.Minute)
	meta := trellis.Metadata{
		Identifier:       id,
		InteractionModel: trellis.ModelRDFSource,
		Revision:         s.revision(),
	}
	d := trellis.NewDataset()
	s.NoError(s.Resources.Delete(meta, d))
	d.Close()

	s.Clock.Add(time.Minute)
	res, err := s.Resources.GetAt(id, s.Clock.Now().UTC())
	if s.NoError(err) {
		s.False(res.IsDeleted())
		s.Equal(created.Revision, res.Revision())
		s.Equal(createdAt, res.Modified())
	}
}

// TestRecreateOverTombstone validates that creating over a tombstone
// succeeds and extends the old history.
func (s *Suite) TestRecreateOverTombstone() {
	s.Clock.Add(time.Hour)
	id := s.iri("recreate")
	s.create(id, nil)

	s.Clock.Add(time.Minute)
	meta := trellis.Metadata{
		Identifier:       id,
		InteractionModel: trellis.ModelRDFSource,
		Revision:         s.revision(),
	}
	d := trellis.NewDataset()
	s.NoError(s.Resources.Delete(meta, d))
	d.Close()

	s.Clock.Add(time.Minute)
	recreated := s.create(id, nil)

	res, err := s.Resources.Get(id)
	if s.NoError(err) {
		s.False(res.IsDeleted())
		s.Equal(recreated.Revision, res.Revision())
	}

	ranges, err := s.Resources.Mementos(id)
	if s.NoError(err) {
		s.Len(ranges, 2)
	}
}

// TestContainment validates that child lifecycle updates the parent's
// containment graph and revision.
func (s *Suite) TestContainment() {
	s.Clock.Add(time.Hour)
	parent := s.iri("container")
	meta := trellis.Metadata{
		Identifier:       parent,
		InteractionModel: trellis.ModelBasicContainer,
		Revision:         s.revision(),
	}
	d := trellis.NewDataset()
	s.NoError(s.Resources.Create(meta, d))
	d.Close()

	s.Clock.Add(time.Minute)
	child := s.iri("container/child")
	s.create(child, &parent)

	res, err := s.Resources.Get(parent)
	if !s.NoError(err) {
		return
	}
	afterAdd := res.Revision()
	s.NotEqual(meta.Revision, afterAdd)
	contains := res.Quads(trellis.PreferContainment)
	if s.Len(contains, 1) {
		s.Equal(trellis.LDPContains, contains[0].P)
		s.Equal(child, contains[0].O)
	}

	childRes, err := s.Resources.Get(child)
	if s.NoError(err) {
		container, ok := childRes.Container()
		s.True(ok)
		s.Equal(parent, container)
	}

	s.Clock.Add(time.Minute)
	deleteMeta := trellis.Metadata{
		Identifier:       child,
		InteractionModel: trellis.ModelRDFSource,
		Revision:         s.revision(),
	}
	d2 := trellis.NewDataset()
	s.NoError(s.Resources.Delete(deleteMeta, d2))
	d2.Close()

	res, err = s.Resources.Get(parent)
	if s.NoError(err) {
		s.Empty(res.Quads(trellis.PreferContainment))
		s.NotEqual(afterAdd, res.Revision())
	}
}

// TestSupportedInteractionModels validates the advertised model list.
func (s *Suite) TestSupportedInteractionModels() {
	models := s.Resources.SupportedInteractionModels()
	s.Contains(models, trellis.ModelRDFSource)
	s.Contains(models, trellis.ModelBasicContainer)
}
