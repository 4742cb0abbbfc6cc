// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"
	"time"

	"github.com/geoknoesis/rdf-go/rdf"
	uuid "github.com/satori/go.uuid"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// EnsureRoot seeds the root container if nothing is stored there yet.
func (s *Store) EnsureRoot(root rdf.IRI) error {
	return withTx(s.db, false, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRow("SELECT TRUE FROM resources WHERE id=$1", root.Value).Scan(&exists)
		if err == nil {
			return nil
		}
		if err != sql.ErrNoRows {
			return err
		}
		meta := trellis.Metadata{
			Identifier:       root,
			InteractionModel: trellis.ModelBasicContainer,
			Revision:         "root",
		}
		r, err := rowFrom(meta, nil, s.clock.Now().UTC(), false)
		if err != nil {
			return err
		}
		return insertResource(tx, r)
	})
}

// Get retrieves the current state of a resource.
func (s *Store) Get(id rdf.IRI) (trellis.Resource, error) {
	var r *row
	err := withTx(s.db, true, func(tx *sql.Tx) error {
		var err error
		r, err = selectResource(tx, id.Value)
		return err
	})
	if err == sql.ErrNoRows {
		return nil, trellis.ErrNoSuchResource{Identifier: id}
	}
	if err != nil {
		return nil, err
	}
	return &resource{row: r}, nil
}

// GetAt retrieves the newest version created at or before instant.
// Tombstones are not versions and never resolve.
func (s *Store) GetAt(id rdf.IRI, instant time.Time) (trellis.Resource, error) {
	var r *row
	err := withTx(s.db, true, func(tx *sql.Tx) error {
		current, err := selectResource(tx, id.Value)
		if err != nil {
			return err
		}
		if !current.deleted && !current.modified.After(instant) {
			r = current
			return nil
		}
		r, err = scanRow(tx.QueryRow(
			"SELECT "+mementoColumns+" FROM mementos WHERE resource=$1 AND modified<=$2 AND NOT deleted ORDER BY serial DESC LIMIT 1",
			id.Value, instant).Scan)
		return err
	})
	if err == sql.ErrNoRows {
		return nil, versionError(s, id, instant)
	}
	if err != nil {
		return nil, err
	}
	return &resource{row: r}, nil
}

// versionError distinguishes a missing resource from a missing version.
func versionError(s *Store, id rdf.IRI, instant time.Time) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return trellis.ErrNoSuchVersion{Identifier: id, Instant: instant}
}

// Create stores a brand-new resource and links it into its container.
func (s *Store) Create(meta trellis.Metadata, d *trellis.Dataset) error {
	now := s.clock.Now().UTC()
	next, err := rowFrom(meta, d.Quads(), now, false)
	if err != nil {
		return err
	}
	return withTx(s.db, false, func(tx *sql.Tx) error {
		prev, err := selectResource(tx, meta.Identifier.Value)
		switch {
		case err == sql.ErrNoRows:
			if err := insertResource(tx, next); err != nil {
				return err
			}
		case err != nil:
			return err
		case !prev.deleted:
			return trellis.ErrChildExists
		default:
			// Re-creating over a tombstone keeps the old history.
			if err := pushMemento(tx, prev); err != nil {
				return err
			}
			if err := updateResource(tx, next); err != nil {
				return err
			}
		}
		if meta.Container != nil {
			return addContainment(tx, meta.Container.Value, meta.Identifier, now)
		}
		return nil
	})
}

// Replace atomically replaces the state of an existing resource.
func (s *Store) Replace(meta trellis.Metadata, d *trellis.Dataset) error {
	now := s.clock.Now().UTC()
	return withTx(s.db, false, func(tx *sql.Tx) error {
		prev, err := selectResource(tx, meta.Identifier.Value)
		if err == sql.ErrNoRows {
			return trellis.ErrNoSuchResource{Identifier: meta.Identifier}
		}
		if err != nil {
			return err
		}

		// Carry over the server-maintained containment and
		// membership quads of the previous live state.
		quads := append([]rdf.Quad(nil), d.Quads()...)
		if !prev.deleted {
			quads = append(quads, (&resource{row: prev}).Quads(
				trellis.PreferContainment, trellis.PreferMembership)...)
		}
		next, err := rowFrom(meta, quads, now, false)
		if err != nil {
			return err
		}
		if err := pushMemento(tx, prev); err != nil {
			return err
		}
		return updateResource(tx, next)
	})
}

// Delete tombstones a resource and unlinks it from its container.
func (s *Store) Delete(meta trellis.Metadata, d *trellis.Dataset) error {
	now := s.clock.Now().UTC()
	return withTx(s.db, false, func(tx *sql.Tx) error {
		prev, err := selectResource(tx, meta.Identifier.Value)
		if err == sql.ErrNoRows {
			return trellis.ErrNoSuchResource{Identifier: meta.Identifier}
		}
		if err != nil {
			return err
		}

		tombstone, err := rowFrom(trellis.Metadata{
			Identifier:       meta.Identifier,
			InteractionModel: trellis.InteractionModel(prev.model),
			Revision:         meta.Revision,
		}, d.Graph(trellis.PreferAudit), now, true)
		if err != nil {
			return err
		}
		if err := pushMemento(tx, prev); err != nil {
			return err
		}
		if err := updateResource(tx, tombstone); err != nil {
			return err
		}
		if prev.container.Valid {
			return removeContainment(tx, prev.container.String, meta.Identifier, now)
		}
		return nil
	})
}

// Mementos lists the version ranges of a resource, oldest first.
func (s *Store) Mementos(id rdf.IRI) ([]trellis.VersionRange, error) {
	type instant struct {
		modified time.Time
		deleted  bool
	}
	var instants []instant
	err := withTx(s.db, true, func(tx *sql.Tx) error {
		current, err := selectResource(tx, id.Value)
		if err != nil {
			return err
		}
		rows, err := tx.Query(
			"SELECT modified, deleted FROM mementos WHERE resource=$1 ORDER BY serial", id.Value)
		if err != nil {
			return err
		}
		err = scanRows(rows, func() error {
			var i instant
			if err := rows.Scan(&i.modified, &i.deleted); err != nil {
				return err
			}
			instants = append(instants, i)
			return nil
		})
		if err != nil {
			return err
		}
		instants = append(instants, instant{modified: current.modified, deleted: current.deleted})
		return nil
	})
	if err == sql.ErrNoRows {
		return nil, trellis.ErrNoSuchResource{Identifier: id}
	}
	if err != nil {
		return nil, err
	}

	var ranges []trellis.VersionRange
	for i, v := range instants {
		if v.deleted {
			continue
		}
		r := trellis.VersionRange{From: v.modified.UTC()}
		if i+1 < len(instants) {
			r.Until = instants[i+1].modified.UTC()
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// SupportedInteractionModels reports every LDP type; the relational
// schema persists them all.
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

func selectResource(tx *sql.Tx, id string) (*row, error) {
	return scanRow(tx.QueryRow(
		"SELECT "+rowColumns+" FROM resources WHERE id=$1", id).Scan)
}

func insertResource(tx *sql.Tx, r *row) error {
	_, err := tx.Exec(
		"INSERT INTO resources("+rowColumns+") VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)",
		r.id, r.model, r.container, r.binaryID, r.mimeType, r.size,
		r.revision, r.modified, r.deleted, r.quads)
	return err
}

func updateResource(tx *sql.Tx, r *row) error {
	_, err := tx.Exec(
		"UPDATE resources SET interaction_model=$2, container=$3, binary_id=$4, binary_type=$5, "+
			"binary_size=$6, revision=$7, modified=$8, deleted=$9, quads=$10 WHERE id=$1",
		r.id, r.model, r.container, r.binaryID, r.mimeType, r.size,
		r.revision, r.modified, r.deleted, r.quads)
	return err
}

// pushMemento copies the superseded state into the history table.
func pushMemento(tx *sql.Tx, r *row) error {
	_, err := tx.Exec(
		"INSERT INTO mementos(resource, interaction_model, container, binary_id, binary_type, "+
			"binary_size, revision, modified, deleted, quads) VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)",
		r.id, r.model, r.container, r.binaryID, r.mimeType, r.size,
		r.revision, r.modified, r.deleted, r.quads)
	return err
}

// addContainment appends an ldp:contains quad to the parent container,
// recording the parent's superseded state first.
func addContainment(tx *sql.Tx, container string, child rdf.IRI, now time.Time) error {
	prev, err := selectResource(tx, container)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if prev.deleted {
		return nil
	}
	quads, err := decodeQuads(prev.quads)
	if err != nil {
		return err
	}
	quads = append(quads, rdf.Quad{
		S: rdf.IRI{Value: container}, P: trellis.LDPContains, O: child, G: trellis.PreferContainment,
	})
	return reviseContainer(tx, prev, quads, now)
}

// removeContainment drops the child's ldp:contains quad from the
// parent container.
func removeContainment(tx *sql.Tx, container string, child rdf.IRI, now time.Time) error {
	prev, err := selectResource(tx, container)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if prev.deleted {
		return nil
	}
	decoded, err := decodeQuads(prev.quads)
	if err != nil {
		return err
	}
	var quads []rdf.Quad
	for _, q := range decoded {
		if q.P == trellis.LDPContains {
			if o, ok := q.O.(rdf.IRI); ok && o == child {
				continue
			}
		}
		quads = append(quads, q)
	}
	return reviseContainer(tx, prev, quads, now)
}

func reviseContainer(tx *sql.Tx, prev *row, quads []rdf.Quad, now time.Time) error {
	if err := pushMemento(tx, prev); err != nil {
		return err
	}
	encoded, err := encodeQuads(quads)
	if err != nil {
		return err
	}
	next := *prev
	next.quads = encoded
	next.modified = now
	next.revision = uuid.NewV4().String()
	return updateResource(tx, &next)
}
