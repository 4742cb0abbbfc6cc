// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package trellis

import (
	"errors"

	"github.com/geoknoesis/rdf-go/rdf"
)

// ErrDatasetClosed is returned when a closed dataset is modified.
var ErrDatasetClosed = errors.New("dataset is closed")

// Dataset is a request-scoped collection of quads grouped by named graph.
// Handlers assemble one per mutating request and hand it to the resource
// service atomically.  A dataset must be closed on every exit path; after
// Close it rejects further writes.
type Dataset struct {
	quads  []rdf.Quad
	closed bool
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{}
}

// Add appends one quad.
func (d *Dataset) Add(q rdf.Quad) error {
	if d.closed {
		return ErrDatasetClosed
	}
	d.quads = append(d.quads, q)
	return nil
}

// AddAll appends a batch of quads.
func (d *Dataset) AddAll(quads []rdf.Quad) error {
	if d.closed {
		return ErrDatasetClosed
	}
	d.quads = append(d.quads, quads...)
	return nil
}

// AddTriples appends triples into the named graph.
func (d *Dataset) AddTriples(graph rdf.IRI, triples []rdf.Triple) error {
	if d.closed {
		return ErrDatasetClosed
	}
	for _, t := range triples {
		d.quads = append(d.quads, t.ToQuadInGraph(graph))
	}
	return nil
}

// Graph returns the quads in the named graph.
func (d *Dataset) Graph(graph rdf.IRI) []rdf.Quad {
	var out []rdf.Quad
	for _, q := range d.quads {
		if g, ok := q.G.(rdf.IRI); ok && g == graph {
			out = append(out, q)
		}
	}
	return out
}

// Quads returns every quad in the dataset.
func (d *Dataset) Quads() []rdf.Quad {
	return d.quads
}

// Len returns the number of quads.
func (d *Dataset) Len() int {
	return len(d.quads)
}

// Close releases the dataset.  Further writes fail.
func (d *Dataset) Close() error {
	d.closed = true
	d.quads = nil
	return nil
}

// GraphTriples projects the named graph of a quad slice down to triples.
func GraphTriples(quads []rdf.Quad, graph rdf.IRI) []rdf.Triple {
	var out []rdf.Triple
	for _, q := range quads {
		if g, ok := q.G.(rdf.IRI); ok && g == graph {
			out = append(out, q.ToTriple())
		}
	}
	return out
}
