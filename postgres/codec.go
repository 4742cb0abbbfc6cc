// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"io"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
)

// encodeQuads serializes a quad set as N-Quads text for storage.
func encodeQuads(quads []rdf.Quad) (string, error) {
	var b strings.Builder
	w, err := rdf.NewWriter(&b, rdf.FormatNQuads)
	if err != nil {
		return "", err
	}
	for _, q := range quads {
		if err := w.Write(rdf.Statement{S: q.S, P: q.P, O: q.O, G: q.G}); err != nil {
			return "", err
		}
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// decodeQuads parses stored N-Quads text back into quads.
func decodeQuads(text string) ([]rdf.Quad, error) {
	r, err := rdf.NewReader(strings.NewReader(text), rdf.FormatNQuads)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var quads []rdf.Quad
	for {
		stmt, err := r.Next()
		if err == io.EOF {
			return quads, nil
		}
		if err != nil {
			return nil, err
		}
		quads = append(quads, rdf.Quad{S: stmt.S, P: stmt.P, O: stmt.O, G: stmt.G})
	}
}
