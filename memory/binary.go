// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/geoknoesis/rdf-go/rdf"
	uuid "github.com/satori/go.uuid"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// BinaryStore implements trellis.BinaryService in memory.
type BinaryStore struct {
	sem   sync.Mutex
	blobs map[string][]byte
}

// NewBinaryStore creates an empty binary store.
func NewBinaryStore() *BinaryStore {
	return &BinaryStore{blobs: make(map[string][]byte)}
}

// Content streams stored content, optionally restricted to the
// inclusive byte range [from, to].
func (b *BinaryStore) Content(id rdf.IRI, from, to int64) (io.ReadCloser, error) {
	b.sem.Lock()
	blob, ok := b.blobs[id.Value]
	b.sem.Unlock()
	if !ok {
		return nil, trellis.ErrNoSuchBinary
	}
	if to > from {
		if from >= int64(len(blob)) {
			return nil, fmt.Errorf("range start %d beyond content size %d", from, len(blob))
		}
		end := to + 1
		if end > int64(len(blob)) {
			end = int64(len(blob))
		}
		blob = blob[from:end]
	}
	return io.NopCloser(bytes.NewReader(blob)), nil
}

// SetContent stores content, replacing any previous bytes.
func (b *BinaryStore) SetContent(id rdf.IRI, r io.Reader) (int64, error) {
	blob, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	b.sem.Lock()
	b.blobs[id.Value] = blob
	b.sem.Unlock()
	return int64(len(blob)), nil
}

// PurgeContent removes stored content.
func (b *BinaryStore) PurgeContent(id rdf.IRI) error {
	b.sem.Lock()
	defer b.sem.Unlock()
	if _, ok := b.blobs[id.Value]; !ok {
		return trellis.ErrNoSuchBinary
	}
	delete(b.blobs, id.Value)
	return nil
}

// Digest computes the named digest of the stored content.
func (b *BinaryStore) Digest(id rdf.IRI, algorithm string) (string, error) {
	b.sem.Lock()
	blob, ok := b.blobs[id.Value]
	b.sem.Unlock()
	if !ok {
		return "", trellis.ErrNoSuchBinary
	}
	return ldpdata.HashDigest(algorithm, blob)
}

// GenerateIdentifier mints a fresh internal identifier.
func (b *BinaryStore) GenerateIdentifier() rdf.IRI {
	return rdf.IRI{Value: "urn:trellis:binary:" + uuid.NewV4().String()}
}
