// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"

	"github.com/geoknoesis/rdf-go/rdf"
	uuid "github.com/satori/go.uuid"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// BinaryStore implements trellis.BinaryService on the binaries table.
// Content is held in a bytea column, which bounds object size by what
// comfortably round-trips through a single query; this backend targets
// repository-scale documents, not video archives.
type BinaryStore struct {
	db *sql.DB
}

// NewBinaryStore creates a binary store sharing the resource store's
// connection pool.
func NewBinaryStore(s *Store) *BinaryStore {
	return &BinaryStore{db: s.db}
}

// Content streams stored content, optionally restricted to the
// inclusive byte range [from, to].
func (b *BinaryStore) Content(id rdf.IRI, from, to int64) (io.ReadCloser, error) {
	blob, err := b.fetch(id)
	if err != nil {
		return nil, err
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
	err = withTx(b.db, false, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			"INSERT INTO binaries(id, content) VALUES($1, $2) "+
				"ON CONFLICT (id) DO UPDATE SET content=EXCLUDED.content",
			id.Value, blob)
		return err
	})
	if err != nil {
		return 0, err
	}
	return int64(len(blob)), nil
}

// PurgeContent removes stored content.
func (b *BinaryStore) PurgeContent(id rdf.IRI) error {
	return withTx(b.db, false, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM binaries WHERE id=$1", id.Value)
		if err != nil {
			return err
		}
		count, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if count == 0 {
			return trellis.ErrNoSuchBinary
		}
		return nil
	})
}

// Digest computes the named digest of the stored content.
func (b *BinaryStore) Digest(id rdf.IRI, algorithm string) (string, error) {
	blob, err := b.fetch(id)
	if err != nil {
		return "", err
	}
	return ldpdata.HashDigest(algorithm, blob)
}

// GenerateIdentifier mints a fresh internal identifier.
func (b *BinaryStore) GenerateIdentifier() rdf.IRI {
	return rdf.IRI{Value: "urn:trellis:binary:" + uuid.NewV4().String()}
}

func (b *BinaryStore) fetch(id rdf.IRI) ([]byte, error) {
	var blob []byte
	err := withTx(b.db, true, func(tx *sql.Tx) error {
		return tx.QueryRow("SELECT content FROM binaries WHERE id=$1", id.Value).Scan(&blob)
	})
	if err == sql.ErrNoRows {
		return nil, trellis.ErrNoSuchBinary
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}
