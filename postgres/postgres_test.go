// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/trellis-ldp/go-trellis/trellis/trellistest"
)

// Suite is the per-backend generic test suite.  It requires a real
// PostgreSQL database, named by the usual libpq environment variables
// or a PGURL setting, and is skipped otherwise.
type Suite struct {
	trellistest.Suite
	store *Store
}

// SetupTest connects to the database and clears it for each test.
func (s *Suite) SetupTest() {
	s.Suite.SetupTest()
	store, err := NewWithClock(os.Getenv("PGURL"), s.Clock)
	if err != nil {
		s.T().Skipf("cannot connect to PostgreSQL: %v", err)
	}
	if err := store.db.Ping(); err != nil {
		store.Close()
		s.T().Skipf("cannot reach PostgreSQL: %v", err)
	}
	if err := Drop(store.db); err != nil {
		store.Close()
		s.T().Fatalf("cannot reset database: %v", err)
	}
	if err := Upgrade(store.db); err != nil {
		store.Close()
		s.T().Fatalf("cannot migrate database: %v", err)
	}
	s.store = store
	s.Resources = store
	s.Binaries = NewBinaryStore(store)
}

// TearDownTest releases the connection pool.
func (s *Suite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// TestStorage runs the storage generic tests.
func TestStorage(t *testing.T) {
	suite.Run(t, &Suite{})
}

func TestQuadCodec(t *testing.T) {
	// Round-tripping is covered by the storage suite; this checks
	// that the empty cases behave.
	text, err := encodeQuads(nil)
	if err != nil {
		t.Fatalf("encoding no quads: %v", err)
	}
	quads, err := decodeQuads(text)
	if err != nil {
		t.Fatalf("decoding empty text: %v", err)
	}
	if len(quads) != 0 {
		t.Fatalf("expected no quads, got %d", len(quads))
	}
}
