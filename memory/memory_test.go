// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/trellis-ldp/go-trellis/trellis/trellistest"
)

// Suite is the per-backend generic test suite.
type Suite struct {
	trellistest.Suite
}

// SetupTest creates a fresh store for each test.
func (s *Suite) SetupTest() {
	s.Suite.SetupTest()
	s.Resources = NewWithClock(s.Clock)
	s.Binaries = NewBinaryStore()
}

// TestStorage runs the storage generic tests.
func TestStorage(t *testing.T) {
	suite.Run(t, &Suite{})
}
