// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package backend provides a standard way to construct the Trellis
// storage services based on command-line flags.
package backend

import (
	"errors"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/memory"
	"github.com/trellis-ldp/go-trellis/postgres"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// Backend describes user-visible parameters to store resource data.
// This implements the flag.Value interface, and so a typical use is
//
//	func main() {
//	    storage := backend.Backend{Implementation: "memory"}
//	    flag.Var(&storage, "backend", "impl:address of resource storage")
//	    flag.Parse()
//	    resources, binaries, err := storage.Services()
//	}
type Backend struct {
	// Implementation holds the name of the implementation: "memory"
	// or "postgres".
	Implementation string

	// Address holds some backend-specific address, such as a
	// database connect string.
	Address string
}

// Services creates the resource and binary services.  This generally
// should be only called once.  If the backend has in-process state,
// such as a database connection pool or an in-memory store, calling
// this multiple times will create multiple copies of that state.  In
// particular, if b.Implementation is "memory", multiple calls will
// create multiple independent resource trees.
func (b *Backend) Services() (trellis.ResourceService, trellis.BinaryService, error) {
	switch b.Implementation {
	case "", "memory":
		return memory.New(), memory.NewBinaryStore(), nil
	case "postgres":
		store, err := postgres.New(b.Address)
		if err != nil {
			return nil, nil, err
		}
		return store, postgres.NewBinaryStore(store), nil
	default:
		return nil, nil, errors.New("unknown storage backend " + b.Implementation)
	}
}

// EnsureRoot seeds the root container on whichever backend the
// resource service came from.
func EnsureRoot(resources trellis.ResourceService, root rdf.IRI) error {
	switch s := resources.(type) {
	case *memory.Store:
		s.EnsureRoot(root)
		return nil
	case *postgres.Store:
		return s.EnsureRoot(root)
	default:
		return nil
	}
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string into an existing backend description.  The
// string should be of the form "implementation:address", where address
// can be any string.  Set checks to see if the provided implementation
// is any of the known implementations, and returns an appropriate
// error if not.
//
// This is part of the flag.Value interface.  If Set returns a nil
// error then Services() will attempt the connection.  Neither function
// validates the b.Address part of the string in advance.
func (b *Backend) Set(param string) error {
	implementation, address, _ := strings.Cut(param, ":")
	switch implementation {
	case "memory", "postgres":
		b.Implementation = implementation
		b.Address = address
		return nil
	case "":
		return errors.New("must specify a backend type")
	default:
		return errors.New("unknown storage backend " + implementation)
	}
}
