// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package trellis

import (
	"errors"
	"fmt"
	"time"

	"github.com/geoknoesis/rdf-go/rdf"
)

// ErrPersistFailed is returned from ResourceService mutations when the
// backing store rejects the atomic write.  No partial state may be
// assumed when this is returned.
var ErrPersistFailed = errors.New("resource persistence failed")

// ErrChildExists is returned from ResourceService.Create() when a
// resource already exists at the requested identifier.
var ErrChildExists = errors.New("resource already exists at this identifier")

// ErrNoSuchBinary is returned from BinaryService methods that look up
// content that was never stored or has been purged.
var ErrNoSuchBinary = errors.New("no such binary content")

// ErrNoSuchResource is returned by ResourceService.Get() and similar
// functions that want to look up a resource, but cannot find it.
type ErrNoSuchResource struct {
	Identifier rdf.IRI
}

func (err ErrNoSuchResource) Error() string {
	return fmt.Sprintf("no such resource %v", err.Identifier.Value)
}

// ErrNoSuchVersion is returned by ResourceService.GetAt() when no
// memento exists at or before the requested instant.
type ErrNoSuchVersion struct {
	Identifier rdf.IRI
	Instant    time.Time
}

func (err ErrNoSuchVersion) Error() string {
	return fmt.Sprintf("no version of %v at %v", err.Identifier.Value, err.Instant.UTC().Format(time.RFC3339))
}

// ErrUnsupportedModel is returned by ResourceService mutations when the
// persistence layer cannot store the requested interaction model.
type ErrUnsupportedModel struct {
	Model InteractionModel
}

func (err ErrUnsupportedModel) Error() string {
	return fmt.Sprintf("unsupported interaction model %v", err.Model)
}
