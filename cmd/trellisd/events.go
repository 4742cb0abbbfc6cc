// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package main

import (
	"github.com/sirupsen/logrus"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// logEvents is an EventService that writes mutations to the structured
// log.  A production deployment would publish to a message broker
// instead; the interface is the same.
type logEvents struct{}

func (e *logEvents) Emit(event trellis.Event) {
	fields := logrus.Fields{
		"resource": event.Identifier.Value,
		"activity": event.Activity.Value,
	}
	if event.Agent != "" {
		fields["agent"] = event.Agent
	}
	if len(event.Types) > 0 {
		fields["type"] = event.Types[0].Value
	}
	logrus.WithFields(fields).Info("Resource changed")
}
