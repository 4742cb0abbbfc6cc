// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package webac implements the Web Access Control authorization model
// over a trellis.ResourceService.
//
// The effective ACL of a resource is the access-control graph stored
// with the resource itself or, when that graph is empty, the nearest
// ancestor container's graph whose authorizations carry acl:default.
// An authorization grants its acl:mode entries when it targets the
// resource (acl:accessTo, or acl:default on an ancestor) and its agent
// matches the session: acl:agent equal to the session agent, or
// acl:agentClass foaf:Agent for everyone.
package webac

import (
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// Engine implements trellis.AccessService.
type Engine struct {
	resources trellis.ResourceService

	// admins hold every mode on every resource.
	admins map[string]bool
}

// New creates a WebAC engine.  Sessions whose agent appears in admins
// are granted all modes unconditionally.
func New(resources trellis.ResourceService, admins []string) *Engine {
	set := make(map[string]bool, len(admins))
	for _, a := range admins {
		set[a] = true
	}
	return &Engine{resources: resources, admins: set}
}

// Modes returns the access modes the session holds on the resource.
func (e *Engine) Modes(id rdf.IRI, session trellis.Session) trellis.ModeSet {
	if e.admins[session.Agent] {
		return trellis.AllModes()
	}
	acl, inherited, found := e.effectiveACL(id)
	if !found {
		// No ACL anywhere in the hierarchy: open resource.
		return trellis.AllModes()
	}
	modes := trellis.ModeSet{}
	for _, auth := range authorizations(acl) {
		if !auth.applies(id, inherited) || !auth.matches(session) {
			continue
		}
		for _, m := range auth.modes {
			switch m {
			case trellis.ACLRead:
				modes[trellis.AccessRead] = true
			case trellis.ACLWrite:
				modes[trellis.AccessWrite] = true
			case trellis.ACLAppend:
				modes[trellis.AccessAppend] = true
			case trellis.ACLControl:
				modes[trellis.AccessControl] = true
			}
		}
	}
	return modes
}

// effectiveACL walks from the resource up its containment chain until
// it finds a non-empty access-control graph.  inherited reports
// whether the graph came from an ancestor.
func (e *Engine) effectiveACL(id rdf.IRI) (acl []rdf.Quad, inherited bool, found bool) {
	current := id
	for depth := 0; depth < 64; depth++ {
		res, err := e.resources.Get(current)
		if err == nil && !res.IsDeleted() {
			quads := res.Quads(trellis.PreferAccessControl)
			if len(quads) > 0 {
				return quads, depth > 0, true
			}
			if parent, ok := res.Container(); ok {
				current = parent
				continue
			}
			return nil, false, false
		}
		// The target may not exist yet (PUT to a fresh path, or a
		// tombstone): fall back to the parent path segment.
		parent, ok := parentIRI(current)
		if !ok {
			return nil, false, false
		}
		current = parent
	}
	return nil, false, false
}

// parentIRI trims the last path segment of an IRI.  The root container
// keeps its trailing slash, matching how it is stored.
func parentIRI(id rdf.IRI) (rdf.IRI, bool) {
	value := strings.TrimSuffix(id.Value, "/")
	i := strings.LastIndexByte(value, '/')
	if i < 0 || strings.HasSuffix(value[:i], "/") {
		return rdf.IRI{}, false
	}
	parent := value[:i]
	if strings.Count(parent, "/") == 2 {
		parent += "/"
	}
	return rdf.IRI{Value: parent}, true
}

type authorization struct {
	subject  rdf.Term
	accessTo []rdf.IRI
	defaults []rdf.IRI
	agents   []string
	classes  []rdf.IRI
	modes    []rdf.IRI
}

// applies reports whether the authorization covers the resource.  When
// the ACL graph was inherited from an ancestor, only acl:default
// authorizations apply.
func (a *authorization) applies(id rdf.IRI, inherited bool) bool {
	if inherited {
		return len(a.defaults) > 0
	}
	if len(a.accessTo) == 0 {
		// An authorization in the resource's own ACL graph with
		// no explicit target covers that resource.
		return true
	}
	for _, target := range a.accessTo {
		if target == id {
			return true
		}
	}
	return false
}

func (a *authorization) matches(session trellis.Session) bool {
	for _, class := range a.classes {
		if class == trellis.FOAFAgent {
			return true
		}
	}
	if session.IsAnonymous() {
		return false
	}
	for _, agent := range a.agents {
		if agent == session.Agent {
			return true
		}
	}
	return false
}

func authorizations(acl []rdf.Quad) []*authorization {
	bySubject := map[string]*authorization{}
	ordered := []*authorization{}
	get := func(s rdf.Term) *authorization {
		key := s.String()
		if auth, ok := bySubject[key]; ok {
			return auth
		}
		auth := &authorization{subject: s}
		bySubject[key] = auth
		ordered = append(ordered, auth)
		return auth
	}
	for _, q := range acl {
		auth := get(q.S)
		switch q.P {
		case trellis.ACLAccessTo:
			if iri, ok := q.O.(rdf.IRI); ok {
				auth.accessTo = append(auth.accessTo, iri)
			}
		case trellis.ACLDefault:
			if iri, ok := q.O.(rdf.IRI); ok {
				auth.defaults = append(auth.defaults, iri)
			}
		case trellis.ACLAgent:
			if iri, ok := q.O.(rdf.IRI); ok {
				auth.agents = append(auth.agents, iri.Value)
			} else if lit, ok := q.O.(rdf.Literal); ok {
				auth.agents = append(auth.agents, lit.Lexical)
			}
		case trellis.ACLAgentClass:
			if iri, ok := q.O.(rdf.IRI); ok {
				auth.classes = append(auth.classes, iri)
			}
		case trellis.ACLMode:
			if iri, ok := q.O.(rdf.IRI); ok {
				auth.modes = append(auth.modes, iri)
			}
		}
	}
	return ordered
}
