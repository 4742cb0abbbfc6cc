// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package webac

import (
	"testing"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellis-ldp/go-trellis/memory"
	"github.com/trellis-ldp/go-trellis/trellis"
)

const base = "http://acl.test"

func iri(path string) rdf.IRI {
	if path == "" {
		return rdf.IRI{Value: base + "/"}
	}
	return rdf.IRI{Value: base + "/" + path}
}

// createResource stores a resource, optionally with an ACL graph.
func createResource(t *testing.T, store *memory.Store, id rdf.IRI, container *rdf.IRI, acl []rdf.Quad) {
	t.Helper()
	d := trellis.NewDataset()
	defer d.Close()
	require.NoError(t, d.AddAll(acl))
	require.NoError(t, store.Create(trellis.Metadata{
		Identifier:       id,
		InteractionModel: trellis.ModelRDFSource,
		Container:        container,
		Revision:         "r1",
	}, d))
}

// grant builds one authorization in a resource's ACL graph.
func grant(resource, auth rdf.IRI, modes []rdf.IRI, extra ...rdf.Quad) []rdf.Quad {
	quads := []rdf.Quad{
		{S: auth, P: trellis.RDFType, O: trellis.ACLAuthorization, G: trellis.PreferAccessControl},
		{S: auth, P: trellis.ACLAccessTo, O: resource, G: trellis.PreferAccessControl},
	}
	for _, m := range modes {
		quads = append(quads, rdf.Quad{S: auth, P: trellis.ACLMode, O: m, G: trellis.PreferAccessControl})
	}
	return append(quads, extra...)
}

func TestAdminsHoldEverything(t *testing.T) {
	store := memory.New()
	engine := New(store, []string{"https://admin.example/i"})

	modes := engine.Modes(iri("anything"), trellis.Session{Agent: "https://admin.example/i"})
	assert.True(t, modes.Has(trellis.AccessControl))
	assert.True(t, modes.Has(trellis.AccessWrite))
}

func TestNoACLMeansOpen(t *testing.T) {
	store := memory.New()
	store.EnsureRoot(iri(""))
	root := iri("")
	createResource(t, store, iri("open"), &root, nil)
	engine := New(store, nil)

	modes := engine.Modes(iri("open"), trellis.Session{})
	assert.True(t, modes.Has(trellis.AccessRead))
	assert.True(t, modes.Has(trellis.AccessWrite))
}

func TestAgentGrant(t *testing.T) {
	store := memory.New()
	id := iri("private")
	auth := rdf.IRI{Value: id.Value + "?ext=acl#auth"}
	acl := grant(id, auth, []rdf.IRI{trellis.ACLRead},
		rdf.Quad{S: auth, P: trellis.ACLAgent, O: rdf.IRI{Value: "https://alice.example/i"}, G: trellis.PreferAccessControl})
	createResource(t, store, id, nil, acl)
	engine := New(store, nil)

	alice := engine.Modes(id, trellis.Session{Agent: "https://alice.example/i"})
	assert.True(t, alice.Has(trellis.AccessRead))
	assert.False(t, alice.Has(trellis.AccessWrite))

	bob := engine.Modes(id, trellis.Session{Agent: "https://bob.example/i"})
	assert.False(t, bob.Has(trellis.AccessRead))

	anonymous := engine.Modes(id, trellis.Session{})
	assert.False(t, anonymous.Has(trellis.AccessRead))
}

func TestAgentClassGrantsEveryone(t *testing.T) {
	store := memory.New()
	id := iri("public")
	auth := rdf.IRI{Value: id.Value + "?ext=acl#auth"}
	acl := grant(id, auth, []rdf.IRI{trellis.ACLRead},
		rdf.Quad{S: auth, P: trellis.ACLAgentClass, O: trellis.FOAFAgent, G: trellis.PreferAccessControl})
	createResource(t, store, id, nil, acl)
	engine := New(store, nil)

	anonymous := engine.Modes(id, trellis.Session{})
	assert.True(t, anonymous.Has(trellis.AccessRead))
	assert.False(t, anonymous.Has(trellis.AccessWrite))
}

func TestInheritanceRequiresDefault(t *testing.T) {
	store := memory.New()
	root := iri("")
	rootAuth := rdf.IRI{Value: root.Value + "?ext=acl#auth"}
	acl := grant(root, rootAuth, []rdf.IRI{trellis.ACLRead, trellis.ACLWrite},
		rdf.Quad{S: rootAuth, P: trellis.ACLAgent, O: rdf.IRI{Value: "https://alice.example/i"}, G: trellis.PreferAccessControl},
		rdf.Quad{S: rootAuth, P: trellis.ACLDefault, O: root, G: trellis.PreferAccessControl})
	createResource(t, store, root, nil, acl)
	createResource(t, store, iri("child"), &root, nil)
	engine := New(store, nil)

	// The child has no ACL of its own, so the root's default
	// authorization applies.
	alice := engine.Modes(iri("child"), trellis.Session{Agent: "https://alice.example/i"})
	assert.True(t, alice.Has(trellis.AccessWrite))

	bob := engine.Modes(iri("child"), trellis.Session{Agent: "https://bob.example/i"})
	assert.False(t, bob.Has(trellis.AccessRead))
}

func TestNonDefaultDoesNotInherit(t *testing.T) {
	store := memory.New()
	root := iri("")
	rootAuth := rdf.IRI{Value: root.Value + "?ext=acl#auth"}
	// acl:accessTo only: covers the root, not its children.
	acl := grant(root, rootAuth, []rdf.IRI{trellis.ACLRead},
		rdf.Quad{S: rootAuth, P: trellis.ACLAgentClass, O: trellis.FOAFAgent, G: trellis.PreferAccessControl})
	createResource(t, store, root, nil, acl)
	createResource(t, store, iri("child"), &root, nil)
	engine := New(store, nil)

	assert.True(t, engine.Modes(root, trellis.Session{}).Has(trellis.AccessRead))
	assert.False(t, engine.Modes(iri("child"), trellis.Session{}).Has(trellis.AccessRead))
}

func TestMissingTargetInheritsByPath(t *testing.T) {
	store := memory.New()
	root := iri("")
	rootAuth := rdf.IRI{Value: root.Value + "?ext=acl#auth"}
	acl := grant(root, rootAuth, []rdf.IRI{trellis.ACLWrite},
		rdf.Quad{S: rootAuth, P: trellis.ACLAgent, O: rdf.IRI{Value: "https://alice.example/i"}, G: trellis.PreferAccessControl},
		rdf.Quad{S: rootAuth, P: trellis.ACLDefault, O: root, G: trellis.PreferAccessControl})
	createResource(t, store, root, nil, acl)
	engine := New(store, nil)

	// Nothing exists at the deep path yet; the walk falls back to
	// trimming path segments until it reaches the root container.
	alice := engine.Modes(iri("a/b/new"), trellis.Session{Agent: "https://alice.example/i"})
	assert.True(t, alice.Has(trellis.AccessWrite))

	bob := engine.Modes(iri("a/b/new"), trellis.Session{Agent: "https://bob.example/i"})
	assert.False(t, bob.Has(trellis.AccessWrite))
}

func TestParentIRI(t *testing.T) {
	cases := []struct {
		in, out string
		ok      bool
	}{
		{base + "/a/b", base + "/a", true},
		{base + "/a", base + "/", true},
		{base + "/", "", false},
		{"urn:nothing", "", false},
	}
	for _, c := range cases {
		parent, ok := parentIRI(rdf.IRI{Value: c.in})
		assert.Equal(t, c.ok, ok, c.in)
		if ok {
			assert.Equal(t, c.out, parent.Value, c.in)
		}
	}
}
