// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"net/http"
	"testing"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/stretchr/testify/assert"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// stubAccess grants a fixed mode set to every request.
type stubAccess struct {
	modes trellis.ModeSet
}

func (s stubAccess) Modes(rdf.IRI, trellis.Session) trellis.ModeSet { return s.modes }

// headerPrincipal reads the agent from a test header.
func headerPrincipal(req *http.Request) trellis.Session {
	return trellis.Session{Agent: req.Header.Get("X-Test-Agent")}
}

func readOnlyEnv(t *testing.T) *env {
	return newEnv(t, func(cfg *Config, svcs *Services) {
		cfg.Principal = headerPrincipal
		svcs.Access = stubAccess{modes: trellis.ModeSet{trellis.AccessRead: true}}
	})
}

func TestAnonymousWriteUnauthorized(t *testing.T) {
	e := readOnlyEnv(t)

	w := e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleOne)
	assert.Equal(t, 401, w.Code)
	assert.Equal(t, `Bearer realm="trellis"`, w.Header().Get("WWW-Authenticate"))
}

func TestAuthenticatedWriteForbidden(t *testing.T) {
	e := readOnlyEnv(t)

	w := e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleOne,
		"X-Test-Agent", "https://alice.example/i")
	assert.Equal(t, 403, w.Code)
	assert.Contains(t, w.Body.String(), "alice.example")
}

func TestReadGrantedByMode(t *testing.T) {
	e := readOnlyEnv(t)

	// Reads pass the gate; a 404 proves the handler ran.
	assert.Equal(t, 404, e.do(http.MethodGet, "/r1", "", "").Code)
	assert.Equal(t, 200, e.do(http.MethodGet, "/", "", "").Code)
	assert.Equal(t, 204, e.do(http.MethodOptions, "/", "", "").Code)
}

func TestACLRequiresControl(t *testing.T) {
	e := readOnlyEnv(t)

	// Reading an ACL document takes acl:Control, not acl:Read.
	w := e.do(http.MethodGet, "/?ext=acl", "", "", "X-Test-Agent", "https://alice.example/i")
	assert.Equal(t, 403, w.Code)

	control := newEnv(t, func(cfg *Config, svcs *Services) {
		svcs.Access = stubAccess{modes: trellis.ModeSet{trellis.AccessControl: true}}
	})
	assert.Equal(t, 200, control.do(http.MethodGet, "/?ext=acl", "", "").Code)
}

func TestAppendModeAllowsPatch(t *testing.T) {
	e := newEnv(t, func(cfg *Config, svcs *Services) {
		svcs.Access = stubAccess{modes: trellis.ModeSet{
			trellis.AccessRead:   true,
			trellis.AccessAppend: true,
		}}
	})

	// acl:Append admits PATCH through the gate (the 404 comes from
	// the handler itself), while PUT still needs acl:Write.
	w := e.do(http.MethodPatch, "/r1", ldpdata.ApplicationSparql,
		`INSERT DATA { <> <http://purl.org/dc/terms/title> "x" }`)
	assert.Equal(t, 404, w.Code)
	assert.Equal(t, 401, e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleOne).Code)
}

func TestDeniedRequestLeavesNoTrace(t *testing.T) {
	e := readOnlyEnv(t)

	assert.Equal(t, 401, e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleOne).Code)
	assert.Equal(t, 404, e.do(http.MethodGet, "/r1", "", "").Code)
	assert.Empty(t, e.events.events)
}
