// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellis-ldp/go-trellis/headers"
	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

func TestEtagMatches(t *testing.T) {
	cases := []struct {
		header string
		etag   string
		weak   bool
		want   bool
	}{
		{"*", `"abc"`, false, true},
		{`"abc"`, `"abc"`, false, true},
		{`"abc"`, `"xyz"`, false, false},
		{`W/"abc"`, `"abc"`, false, false},
		{`"abc"`, `W/"abc"`, false, false},
		{`W/"abc"`, `W/"abc"`, true, true},
		{`"abc"`, `W/"abc"`, true, true},
		{`"x", "abc"`, `"abc"`, false, true},
		{`"x", "y"`, `"abc"`, true, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, etagMatches(c.header, c.etag, c.weak),
			"header %v etag %v weak %v", c.header, c.etag, c.weak)
	}
}

func TestConditionalGet(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)

	w := e.do(http.MethodGet, "/r1", "", "")
	require.Equal(t, 200, w.Code)
	etag := w.Header().Get("ETag")
	lastModified := w.Header().Get("Last-Modified")

	w = e.do(http.MethodGet, "/r1", "", "", "If-None-Match", etag)
	assert.Equal(t, 304, w.Code)
	assert.Equal(t, etag, w.Header().Get("ETag"))
	assert.Empty(t, w.Body.String())

	w = e.do(http.MethodGet, "/r1", "", "", "If-Modified-Since", lastModified)
	assert.Equal(t, 304, w.Code)

	// A malformed date is ignored, not an error.
	w = e.do(http.MethodGet, "/r1", "", "", "If-Modified-Since", "whenever")
	assert.Equal(t, 200, w.Code)
}

func TestConditionalGetAfterChange(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)
	staleTag := e.do(http.MethodGet, "/r1", "", "").Header().Get("ETag")
	staleDate := e.do(http.MethodGet, "/r1", "", "").Header().Get("Last-Modified")

	require.Equal(t, 204, e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleTwo).Code)
	e.clock.Add(time.Minute)

	assert.Equal(t, 200, e.do(http.MethodGet, "/r1", "", "", "If-None-Match", staleTag).Code)
	assert.Equal(t, 200, e.do(http.MethodGet, "/r1", "", "", "If-Modified-Since", staleDate).Code)
}

func TestPutWithAdvertisedEtag(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)

	etag := e.do(http.MethodGet, "/r1", "", "").Header().Get("ETag")
	require.True(t, strings.HasPrefix(etag, `"`), "expected a strong validator, got %v", etag)

	// If-Match with the advertised tag authorizes the replace.
	w := e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleTwo, "If-Match", etag)
	assert.Equal(t, 204, w.Code)
	e.clock.Add(time.Minute)

	// The superseded tag no longer matches.
	w = e.do(http.MethodDelete, "/r1", "", "", "If-Match", etag)
	assert.Equal(t, 412, w.Code)

	fresh := e.do(http.MethodGet, "/r1", "", "").Header().Get("ETag")
	assert.Equal(t, 204, e.do(http.MethodDelete, "/r1", "", "", "If-Match", fresh).Code)
}

func TestPutPreconditionFailed(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)

	w := e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleTwo, "If-Match", `"not-the-tag"`)
	assert.Equal(t, 412, w.Code)

	// If-Unmodified-Since in the past fails once the state is newer.
	past := httpDate(e.clock.Now().Add(-30 * time.Minute))
	w = e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleTwo, "If-Unmodified-Since", past)
	assert.Equal(t, 412, w.Code)

	// The state is unchanged.
	w = e.do(http.MethodGet, "/r1", "", "", "Accept", ldpdata.ApplicationNTriples)
	assert.Contains(t, w.Body.String(), `"One"`)
}

func TestDeletePreconditionFailed(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)

	w := e.do(http.MethodDelete, "/r1", "", "", "If-Match", `"not-the-tag"`)
	assert.Equal(t, 412, w.Code)
	assert.Equal(t, 200, e.do(http.MethodGet, "/r1", "", "").Code)
}

func TestRequirePreconditions(t *testing.T) {
	e := newEnv(t, func(cfg *Config, _ *Services) {
		cfg.RequirePreconditions = true
	})
	e.create("/r1", turtleOne)

	w := e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleTwo)
	assert.Equal(t, 428, w.Code)
	assert.Contains(t, w.Header().Values("Link"),
		headers.FormatLink(trellis.PreconditionRequired.Value, "rel", constrainedByRel))

	// Creation needs no precondition, only replacement does.
	assert.Equal(t, 201, e.do(http.MethodPut, "/r2", ldpdata.TextTurtle, turtleTwo).Code)

	now := httpDate(e.clock.Now())
	w = e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleTwo, "If-Unmodified-Since", now)
	assert.Equal(t, 204, w.Code)

	// If-Match: * also satisfies the requirement.
	e.clock.Add(time.Minute)
	w = e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleOne, "If-Match", "*")
	assert.Equal(t, 204, w.Code)
}
