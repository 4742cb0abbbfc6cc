// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellis-ldp/go-trellis/ldpdata"
)

// twoVersions creates /r1 with two states and returns their creation
// instants.
func twoVersions(e *env) (first, second time.Time) {
	first = e.clock.Now().UTC()
	e.create("/r1", turtleOne)
	second = e.clock.Now().UTC()
	require.Equal(e.t, 204, e.do(http.MethodPut, "/r1", ldpdata.TextTurtle, turtleTwo).Code)
	e.clock.Add(time.Minute)
	return first, second
}

func versionTarget(instant time.Time) string {
	return fmt.Sprintf("/r1?version=%d", instant.UnixMilli())
}

func TestTimemapLinkFormat(t *testing.T) {
	e := newEnv(t)
	first, second := twoVersions(e)

	w := e.do(http.MethodGet, "/r1?ext=timemap", "", "")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, ldpdata.ApplicationLinkFormat, w.Header().Get("Content-Type"))
	assert.Equal(t, "GET, HEAD, OPTIONS", w.Header().Get("Allow"))

	body := w.Body.String()
	assert.Contains(t, body, `<`+testBase+`/r1>; rel="original timegate"`)
	assert.Contains(t, body, `rel="self"`)
	assert.Contains(t, body, testBase+versionTarget(first))
	assert.Contains(t, body, testBase+versionTarget(second))
	assert.Contains(t, body, `datetime="`+httpDate(first)+`"`)

	// The explicit media type negotiates the same way.
	w = e.do(http.MethodGet, "/r1?ext=timemap", "", "", "Accept", ldpdata.ApplicationLinkFormat)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, ldpdata.ApplicationLinkFormat, w.Header().Get("Content-Type"))
}

func TestTimemapRDF(t *testing.T) {
	e := newEnv(t)
	first, _ := twoVersions(e)

	w := e.do(http.MethodGet, "/r1?ext=timemap", "", "", "Accept", ldpdata.ApplicationNTriples)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, ldpdata.ApplicationNTriples, w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "http://mementoweb.org/ns#TimeMap")
	assert.Contains(t, body, "http://mementoweb.org/ns#Memento")
	assert.Contains(t, body, "http://mementoweb.org/ns#OriginalResource")
	assert.Contains(t, body, testBase+versionTarget(first))
}

func TestTimemapMissingResource(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, 404, e.do(http.MethodGet, "/nothing?ext=timemap", "", "").Code)
}

func TestTimegateRedirect(t *testing.T) {
	e := newEnv(t)
	first, second := twoVersions(e)

	w := e.do(http.MethodGet, "/r1", "", "", "Accept-Datetime", httpDate(first))
	assert.Equal(t, 302, w.Code)
	assert.Equal(t, testBase+versionTarget(first), w.Header().Get("Location"))
	assert.Equal(t, "Accept-Datetime", w.Header().Get("Vary"))
	assert.Contains(t, strings.Join(w.Header().Values("Link"), ", "), `rel="memento"`)

	// An instant between versions resolves to the older one; a later
	// instant resolves to the newest.
	between := httpDate(first.Add(30 * time.Second))
	w = e.do(http.MethodGet, "/r1", "", "", "Accept-Datetime", between)
	assert.Equal(t, 302, w.Code)
	assert.Equal(t, testBase+versionTarget(first), w.Header().Get("Location"))

	later := httpDate(second.Add(time.Hour))
	w = e.do(http.MethodGet, "/r1", "", "", "Accept-Datetime", later)
	assert.Equal(t, 302, w.Code)
	assert.Equal(t, testBase+versionTarget(second), w.Header().Get("Location"))
}

func TestTimegateBeforeCreation(t *testing.T) {
	e := newEnv(t)
	twoVersions(e)

	w := e.do(http.MethodGet, "/r1", "", "", "Accept-Datetime", "Mon, 01 Jan 1900 00:00:00 GMT")
	assert.Equal(t, 404, w.Code)
}

func TestVersionFetch(t *testing.T) {
	e := newEnv(t)
	first, _ := twoVersions(e)

	w := e.do(http.MethodGet, versionTarget(first), "", "", "Accept", ldpdata.ApplicationNTriples)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, httpDate(first), w.Header().Get("Memento-Datetime"))
	assert.Contains(t, w.Body.String(), `"One"`)

	// The live resource shows the current state, with no
	// Memento-Datetime.
	w = e.do(http.MethodGet, "/r1", "", "", "Accept", ldpdata.ApplicationNTriples)
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, w.Header().Get("Memento-Datetime"))
	assert.Contains(t, w.Body.String(), `"Two"`)

	// An explicit version outruns datetime negotiation.
	w = e.do(http.MethodGet, versionTarget(first), "", "",
		"Accept", ldpdata.ApplicationNTriples,
		"Accept-Datetime", httpDate(e.clock.Now()))
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"One"`)
}

func TestVersionFetchMissing(t *testing.T) {
	e := newEnv(t)
	twoVersions(e)

	// No version existed yet at the epoch.
	assert.Equal(t, 404, e.do(http.MethodGet, "/r1?version=0", "", "").Code)
}

func TestVersionsOfDeletedResource(t *testing.T) {
	e := newEnv(t)
	first, _ := twoVersions(e)
	require.Equal(t, 204, e.do(http.MethodDelete, "/r1", "", "").Code)
	e.clock.Add(time.Minute)

	// The mementos survive the delete.
	w := e.do(http.MethodGet, versionTarget(first), "", "", "Accept", ldpdata.ApplicationNTriples)
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"One"`)

	// An instant after the delete resolves to the last real version,
	// never the tombstone.
	w = e.do(http.MethodGet, versionTarget(e.clock.Now().UTC()), "", "",
		"Accept", ldpdata.ApplicationNTriples)
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"Two"`)
}
