// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

func TestNotAcceptable(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)

	w := e.do(http.MethodGet, "/r1", "", "", "Accept", "text/html")
	assert.Equal(t, 406, w.Code)
}

func TestDefaultSyntaxIsTurtle(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)

	w := e.do(http.MethodGet, "/r1", "", "")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, ldpdata.TextTurtle, w.Header().Get("Content-Type"))

	// */* also resolves to the first offered syntax.
	w = e.do(http.MethodGet, "/r1", "", "", "Accept", "*/*")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, ldpdata.TextTurtle, w.Header().Get("Content-Type"))
}

func TestAcceptQualityOrdering(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)

	w := e.do(http.MethodGet, "/r1", "", "",
		"Accept", "text/turtle;q=0.3, application/n-triples;q=0.9")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, ldpdata.ApplicationNTriples, w.Header().Get("Content-Type"))
}

func TestBinaryContent(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPut, "/file", "text/plain", "0123456789")
	require.Equal(t, 201, w.Code)

	w = e.do(http.MethodGet, "/file", "", "")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, "0123456789", w.Body.String())
	// Binary-negotiated responses take a weak validator.
	assert.True(t, strings.HasPrefix(w.Header().Get("ETag"), `W/"`))

	links := w.Header().Values("Link")
	assert.Contains(t, links, typeLink(trellis.LDPNonRDFSource))
}

func TestBinaryRange(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, 201, e.do(http.MethodPut, "/file", "text/plain", "0123456789").Code)

	w := e.do(http.MethodGet, "/file", "", "", "Range", "bytes=2-5")
	assert.Equal(t, 206, w.Code)
	assert.Equal(t, "2345", w.Body.String())
	assert.Equal(t, "bytes 2-5/10", w.Header().Get("Content-Range"))

	w = e.do(http.MethodGet, "/file", "", "", "Range", "bytes=5-2")
	assert.Equal(t, 400, w.Code)
}

func TestBinaryWantDigest(t *testing.T) {
	e := newEnv(t)
	body := "0123456789"
	require.Equal(t, 201, e.do(http.MethodPut, "/file", "text/plain", body).Code)
	expected, err := ldpdata.HashDigest("md5", []byte(body))
	require.NoError(t, err)

	w := e.do(http.MethodGet, "/file", "", "", "Want-Digest", "md5")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "md5="+expected, w.Header().Get("Digest"))

	// An unsupported algorithm is quietly skipped.
	w = e.do(http.MethodGet, "/file", "", "", "Want-Digest", "crc32")
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, w.Header().Get("Digest"))
}

func TestBinaryDescription(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, 201, e.do(http.MethodPut, "/file", "text/plain", "0123456789").Code)

	// Asking for an RDF syntax yields the description instead of the
	// bytes.
	w := e.do(http.MethodGet, "/file", "", "", "Accept", ldpdata.ApplicationNTriples)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, ldpdata.ApplicationNTriples, w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "ldp#NonRDFSource")
	assert.Contains(t, body, `"text/plain"`)
	assert.Contains(t, body, `"10"`)
	assert.NotContains(t, body, "0123456789")
}

func TestPreferMinimalContainer(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)

	w := e.do(http.MethodGet, "/", "", "",
		"Accept", ldpdata.ApplicationNTriples,
		"Prefer", `return=representation; include="`+trellis.PreferMinimalContainer.Value+`"`)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "return=representation", w.Header().Get("Preference-Applied"))
	assert.NotContains(t, w.Body.String(), "ldp#contains")

	// Omitting the containment graph directly works the same way.
	w = e.do(http.MethodGet, "/", "", "",
		"Accept", ldpdata.ApplicationNTriples,
		"Prefer", `return=representation; omit="`+trellis.PreferContainment.Value+`"`)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "return=representation", w.Header().Get("Preference-Applied"))
	assert.NotContains(t, w.Body.String(), "ldp#contains")
}

func TestPreferUnknownTokenIgnored(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)

	w := e.do(http.MethodGet, "/", "", "",
		"Accept", ldpdata.ApplicationNTriples,
		"Prefer", `return=representation; include="http://example.com/Unknown"`)
	assert.Equal(t, 200, w.Code)
	assert.Empty(t, w.Header().Get("Preference-Applied"))
	assert.Contains(t, w.Body.String(), "ldp#contains")
}

func TestUnsupportedRequestBodyType(t *testing.T) {
	e := newEnv(t)
	e.create("/r1", turtleOne)

	// Replacing an RDF source requires an RDF body.
	w := e.do(http.MethodPut, "/r1", "text/csv", "a,b,c")
	assert.Equal(t, 415, w.Code)
}
