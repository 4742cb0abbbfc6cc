// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRange(t *testing.T) {
	r := ParseRange("bytes=5-10")
	if assert.NotNil(t, r) {
		assert.Equal(t, int64(5), r.From)
		assert.Equal(t, int64(10), r.To)
		assert.Equal(t, "bytes=5-10", r.String())
	}

	for _, bad := range []string{
		"",
		"5-10",
		"bytes=5-10,12-14",
		"bytes=five-ten",
		"bytes=10-5",
		"bytes=7-7",
		"bytes=-3-1",
		"bytes=5-",
	} {
		assert.Nil(t, ParseRange(bad), bad)
	}
}

func TestParsePrefer(t *testing.T) {
	p := ParsePrefer(`return=representation; include="http://example.com/A http://example.com/B"`)
	if assert.NotNil(t, p) {
		assert.Equal(t, PreferRepresentation, p.Preference)
		assert.Equal(t, []string{"http://example.com/A", "http://example.com/B"}, p.Include)
		assert.Empty(t, p.Omit)
		assert.Equal(t, -1, p.Wait)
	}

	p = ParsePrefer(`return=minimal; omit="http://example.com/C"; handling=lenient; wait=30; respond-async`)
	if assert.NotNil(t, p) {
		assert.Equal(t, PreferMinimal, p.Preference)
		assert.Equal(t, []string{"http://example.com/C"}, p.Omit)
		assert.Equal(t, "lenient", p.Handling)
		assert.Equal(t, 30, p.Wait)
		assert.True(t, p.RespondAsync)
	}

	// Unrecognized return values parse, with no preference set.
	p = ParsePrefer("return=other")
	if assert.NotNil(t, p) {
		assert.Empty(t, p.Preference)
	}

	assert.Nil(t, ParsePrefer(""))
	assert.Nil(t, ParsePrefer(`include="unterminated`))
	assert.Nil(t, ParsePrefer("wait=soon"))
}

func TestPreferString(t *testing.T) {
	p := ParsePrefer(`return=representation; include="http://example.com/A"`)
	if assert.NotNil(t, p) {
		assert.Equal(t, `return=representation; include="http://example.com/A"`, p.String())
	}
}

func TestParseAcceptDatetime(t *testing.T) {
	a := ParseAcceptDatetime("Mon, 01 May 2017 13:43:22 GMT")
	if assert.NotNil(t, a) {
		assert.Equal(t, "2017-05-01T13:43:22Z", a.String())
	}

	// An unpadded day-of-month still parses.
	a = ParseAcceptDatetime("Mon, 1 May 2017 13:43:22 GMT")
	if assert.NotNil(t, a) {
		assert.Equal(t, "2017-05-01T13:43:22Z", a.String())
	}

	assert.Nil(t, ParseAcceptDatetime(""))
	assert.Nil(t, ParseAcceptDatetime("2017-05-01T13:43:22Z"))
	assert.Nil(t, ParseAcceptDatetime("not a date"))
}

func TestParseSlug(t *testing.T) {
	assert.Equal(t, "My_Resource_Name", ParseSlug("My Resource/Name?x=1#frag"))
	assert.Equal(t, "plain", ParseSlug("plain"))
	assert.Equal(t, "a_b", ParseSlug("a%20b"))
	assert.Equal(t, "trimmed", ParseSlug(" trimmed "))
	assert.Equal(t, "", ParseSlug("%zz"))
	assert.Equal(t, "", ParseSlug("???"))
	assert.Equal(t, "", ParseSlug("   "))
}

func TestParseDigest(t *testing.T) {
	d := ParseDigest("md5=HUXZLQLMuI/KZ5KDcJPcOA==", DefaultDigestAlgorithms)
	if assert.NotNil(t, d) {
		assert.Equal(t, "md5", d.Algorithm)
		assert.Equal(t, "HUXZLQLMuI/KZ5KDcJPcOA==", d.Value)
	}

	// Base64 padding '=' must survive the algorithm split.
	assert.Equal(t, "md5=HUXZLQLMuI/KZ5KDcJPcOA==", d.String())

	assert.Nil(t, ParseDigest("crc32=abcd", DefaultDigestAlgorithms))
	assert.Nil(t, ParseDigest("md5", DefaultDigestAlgorithms))
	assert.Nil(t, ParseDigest("", DefaultDigestAlgorithms))
}

func TestParseWantDigest(t *testing.T) {
	assert.Equal(t, "md5", ParseWantDigest("md5", DefaultDigestAlgorithms))
	assert.Equal(t, "sha-256", ParseWantDigest("sha-256;q=1.0, md5;q=0.5", DefaultDigestAlgorithms))
	assert.Equal(t, "md5", ParseWantDigest("crc32;q=1.0, md5;q=0.4", DefaultDigestAlgorithms))
	assert.Equal(t, "", ParseWantDigest("crc32", DefaultDigestAlgorithms))
	assert.Equal(t, "", ParseWantDigest("", DefaultDigestAlgorithms))
}

func TestParseAccept(t *testing.T) {
	ranges := ParseAccept("text/turtle")
	if assert.Len(t, ranges, 1) {
		assert.Equal(t, "text/turtle", ranges[0].MediaType())
		assert.True(t, ranges[0].Matches("text/turtle"))
		assert.False(t, ranges[0].Matches("application/ld+json"))
	}

	// Quality sorting, with specificity breaking ties.
	ranges = ParseAccept("*/*;q=0.1, application/ld+json;q=0.8, text/*;q=0.8")
	if assert.Len(t, ranges, 3) {
		assert.Equal(t, "application/ld+json", ranges[0].MediaType())
		assert.Equal(t, "text/*", ranges[1].MediaType())
		assert.Equal(t, "*/*", ranges[2].MediaType())
	}

	// Wildcards match anything of the right type.
	ranges = ParseAccept("text/*")
	if assert.Len(t, ranges, 1) {
		assert.True(t, ranges[0].Matches("text/turtle"))
		assert.False(t, ranges[0].Matches("application/ld+json"))
	}

	// Parameters are preserved.
	ranges = ParseAccept(`application/ld+json;profile="http://www.w3.org/ns/json-ld#expanded"`)
	if assert.Len(t, ranges, 1) {
		assert.Equal(t, "http://www.w3.org/ns/json-ld#expanded", ranges[0].Params["profile"])
	}

	// q=0 entries and garbage are dropped; empty yields nil.
	assert.Len(t, ParseAccept("text/turtle;q=0, application/ld+json"), 1)
	assert.Nil(t, ParseAccept(""))
	assert.Empty(t, ParseAccept("garbage"))
}

func TestParseLinks(t *testing.T) {
	links := ParseLinks(
		`<http://www.w3.org/ns/ldp#Container>; rel="type"`,
		`<http://example.com/timemap>; rel="timemap"; type="application/link-format"`,
	)
	if assert.Len(t, links, 2) {
		assert.Equal(t, "http://www.w3.org/ns/ldp#Container", links[0].URI)
		assert.Equal(t, "type", links[0].Rel())
		assert.Equal(t, "application/link-format", links[1].Params["type"])
	}

	// Comma-separated entries in a single value.
	links = ParseLinks(`<http://a.example/>; rel="a", <http://b.example/>; rel="b"`)
	assert.Len(t, links, 2)

	// Malformed entries are skipped, not fatal.
	links = ParseLinks(`garbage, <http://a.example/>; rel="ok"`)
	if assert.Len(t, links, 1) {
		assert.Equal(t, "ok", links[0].Rel())
	}
}

func TestFormatLink(t *testing.T) {
	assert.Equal(t, `<http://a.example/>; rel="type"`, FormatLink("http://a.example/", "rel", "type"))
	assert.Equal(t, `<http://a.example/>`, FormatLink("http://a.example/"))
}
