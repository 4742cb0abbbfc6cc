// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package headers

import (
	"net/url"
	"regexp"
	"strings"
)

var slugSeparators = regexp.MustCompile(`[\s/]+`)

// ParseSlug decodes a Slug header into a path segment: URL-decodes the
// value, strips any trailing fragment or query, and collapses
// whitespace and slash runs into single underscores.  Returns the
// empty string when decoding fails or nothing usable remains.
func ParseSlug(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return ""
	}
	if i := strings.IndexByte(decoded, '#'); i >= 0 {
		decoded = decoded[:i]
	}
	if i := strings.IndexByte(decoded, '?'); i >= 0 {
		decoded = decoded[:i]
	}
	decoded = slugSeparators.ReplaceAllString(decoded, "_")
	return strings.Trim(decoded, "_")
}
