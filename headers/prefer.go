// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package headers

import (
	"strconv"
	"strings"
)

// Recognized Prefer return values.
const (
	PreferRepresentation = "representation"
	PreferMinimal        = "minimal"
)

// Prefer is a parsed Prefer header (RFC 7240 plus the LDP
// include/omit parameters).
type Prefer struct {
	// Preference is "representation", "minimal", or empty.  An
	// unrecognized return value parses as empty, not as an error.
	Preference string

	// Include and Omit are the IRI lists from the include/omit
	// parameters.
	Include []string
	Omit    []string

	// Handling is "lenient" or "strict", or empty.
	Handling string

	// Wait is the wait parameter in seconds; -1 when absent.
	Wait int

	// RespondAsync is set when the bare respond-async token is
	// present.
	RespondAsync bool
}

// ParsePrefer parses a Prefer header value.  Returns nil on malformed
// input: unterminated quotes or a non-integer wait value.
func ParsePrefer(value string) *Prefer {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	p := &Prefer{Wait: -1}
	for _, part := range splitQuoted(value, ';') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, hasVal := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if hasVal {
			var ok bool
			val, ok = unquote(strings.TrimSpace(val))
			if !ok {
				return nil
			}
		}
		switch key {
		case "return":
			if val == PreferRepresentation || val == PreferMinimal {
				p.Preference = val
			}
		case "include":
			p.Include = append(p.Include, strings.Fields(val)...)
		case "omit":
			p.Omit = append(p.Omit, strings.Fields(val)...)
		case "handling":
			if val == "lenient" || val == "strict" {
				p.Handling = val
			}
		case "wait":
			wait, err := strconv.Atoi(val)
			if err != nil {
				return nil
			}
			p.Wait = wait
		case "respond-async":
			p.RespondAsync = true
		}
	}
	return p
}

// String renders the canonical form used for Preference-Applied.
func (p *Prefer) String() string {
	var parts []string
	if p.Preference != "" {
		parts = append(parts, "return="+p.Preference)
	}
	if len(p.Include) > 0 {
		parts = append(parts, `include="`+strings.Join(p.Include, " ")+`"`)
	}
	if len(p.Omit) > 0 {
		parts = append(parts, `omit="`+strings.Join(p.Omit, " ")+`"`)
	}
	if p.Handling != "" {
		parts = append(parts, "handling="+p.Handling)
	}
	if p.Wait >= 0 {
		parts = append(parts, "wait="+strconv.Itoa(p.Wait))
	}
	if p.RespondAsync {
		parts = append(parts, "respond-async")
	}
	return strings.Join(parts, "; ")
}

// splitQuoted splits on sep outside double quotes.
func splitQuoted(s string, sep byte) []string {
	var parts []string
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// unquote strips balanced double quotes.  Reports false for an
// unterminated quote.
func unquote(s string) (string, bool) {
	if !strings.HasPrefix(s, `"`) {
		if strings.Contains(s, `"`) {
			return "", false
		}
		return s, true
	}
	if len(s) < 2 || !strings.HasSuffix(s, `"`) {
		return "", false
	}
	return s[1 : len(s)-1], true
}
