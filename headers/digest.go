// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package headers

import (
	"strconv"
	"strings"
)

// DefaultDigestAlgorithms lists the digest algorithms the server
// computes, in preference order.
var DefaultDigestAlgorithms = []string{"md5", "sha", "sha-256"}

// Digest is a parsed Digest header: one algorithm=base64value pair.
type Digest struct {
	Algorithm string
	Value     string
}

// ParseDigest parses a Digest header.  Only algorithms in supported
// are accepted; anything else returns nil.
func ParseDigest(value string, supported []string) *Digest {
	algorithm, digest, ok := strings.Cut(value, "=")
	if !ok || digest == "" {
		return nil
	}
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	for _, s := range supported {
		if algorithm == s {
			return &Digest{Algorithm: algorithm, Value: digest}
		}
	}
	return nil
}

func (d *Digest) String() string {
	return d.Algorithm + "=" + d.Value
}

// ParseWantDigest picks the highest-quality supported algorithm from a
// Want-Digest header.  Returns the empty string when nothing supported
// is requested.
func ParseWantDigest(value string, supported []string) string {
	best := ""
	bestQ := 0.0
	for _, part := range strings.Split(value, ",") {
		algorithm, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		algorithm = strings.ToLower(strings.TrimSpace(algorithm))
		q := 1.0
		if qs, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(qs, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		if q <= bestQ {
			continue
		}
		for _, s := range supported {
			if algorithm == s {
				best = algorithm
				bestQ = q
			}
		}
	}
	return best
}
