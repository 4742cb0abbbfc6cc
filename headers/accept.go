// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package headers

import (
	"mime"
	"sort"
	"strconv"
	"strings"
)

// MediaRange is one entry of an Accept header, in client preference
// order after sorting.
type MediaRange struct {
	Type    string
	Subtype string
	Q       float64
	Params  map[string]string
}

// MediaType returns the range's type/subtype form.
func (m MediaRange) MediaType() string {
	return m.Type + "/" + m.Subtype
}

// Matches reports whether the range accepts the concrete media type,
// honoring */* and type/* wildcards.
func (m MediaRange) Matches(mediaType string) bool {
	t, sub, ok := strings.Cut(mediaType, "/")
	if !ok {
		return false
	}
	if m.Type != "*" && !strings.EqualFold(m.Type, t) {
		return false
	}
	return m.Subtype == "*" || strings.EqualFold(m.Subtype, sub)
}

// ParseAccept parses an Accept header into media ranges sorted by
// descending quality, following RFC 7231 section 5.3.  Entries that do
// not parse as media types are dropped; an empty header yields nil
// (the caller applies its default).  The sort is stable, so equal-q
// entries keep the client's order, and more specific ranges win over
// wildcards at the same q.
func ParseAccept(value string) []MediaRange {
	var ranges []MediaRange
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		mediaType, params, err := mime.ParseMediaType(entry)
		if err != nil {
			continue
		}
		t, sub, ok := strings.Cut(mediaType, "/")
		if !ok {
			continue
		}
		q := 1.0
		if qs, haveQ := params["q"]; haveQ {
			q, err = strconv.ParseFloat(qs, 64)
			if err != nil || q < 0.0 || q > 1.0 {
				continue
			}
			delete(params, "q")
		}
		if q == 0.0 {
			continue
		}
		ranges = append(ranges, MediaRange{Type: t, Subtype: sub, Q: q, Params: params})
	}
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].Q != ranges[j].Q {
			return ranges[i].Q > ranges[j].Q
		}
		return specificity(ranges[i]) > specificity(ranges[j])
	})
	return ranges
}

func specificity(m MediaRange) int {
	switch {
	case m.Type == "*":
		return 0
	case m.Subtype == "*":
		return 1
	default:
		return 2
	}
}
