// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package headers

import (
	"strconv"
	"strings"
)

// Range is a single contiguous byte range.  Multi-range requests are
// not supported and parse as invalid.
type Range struct {
	From int64
	To   int64
}

// ParseRange parses a Range header of the form "bytes=from-to".
// Returns nil for anything else: missing "bytes=" prefix, multiple
// ranges, non-numeric bounds, or To <= From.
func ParseRange(value string) *Range {
	if value == "" {
		return nil
	}
	spec, ok := strings.CutPrefix(value, "bytes=")
	if !ok {
		return nil
	}
	if strings.Contains(spec, ",") {
		return nil
	}
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return nil
	}
	from, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return nil
	}
	to, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return nil
	}
	if to <= from || from < 0 {
		return nil
	}
	return &Range{From: from, To: to}
}

func (r *Range) String() string {
	return "bytes=" + strconv.FormatInt(r.From, 10) + "-" + strconv.FormatInt(r.To, 10)
}
