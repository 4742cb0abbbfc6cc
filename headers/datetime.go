// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package headers

import "time"

// Accept-Datetime values arrive in RFC 1123 form, sometimes with an
// unpadded day-of-month.
var datetimeLayouts = []string{
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC1123Z,
}

// AcceptDatetime is a parsed Accept-Datetime header, the Memento
// TimeGate request hook.
type AcceptDatetime struct {
	Instant time.Time
}

// ParseAcceptDatetime parses an Accept-Datetime value.  Returns nil on
// any unparsable date.
func ParseAcceptDatetime(value string) *AcceptDatetime {
	if value == "" {
		return nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &AcceptDatetime{Instant: t.UTC()}
		}
	}
	return nil
}

// String renders the instant as an RFC 3339 UTC timestamp.
func (a *AcceptDatetime) String() string {
	return a.Instant.UTC().Format(time.RFC3339)
}
