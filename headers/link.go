// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package headers

import "strings"

// Link is one parsed Link header entry (RFC 8288).
type Link struct {
	URI    string
	Params map[string]string
}

// Rel returns the entry's rel parameter.
func (l Link) Rel() string {
	return l.Params["rel"]
}

// ParseLinks parses Link header values.  Entries that do not follow
// the <uri>; param=value shape are skipped rather than failing the
// whole header.
func ParseLinks(values ...string) []Link {
	var links []Link
	for _, value := range values {
		for _, entry := range splitQuoted(value, ',') {
			entry = strings.TrimSpace(entry)
			if !strings.HasPrefix(entry, "<") {
				continue
			}
			end := strings.IndexByte(entry, '>')
			if end < 0 {
				continue
			}
			link := Link{URI: entry[1:end], Params: map[string]string{}}
			for _, param := range strings.Split(entry[end+1:], ";") {
				key, val, ok := strings.Cut(strings.TrimSpace(param), "=")
				if !ok {
					continue
				}
				val, quoted := unquote(strings.TrimSpace(val))
				if !quoted {
					continue
				}
				link.Params[strings.ToLower(strings.TrimSpace(key))] = val
			}
			links = append(links, link)
		}
	}
	return links
}

// FormatLink renders one Link header entry.
func FormatLink(uri string, params ...string) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(uri)
	b.WriteByte('>')
	for i := 0; i+1 < len(params); i += 2 {
		b.WriteString("; ")
		b.WriteString(params[i])
		b.WriteString(`="`)
		b.WriteString(params[i+1])
		b.WriteByte('"')
	}
	return b.String()
}
