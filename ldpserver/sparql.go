// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

// A deliberately small SPARQL Update reader.  PATCH accepts only
// ground INSERT DATA and DELETE DATA operations; the triple blocks use
// Turtle syntax, so they are handed to the RDF I/O service rather than
// parsed here.  Anything beyond that subset (WHERE clauses, variables,
// graph management) is rejected.

import (
	"fmt"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// sparqlUpdate is a parsed PATCH body.
type sparqlUpdate struct {
	inserts []rdf.Triple
	deletes []rdf.Triple
}

// parseSparqlUpdate parses an application/sparql-update body limited
// to the INSERT DATA / DELETE DATA subset.
func (h *resourceHandler) parseSparqlUpdate(body string, base string) (*sparqlUpdate, error) {
	var prefixes []string
	update := &sparqlUpdate{}

	rest := strings.TrimSpace(body)
	for rest != "" {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ";"))
		if rest == "" {
			break
		}
		switch {
		case hasKeyword(rest, "PREFIX"):
			var decl string
			var err error
			decl, rest, err = cutPrefixDecl(rest)
			if err != nil {
				return nil, ldpdata.ErrBadRequest{Err: err}
			}
			prefixes = append(prefixes, decl)
		case hasKeyword(rest, "INSERT DATA"):
			block, tail, err := cutBlock(afterKeyword(rest, "INSERT DATA"))
			if err != nil {
				return nil, ldpdata.ErrBadRequest{Err: err}
			}
			triples, err := h.readBlock(prefixes, block, base)
			if err != nil {
				return nil, err
			}
			update.inserts = append(update.inserts, triples...)
			rest = tail
		case hasKeyword(rest, "DELETE DATA"):
			block, tail, err := cutBlock(afterKeyword(rest, "DELETE DATA"))
			if err != nil {
				return nil, ldpdata.ErrBadRequest{Err: err}
			}
			triples, err := h.readBlock(prefixes, block, base)
			if err != nil {
				return nil, err
			}
			update.deletes = append(update.deletes, triples...)
			rest = tail
		default:
			return nil, ldpdata.ErrBadRequest{
				Err: fmt.Errorf("unsupported SPARQL update operation near %q", head(rest)),
			}
		}
	}
	return update, nil
}

// readBlock parses one triple block as Turtle.  SPARQL PREFIX
// declarations are valid Turtle 1.1 directives, so they pass through
// unchanged.
func (h *resourceHandler) readBlock(prefixes []string, block, base string) ([]rdf.Triple, error) {
	doc := strings.Join(prefixes, "\n") + "\n" + block
	syntax := trellis.RDFSyntax{MediaType: ldpdata.TextTurtle, Format: rdf.FormatTurtle}
	triples, err := h.svcs.IO.Read(strings.NewReader(doc), base, syntax)
	if err != nil {
		return nil, ldpdata.ErrBadRequest{Err: fmt.Errorf("parsing update data block: %w", err)}
	}
	return triples, nil
}

// apply computes the patched graph: existing triples minus deletes
// plus inserts, dropping duplicates.
func (u *sparqlUpdate) apply(graph []rdf.Triple) []rdf.Triple {
	var out []rdf.Triple
	for _, t := range graph {
		if !containsTriple(u.deletes, t) && !containsTriple(out, t) {
			out = append(out, t)
		}
	}
	for _, t := range u.inserts {
		if !containsTriple(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func containsTriple(list []rdf.Triple, t rdf.Triple) bool {
	for _, other := range list {
		if other == t {
			return true
		}
	}
	return false
}

// hasKeyword tests for a case-insensitive keyword prefix, tolerating
// any whitespace run inside multi-word keywords.
func hasKeyword(s, keyword string) bool {
	_, ok := cutKeyword(s, keyword)
	return ok
}

// afterKeyword returns the input with the keyword prefix removed.
func afterKeyword(s, keyword string) string {
	rest, _ := cutKeyword(s, keyword)
	return rest
}

func cutKeyword(s, keyword string) (string, bool) {
	words := strings.Fields(keyword)
	for i, word := range words {
		if len(s) < len(word) || !strings.EqualFold(s[:len(word)], word) {
			return s, false
		}
		s = s[len(word):]
		if i+1 < len(words) {
			trimmed := strings.TrimLeft(s, " \t\r\n")
			if trimmed == s {
				return s, false
			}
			s = trimmed
		}
	}
	return s, true
}

// cutPrefixDecl splits one "PREFIX ns: <iri>" declaration off the
// front of the input.
func cutPrefixDecl(s string) (decl, rest string, err error) {
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return "", "", fmt.Errorf("unterminated PREFIX declaration near %q", head(s))
	}
	return s[:end+1], s[end+1:], nil
}

// cutBlock splits a braced triple block off the front of the input.
// Braces inside literals are not expected in the accepted subset.
func cutBlock(s string) (block, rest string, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return "", "", fmt.Errorf("expected a data block near %q", head(s))
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("unterminated data block near %q", head(s))
}

func head(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
