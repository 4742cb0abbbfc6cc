// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trellis-ldp/go-trellis/ldpdata"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// etagFor derives the cache validator for one representation of a
// resource: a strong tag over the revision token, so If-Match works
// against the advertised value, or a weak tag over the identifier and
// modification instant for binary-negotiated responses.
func etagFor(res trellis.Resource, binary bool) string {
	if binary {
		return fmt.Sprintf(`W/"%x"`, md5.Sum([]byte(res.Identifier().Value+res.Modified().UTC().Format(time.RFC3339Nano))))
	}
	return fmt.Sprintf(`"%x"`, md5.Sum([]byte(res.Revision())))
}

// checkCache evaluates the conditional request headers against the
// resource state, in the RFC 7232 precedence order.  A nil return
// means the request proceeds; ErrNotModified and ErrPreconditionFailed
// short-circuit it.
func (h *resourceHandler) checkCache(ctx *requestContext, res trellis.Resource, etag string) error {
	modified := res.Modified()

	if match := ctx.header.Get("If-Match"); match != "" {
		if !etagMatches(match, etag, false) {
			return ldpdata.ErrPreconditionFailed{Header: "If-Match"}
		}
	} else if since := ctx.header.Get("If-Unmodified-Since"); since != "" {
		if t, ok := parseHTTPDate(since); ok && modified.Truncate(time.Second).After(t) {
			return ldpdata.ErrPreconditionFailed{Header: "If-Unmodified-Since"}
		}
	}

	readOnly := ctx.method == http.MethodGet || ctx.method == http.MethodHead
	if match := ctx.header.Get("If-None-Match"); match != "" {
		if etagMatches(match, etag, true) {
			if readOnly {
				return ldpdata.ErrNotModified{ETag: etag, Modified: modified}
			}
			return ldpdata.ErrPreconditionFailed{Header: "If-None-Match"}
		}
	} else if since := ctx.header.Get("If-Modified-Since"); since != "" && readOnly {
		if t, ok := parseHTTPDate(since); ok && !modified.Truncate(time.Second).After(t) {
			return ldpdata.ErrNotModified{ETag: etag, Modified: modified}
		}
	}
	return nil
}

// checkRequiredPreconditions enforces the RequirePreconditions setting
// for writes against existing state.
func (h *resourceHandler) checkRequiredPreconditions(ctx *requestContext) error {
	if !h.cfg.RequirePreconditions {
		return nil
	}
	if ctx.header.Get("If-Match") == "" && ctx.header.Get("If-Unmodified-Since") == "" {
		return ldpdata.ErrPreconditionRequired{}
	}
	return nil
}

// etagMatches tests an If-Match/If-None-Match header value against an
// entity tag.  The strong comparison never matches a weak validator.
func etagMatches(header, etag string, weak bool) bool {
	strippedTag := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		isWeak := strings.HasPrefix(candidate, "W/") || strings.HasPrefix(etag, "W/")
		if !weak && isWeak {
			continue
		}
		if strings.TrimPrefix(candidate, "W/") == strippedTag {
			return true
		}
	}
	return false
}

// parseHTTPDate accepts the RFC 7231 date formats.  Malformed values
// are ignored rather than rejected, per the HTTP caching rules.
func parseHTTPDate(value string) (time.Time, bool) {
	for _, layout := range []string{http.TimeFormat, time.RFC850, time.ANSIC} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	logrus.WithFields(logrus.Fields{"value": value}).Debug("Ignoring malformed HTTP date")
	return time.Time{}, false
}
