// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/trellis-ldp/go-trellis/headers"
	"github.com/trellis-ldp/go-trellis/trellis"
)

// Config carries the read-only protocol configuration.  It is loaded
// once at startup and never mutated afterwards.
type Config struct {
	// BaseURL is the server's external base URL, without a
	// trailing slash, e.g. "http://localhost:5980".
	BaseURL string

	// RequirePreconditions makes PUT/PATCH/DELETE against existing
	// resources demand If-Match or If-Unmodified-Since (428
	// otherwise).
	RequirePreconditions bool

	// PurgeBinariesOnDelete removes binary content when its
	// resource is deleted, instead of leaving it for the mementos.
	PurgeBinariesOnDelete bool

	// DigestAlgorithms lists the accepted Digest/Want-Digest
	// algorithms.  Empty means headers.DefaultDigestAlgorithms.
	DigestAlgorithms []string

	// Principal extracts the authenticated session from a request.
	// nil treats every request as anonymous.
	Principal func(*http.Request) trellis.Session
}

func (c Config) digestAlgorithms() []string {
	if len(c.DigestAlgorithms) == 0 {
		return headers.DefaultDigestAlgorithms
	}
	return c.DigestAlgorithms
}

// Services bundles the external collaborators the protocol layer
// drives.  Resources and IO are required; the rest may be nil, which
// disables the corresponding concern.
type Services struct {
	Resources   trellis.ResourceService
	Binaries    trellis.BinaryService
	IO          trellis.IOService
	Audit       trellis.AuditService
	Events      trellis.EventService
	Constraints []trellis.ConstraintService
	Access      trellis.AccessService
}

// NewRouter creates an HTTP handler serving the full LDP surface under
// the URL path root.  For more control, create a mux.Router and call
// PopulateRouter instead.
func NewRouter(cfg Config, svcs Services) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, cfg, svcs)
	return r
}

// PopulateRouter adds the LDP resource route to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to mount auxiliary routes such as /metrics next to the
// resource tree.
func PopulateRouter(r *mux.Router, cfg Config, svcs Services) {
	h := &resourceHandler{cfg: cfg, svcs: svcs}
	r.PathPrefix("/").Name("resource").Handler(h)
}

// resourceHandler holds the persistent state of the LDP protocol
// layer.  One instance serves every resource path.
type resourceHandler struct {
	cfg  Config
	svcs Services
}
