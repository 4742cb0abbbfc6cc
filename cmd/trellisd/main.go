// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package trellisd is the Trellis linked data server daemon.  It wires
// a storage backend, the RDF I/O layer, WebAC authorization, and the
// audit trail into the LDP protocol surface, and serves it over HTTP
// together with Prometheus metrics and health checks.
package main

import (
	"flag"
	"net/http"
	"os"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/google/go-cloud/health"
	"github.com/google/go-cloud/requestlog"
	"github.com/google/go-cloud/server"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"

	"github.com/trellis-ldp/go-trellis/audit"
	"github.com/trellis-ldp/go-trellis/backend"
	"github.com/trellis-ldp/go-trellis/constraint"
	"github.com/trellis-ldp/go-trellis/ldpserver"
	"github.com/trellis-ldp/go-trellis/rdfio"
	"github.com/trellis-ldp/go-trellis/trellis"
	"github.com/trellis-ldp/go-trellis/webac"
)

func main() {
	bind := flag.String("bind", "", "[ip]:port to listen on")
	baseURL := flag.String("base-url", "", "external base URL of the server")
	storage := backend.Backend{}
	flag.Var(&storage, "backend", "impl[:address] of the storage backend")
	configFile := flag.String("config", "", "global configuration YAML file")
	logRequests := flag.Bool("log-requests", false, "log all requests")
	flag.Parse()

	cfg := defaultConfig()
	if *configFile != "" {
		if err := loadConfig(*configFile, &cfg); err != nil {
			logrus.WithFields(logrus.Fields{
				"err":  err,
				"file": *configFile,
			}).Fatal("Could not load YAML configuration")
		}
	}
	// Command-line flags override the configuration file.
	if *bind != "" {
		cfg.Bind = *bind
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if storage.Implementation != "" {
		cfg.Backend = storage.String()
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	if err := storage.Set(cfg.Backend); err != nil {
		logrus.WithFields(logrus.Fields{"err": err}).Fatal("Invalid storage backend")
	}
	resources, binaries, err := storage.Services()
	if err != nil {
		logrus.WithFields(logrus.Fields{"err": err}).Fatal("Could not create storage backend")
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")
	root := rdf.IRI{Value: base + "/"}
	if err := backend.EnsureRoot(resources, root); err != nil {
		logrus.WithFields(logrus.Fields{"err": err}).Fatal("Could not create root container")
	}

	serverCfg := ldpserver.Config{
		BaseURL:               base,
		RequirePreconditions:  cfg.RequirePreconditions,
		PurgeBinariesOnDelete: cfg.PurgeBinariesOnDelete,
		DigestAlgorithms:      cfg.DigestAlgorithms,
		Principal:             principalFromHeader,
	}
	svcs := ldpserver.Services{
		Resources:   resources,
		Binaries:    binaries,
		IO:          rdfio.New(),
		Audit:       audit.New(),
		Events:      &logEvents{},
		Constraints: []trellis.ConstraintService{constraint.New()},
		Access:      webac.New(resources, cfg.Admins),
	}

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	ldpserver.PopulateRouter(r, serverCfg, svcs)

	n := negroni.New(negroni.NewRecovery())
	if *logRequests {
		n.Use(negroni.NewLogger())
	}
	n.UseHandler(r)

	var checks []health.Checker
	if c, ok := resources.(health.Checker); ok {
		checks = append(checks, c)
	}
	srv := server.New(&server.Options{
		RequestLogger: requestlog.NewNCSALogger(os.Stdout, func(err error) {
			logrus.WithFields(logrus.Fields{"err": err}).Error("Error writing request log")
		}),
		HealthChecks: checks,
	})

	logrus.WithFields(logrus.Fields{
		"bind":    cfg.Bind,
		"base":    root.Value,
		"backend": cfg.Backend,
	}).Info("Starting Trellis")
	if err := srv.ListenAndServe(cfg.Bind, n); err != nil {
		logrus.WithFields(logrus.Fields{"err": err}).Fatal("Server exited")
	}
}

// principalFromHeader extracts the session from the X-Trellis-Agent
// header.  Authentication itself is expected to happen in a fronting
// proxy, which sets the header to the authenticated agent IRI.
func principalFromHeader(req *http.Request) trellis.Session {
	return trellis.Session{
		Agent:    req.Header.Get("X-Trellis-Agent"),
		Delegate: req.Header.Get("X-Trellis-Delegate"),
	}
}
