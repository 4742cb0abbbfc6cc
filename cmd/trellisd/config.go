// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package main

import (
	"os"

	"github.com/mitchellh/mapstructure"
	yaml "gopkg.in/yaml.v2"
)

// config is the daemon's YAML-file configuration.  Every field has a
// command-line override where one makes sense.
type config struct {
	// Bind is the [ip]:port the HTTP server listens on.
	Bind string `mapstructure:"bind"`

	// BaseURL is the external base URL, which becomes the prefix of
	// every resource IRI.
	BaseURL string `mapstructure:"base_url"`

	// Backend is the storage backend in impl[:address] form.
	Backend string `mapstructure:"backend"`

	// RequirePreconditions demands conditional headers on writes to
	// existing resources.
	RequirePreconditions bool `mapstructure:"require_preconditions"`

	// PurgeBinariesOnDelete removes binary content when its resource
	// is deleted.
	PurgeBinariesOnDelete bool `mapstructure:"purge_binaries_on_delete"`

	// DigestAlgorithms lists the accepted Digest algorithms.
	DigestAlgorithms []string `mapstructure:"digest_algorithms"`

	// Admins lists agent IRIs granted every access mode.
	Admins []string `mapstructure:"admins"`

	// LogLevel is a logrus level name.
	LogLevel string `mapstructure:"log_level"`
}

func defaultConfig() config {
	return config{
		Bind:     ":5980",
		BaseURL:  "http://localhost:5980",
		Backend:  "memory",
		LogLevel: "info",
	}
}

// loadConfig merges a YAML file over the passed-in configuration.  The
// file is decoded into a generic map first and then mapped onto the
// struct, so unknown keys are ignored rather than fatal.
func loadConfig(filename string, cfg *config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	return mapstructure.Decode(raw, cfg)
}
