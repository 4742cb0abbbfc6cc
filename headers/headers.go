// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package headers parses the HTTP request header fields the LDP
// protocol layer consumes: Prefer, Range, Accept-Datetime, Slug,
// Digest, Want-Digest, Link and Accept.
//
// Every parser in this package follows the same contract: malformed
// input yields a nil value (or empty slice), never an error or a
// panic.  The caller decides the HTTP consequence of a missing value;
// a nil Range on a request that carried a Range header is a 400, a
// nil Accept-Datetime is simply not a TimeGate request.
package headers
