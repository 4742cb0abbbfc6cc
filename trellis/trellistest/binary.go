// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package trellistest

import (
	"io"
	"strings"

	"github.com/trellis-ldp/go-trellis/trellis"
)

// TestBinaryRoundTrip validates basic content storage.
func (s *Suite) TestBinaryRoundTrip() {
	id := s.Binaries.GenerateIdentifier()
	size, err := s.Binaries.SetContent(id, strings.NewReader("some binary content"))
	if !s.NoError(err) {
		return
	}
	s.Equal(int64(19), size)

	content, err := s.Binaries.Content(id, 0, -1)
	if !s.NoError(err) {
		return
	}
	defer content.Close()
	data, err := io.ReadAll(content)
	if s.NoError(err) {
		s.Equal("some binary content", string(data))
	}
}

// TestBinaryRange validates inclusive byte-range reads.
func (s *Suite) TestBinaryRange() {
	id := s.Binaries.GenerateIdentifier()
	_, err := s.Binaries.SetContent(id, strings.NewReader("0123456789"))
	if !s.NoError(err) {
		return
	}

	content, err := s.Binaries.Content(id, 2, 5)
	if !s.NoError(err) {
		return
	}
	defer content.Close()
	data, err := io.ReadAll(content)
	if s.NoError(err) {
		s.Equal("2345", string(data))
	}

	// A range running past the end is truncated, not failed.
	content, err = s.Binaries.Content(id, 8, 20)
	if !s.NoError(err) {
		return
	}
	defer content.Close()
	data, err = io.ReadAll(content)
	if s.NoError(err) {
		s.Equal("89", string(data))
	}
}

// TestBinaryDigest validates digest computation on stored content.
func (s *Suite) TestBinaryDigest() {
	id := s.Binaries.GenerateIdentifier()
	_, err := s.Binaries.SetContent(id, strings.NewReader("hello"))
	if !s.NoError(err) {
		return
	}

	digest, err := s.Binaries.Digest(id, "md5")
	if s.NoError(err) {
		s.Equal("XUFAKrxLKna5cZ2REBfFkg==", digest)
	}

	digest, err = s.Binaries.Digest(id, "sha-256")
	if s.NoError(err) {
		s.Equal("LPJNul+wow4m6DsqxbninhsWHlwfp0JecwQzYpOLmCQ=", digest)
	}

	_, err = s.Binaries.Digest(id, "crc32")
	s.Error(err)
}

// TestBinaryPurge validates content removal.
func (s *Suite) TestBinaryPurge() {
	id := s.Binaries.GenerateIdentifier()
	_, err := s.Binaries.SetContent(id, strings.NewReader("ephemeral"))
	if !s.NoError(err) {
		return
	}

	s.NoError(s.Binaries.PurgeContent(id))
	_, err = s.Binaries.Content(id, 0, -1)
	s.Equal(trellis.ErrNoSuchBinary, err)
	s.Equal(trellis.ErrNoSuchBinary, s.Binaries.PurgeContent(id))
}

// TestGenerateIdentifier validates identifier uniqueness.
func (s *Suite) TestGenerateIdentifier() {
	first := s.Binaries.GenerateIdentifier()
	second := s.Binaries.GenerateIdentifier()
	s.NotEmpty(first.Value)
	s.NotEqual(first, second)
}
