// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpdata

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash"
)

// HashDigest computes a base64-encoded digest with the named RFC 3230
// algorithm (md5, sha, sha-256).
func HashDigest(algorithm string, data []byte) (string, error) {
	var h hash.Hash
	switch algorithm {
	case "md5":
		h = md5.New()
	case "sha":
		h = sha1.New()
	case "sha-256":
		h = sha256.New()
	default:
		return "", fmt.Errorf("unsupported digest algorithm %q", algorithm)
	}
	h.Write(data)
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}
