// Package checksum derives entity tags for conditional GETs.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag returns Sum(data) quoted as a strong entity tag.
func ETag(data []byte) string {
	return `"` + Sum(data) + `"`
}

// NoneMatch reports whether an If-None-Match header lists etag or "*".
// Weak tags compare equal to their strong form.
func NoneMatch(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
