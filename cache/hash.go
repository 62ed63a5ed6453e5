package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ImageKey is the cache key for an image source (URL or path).
func ImageKey(src string) string {
	return "image:" + Hash([]byte(src))
}
