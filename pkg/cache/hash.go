package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HTTPKey builds the cache key for a response from namespace (typically the
// feed host) and a request key.
func HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}
