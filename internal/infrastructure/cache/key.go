package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// tokenKey derives the cache key for a session token so raw tokens are
// never held as keys.
func tokenKey(sessionToken string) string {
	sum := sha256.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:])
}
