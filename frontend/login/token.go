package login

import (
	"crypto/rand"
	"encoding/hex"
)

// newSessionToken mints the opaque value that serves as the session cookie,
// the sessions primary key and the scan pipeline cache key.
func newSessionToken() string {
	buf := make([]byte, 24)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
