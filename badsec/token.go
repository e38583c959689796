package badsec

import "net/http"

const (
	// AuthTokenHeader carries the token issued by /auth
	AuthTokenHeader = "Badsec-Authentication-Token"
	// ChecksumHeader carries the checksum sent to /users
	ChecksumHeader = "X-Request-Checksum"
)

// TokenFromHeader returns the first auth token value, or "" when absent.
func TokenFromHeader(h http.Header) string {
	if h == nil {
		return ""
	}
	return h.Get(AuthTokenHeader)
}
