package ratelimit

import (
	"net"
	"net/http"
)

// KeyFunc extracts the rate limit key from a request. An empty key skips
// limiting for that request.
type KeyFunc func(*http.Request) string

// Static limits every request against one shared key.
func Static(key string) KeyFunc {
	return func(*http.Request) string { return key }
}

// ByIP keys requests by client address. It expects RemoteAddr to have been
// resolved already, e.g. by chi's RealIP middleware.
func ByIP(prefix string) KeyFunc {
	return func(r *http.Request) string {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if host == "" {
			return ""
		}
		return prefix + host
	}
}
