package proxy

import (
	"net/http"
	"strings"

	"github.com/golang/gddo/httputil/header"
)

// isHopByHopHeader checks if a given header name is a Hop-by-Hop header, and
// hence should not be forwarded between the client and the upstream server.
// The name must already be canonicalized with http.CanonicalHeaderKey().
func isHopByHopHeader(name string) bool {
	switch name {
	case
		"Connection",
		"Proxy-Connection",
		"Keep-Alive",
		"Proxy-Authenticate",
		"Proxy-Authorization",
		"Te",
		"Trailer",
		"Transfer-Encoding",
		"Upgrade":
		return true
	default:
		return false
	}
}

// connectionHeaders returns the canonical names of the headers listed in the
// Connection header, which apply only to the current connection.
func connectionHeaders(headers http.Header) map[string]bool {
	names := map[string]bool{}
	for _, value := range header.ParseList(headers, "Connection") {
		names[http.CanonicalHeaderKey(value)] = true
	}

	return names
}

// copyEndToEndHeaders copies every header in src to dst, except for
// hop-by-hop headers.
func copyEndToEndHeaders(dst, src http.Header) {
	connection := connectionHeaders(src)

	for name, values := range src {
		if isHopByHopHeader(name) || connection[name] {
			continue
		}

		dst[name] = append([]string(nil), values...)
	}
}

// flattenHeaders returns the headers as a map of name to value, with multiple
// values for the same header joined by commas.
func flattenHeaders(headers http.Header) map[string]string {
	flat := make(map[string]string, len(headers))
	for name, values := range headers {
		flat[name] = strings.Join(values, ", ")
	}

	return flat
}
