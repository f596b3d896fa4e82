package ipgate

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Proxy headers consulted when the transport peer is not the real client.
const (
	headerForwardedFor = "X-Forwarded-For"
	headerRealIP       = "X-Real-IP"
	headerCFConnecting = "Cf-Connecting-IP"
)

// ResolveClientIP extracts the best-effort real client address from the
// request headers, falling back to the transport peer address. The empty
// string means no address could be determined; resolution never fails.
func ResolveClientIP(header http.Header, fallback string) string {
	candidate := firstForwardedIP(header.Get(headerForwardedFor))
	if candidate == "" {
		candidate = stripPort(fallback)
	}

	if candidate == "" || isLoopback(candidate) {
		for _, key := range []string{headerRealIP, headerCFConnecting} {
			if value := strings.TrimSpace(header.Get(key)); value != "" {
				return value
			}
		}
	}

	return candidate
}

func firstForwardedIP(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	first, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(first)
}

func stripPort(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		return host
	}
	return value
}

func isLoopback(value string) bool {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return false
	}
	return addr.IsLoopback()
}
