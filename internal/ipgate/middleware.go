package ipgate

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
)

type contextKey string

const clientIPKey contextKey = "ipgate.client_ip"

// ClientIPFromContext returns the address the gate resolved for this request.
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// Gate decides for every privileged request whether the calling client's
// network address is permitted.
type Gate struct {
	cache *Cache
}

func NewGate(cache *Cache) *Gate {
	return &Gate{cache: cache}
}

// Allowed reports whether the address matches any whitelist entry.
func (g *Gate) Allowed(ctx context.Context, address string) (bool, error) {
	entries, err := g.cache.List(ctx)
	if err != nil {
		return false, classifyStoreError(err)
	}
	return len(MatchingEntryIDs(address, entries)) > 0, nil
}

// Require rejects requests whose resolved client address matches no
// whitelist entry. The resolved address is stored on the request context for
// downstream handlers.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := ResolveClientIP(r.Header, r.RemoteAddr)

		allowed, err := g.Allowed(r.Context(), clientIP)
		if err != nil {
			log.Error("Whitelist lookup failed", "error", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}
		if !allowed {
			log.Warn("Admin request from non-whitelisted address", "ip", clientIP, "path", r.URL.Path)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), clientIPKey, clientIP)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
