package ipgate

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGateRequire(t *testing.T) {
	store := newFakeStore("203.0.113.0/24")
	gate := NewGate(NewCache(store))

	var seenIP string
	handler := gate.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenIP = ClientIPFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("whitelisted address passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/ip-whitelist", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.10")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if seenIP != "203.0.113.10" {
			t.Fatalf("resolved ip on context = %q", seenIP)
		}
	})

	t.Run("unknown address rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/ip-whitelist", nil)
		req.Header.Set("X-Forwarded-For", "192.0.2.1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		broken := newFakeStore()
		broken.listErr = errors.New("connection refused")
		brokenGate := NewGate(NewCache(broken))

		req := httptest.NewRequest(http.MethodGet, "/admin/ip-whitelist", nil)
		rec := httptest.NewRecorder()

		brokenGate.Require(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run")
		})).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
	})
}
