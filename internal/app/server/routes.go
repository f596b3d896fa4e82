package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"mailroom/internal/auth"
	"mailroom/internal/database"
	"mailroom/internal/ipgate"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Server wires the HTTP surface to the gate. Dependencies are injected so
// tests can run the handlers against fakes.
type Server struct {
	gate   *ipgate.Gate
	guard  *ipgate.Guard
	cache  *ipgate.Cache
	audits *database.AuditStore
}

func New(gate *ipgate.Gate, guard *ipgate.Guard, cache *ipgate.Cache, audits *database.AuditStore) *Server {
	return &Server{gate: gate, guard: guard, cache: cache, audits: audits}
}

// Handler builds the route table. Every /admin route runs behind the session
// role check first and the IP gate second, so an unauthenticated caller
// learns nothing about the whitelist.
func (s *Server) Handler() http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("POST /register", registerUser)
	router.HandleFunc("POST /login", loginUser)
	router.Handle("GET /checkLogin", auth.RequireAuth(http.HandlerFunc(checkLogin)))

	admin := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAdmin(s.gate.Require(h))
	}
	router.Handle("GET /admin/ip-whitelist", admin(s.listWhitelist))
	router.Handle("POST /admin/ip-whitelist", admin(s.createWhitelistEntry))
	router.Handle("PUT /admin/ip-whitelist/{id}", admin(s.updateWhitelistEntry))
	router.Handle("DELETE /admin/ip-whitelist/{id}", admin(s.deleteWhitelistEntry))
	router.Handle("GET /admin/ip-whitelist/{id}/audit", admin(s.listWhitelistAudit))

	return enableCORS(router)
}

func (s *Server) OpenRoutes(port int) error {
	httpServer := http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	log.Infof("Starting mailroom backend on port :%d", port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}
