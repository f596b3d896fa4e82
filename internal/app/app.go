package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"mailroom/internal/app/server"
	"mailroom/internal/audit"
	"mailroom/internal/config"
	"mailroom/internal/database"
	"mailroom/internal/ipgate"
	"mailroom/internal/support"
)

const defaultBackendPort = 8082

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	log.SetLevel(log.DebugLevel)

	backendPortFlag := flag.Int("backend-port", defaultBackendPort, "Port for API server")
	flag.Parse()

	backendPort := resolvePort("BACKEND_PORT", "backend-port", *backendPortFlag)

	db, err := database.SetupDB()
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	store := database.NewWhitelistStore(db)
	cache := ipgate.NewCache(store)
	gate := ipgate.NewGate(cache)
	audits := database.NewAuditStore(db)
	recorder := audit.NewRecorder(audits)
	guard := ipgate.NewGuard(store, cache, recorder,
		ipgate.WithInvalidationNotifier(config.BroadcastWhitelistInvalidation))

	// Redis only carries cache invalidation between instances; a single node
	// runs fine without it.
	if redisClient, err := support.GetRedisClient(); err != nil {
		log.Warn("Running without cross-instance whitelist sync", "error", err)
	} else {
		config.EnableWhitelistSynchronization(context.Background(), redisClient, cache.Invalidate)
		defer func() {
			config.DisableWhitelistSynchronization()
			if err := support.CloseRedisClient(); err != nil {
				log.Warn("error closing redis client", "error", err)
			}
		}()
	}

	return server.New(gate, guard, cache, audits).OpenRoutes(backendPort)
}

func resolvePort(primaryEnv, legacyEnv string, fallback int) int {
	if port := readPort(primaryEnv); port != 0 {
		return port
	}
	if port := readPort(legacyEnv); port != 0 {
		return port
	}
	return fallback
}

func readPort(envKey string) int {
	raw := os.Getenv(envKey)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port == 0 {
		log.Warn("invalid port override", "env", envKey, "value", raw)
		return 0
	}
	return port
}
