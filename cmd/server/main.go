// Package main is the entry point for the fieldops API server.
// Multi-tenant architecture: shared database, per-row isolation.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fieldops/internal/core/tenant"
	"fieldops/internal/domain/numbering"
	v1 "fieldops/internal/infrastructure/http/v1"
	"fieldops/internal/infrastructure/http/v1/handlers"
	"fieldops/internal/infrastructure/storage/postgres"
	"fieldops/internal/infrastructure/storage/sqlite"
	"fieldops/pkg/logger"
)

const version = "0.1.0"

func main() {
	// Local dev convenience; absent .env is fine
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	driver := getEnv("STORAGE_DRIVER", "postgres")
	log.Infow("starting fieldops server", "driver", driver)

	var (
		registry tenant.Registry
		store    numbering.Store
		pinger   handlers.Pinger
		cleanup  func()
	)

	switch driver {
	case "postgres":
		dsn := mustEnv("DATABASE_URL")

		poolCfg := postgres.DefaultPoolConfig(dsn)
		if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
			poolCfg.MaxConns = int32(maxConns)
		}

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		cleanup = pool.Close
		log.Info("database connection established")

		if getEnv("AUTO_MIGRATE", "true") == "true" {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				log.Fatalw("failed to ensure schema", "error", err)
			}
		}

		registry = postgres.NewTenantRegistry(pool)
		store = postgres.NewNumberingStore(postgres.NewTxManager(pool))
		pinger = pool

	case "sqlite":
		path := getEnv("SQLITE_PATH", "fieldops.db")

		db, err := sqlite.New(path)
		if err != nil {
			log.Fatalw("failed to open database", "error", err, "path", path)
		}
		cleanup = func() { _ = db.Close() }

		if err := db.EnsureSchema(); err != nil {
			log.Fatalw("failed to ensure schema", "error", err)
		}

		registry = sqlite.NewTenantRegistry(db)
		store = sqlite.NewNumberingStore(db)
		pinger = db

	default:
		log.Fatalw("unknown storage driver", "driver", driver)
	}
	defer cleanup()

	numberingService := numbering.NewService(store)

	router := v1.NewRouter(v1.RouterConfig{
		Registry:  registry,
		Numbering: numberingService,
		DB:        pinger,
		Driver:    driver,
		Logger:    log,
		Version:   version,
	})

	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
