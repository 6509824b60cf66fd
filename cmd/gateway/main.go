// Package main is the entry point for the Logo Objects HTTP gateway.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logoobjects/internal/config"
	"logoobjects/internal/domain/entities"
	v1 "logoobjects/internal/infrastructure/http/v1"
	"logoobjects/internal/infrastructure/http/v1/handlers"
	"logoobjects/internal/infrastructure/logoapi"
	"logoobjects/internal/infrastructure/storage/postgres"
	"logoobjects/pkg/logger"
)

func main() {
	configFile := flag.String("config", "", "path to a logoobjects.yaml file")
	flag.Parse()

	cfg, err := config.Load(config.LoadOptions{ConfigFile: *configFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting logo objects gateway", "upstream", cfg.API.BaseURL)

	// --- Upstream client ---
	api, err := logoapi.New(cfg.LogoAPI(), logoapi.WithLogger(log))
	if err != nil {
		log.Fatalw("failed to create api client", "error", err)
	}
	checks := map[string]handlers.Pinger{"logo_api": api}

	// --- Mirror database (optional, readiness only) ---
	if cfg.Mirror.DSN != "" {
		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Mirror.DSN))
		if err != nil {
			log.Fatalw("failed to connect to mirror database", "error", err)
		}
		defer pool.Close()
		checks["mirror_database"] = pool
		log.Info("mirror database connection established")
	}

	// --- Router ---
	registry := entities.Registry()
	if cfg.API.StrictFields {
		registry.EnforceFields()
		log.Info("strict field resolution enabled")
	}
	router := v1.NewRouter(v1.RouterConfig{
		Registry:     registry,
		Requester:    api,
		Logger:       log,
		APIKeyHash:   cfg.Gateway.APIKeyHash,
		HealthChecks: checks,
		Debug:        cfg.Log.Development,
	})
	if cfg.Gateway.APIKeyHash == "" {
		log.Warn("gateway API key check disabled")
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Gateway.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LogoAPI().Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "addr", cfg.Gateway.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
