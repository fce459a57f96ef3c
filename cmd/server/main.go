// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bodegapos/backend/internal/api"
	"github.com/bodegapos/backend/internal/audit"
	"github.com/bodegapos/backend/internal/cache"
	"github.com/bodegapos/backend/internal/config"
	"github.com/bodegapos/backend/internal/repository"
	"github.com/bodegapos/backend/internal/repository/memory"
	"github.com/bodegapos/backend/internal/repository/postgres"
	"github.com/bodegapos/backend/internal/service"
	"github.com/bodegapos/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store := newStore(cfg)

	inventoryCache, err := cache.NewInventoryCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("inventory cache disabled")
	}

	auditLog := audit.New(store)
	defer auditLog.Close()

	services := &api.Services{
		Sales:     service.NewSaleService(store, inventoryCache, auditLog, cfg.Policy.AllowNegativeStock),
		Transfers: service.NewTransferService(store, inventoryCache),
		Inventory: service.NewInventoryService(store, inventoryCache),
		Credit:    service.NewCreditService(store),
		Shifts:    service.NewShiftService(store, auditLog),
		System:    service.NewSystemService(store),
	}

	router := api.NewRouter(services, cfg)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func newStore(cfg *config.Config) repository.Store {
	if cfg.Database.Driver == "memory" {
		// Dev mode: no durability, empty dataset.
		logger.Log.Warn().Msg("using in-memory store, data will not survive restarts")
		return memory.New()
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	return postgres.NewStore(db)
}
