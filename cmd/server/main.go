package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/item-sharing-backend/internal/app"
	"github.com/nekogravitycat/item-sharing-backend/internal/config"
	"github.com/nekogravitycat/item-sharing-backend/internal/db"
	"github.com/nekogravitycat/item-sharing-backend/internal/logging"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer pool.Close()

	container := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		DBPool:       pool,
		Logger:       logger,
		RedisAddr:    cfg.RedisAddr,
		CacheTTL:     cfg.CacheTTL,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited gracefully")
}
