package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sarscov2kg/application/services"
	"sarscov2kg/domain/core/aggregates"
	"sarscov2kg/domain/core/nodes"
	"sarscov2kg/infrastructure/config"
	"sarscov2kg/infrastructure/corpus"
	"sarscov2kg/interfaces/http/rest"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	backend, err := corpus.LoadBackend(cfg.CorpusFile)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	logger.Info("corpus loaded", zap.Int("documents", backend.Size()))

	// Seed the registry with one graph around the configured root so the
	// API is usable immediately.
	registry := services.NewGraphRegistry(logger)
	base := aggregates.NewBaseGraph(nodes.NewVirusNode(cfg.RootVirusName, cfg.RootGenomeKB))
	seedID := registry.Register(aggregates.NewMultiIntentGraph(base))
	logger.Info("seed graph ready", zap.String("graphID", seedID.String()))

	router := rest.NewRouter(registry, backend, cfg, logger)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
