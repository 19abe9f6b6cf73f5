package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auditflow/sectioner/internal/api"
	"github.com/auditflow/sectioner/internal/config"
	"github.com/auditflow/sectioner/internal/indexer"
	"github.com/auditflow/sectioner/internal/pipeline"
	"github.com/auditflow/sectioner/internal/segment"
	"github.com/auditflow/sectioner/internal/vision"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	idx := indexer.NewClient(cfg.IndexerURL, cfg.IndexerAPIKey)
	stats := vision.NewStats(time.Hour)
	ollama := vision.NewOllamaClient(cfg.OllamaVisionURL, cfg.OllamaVisionModel, stats)

	// Initialize the segmentation engine.
	segCfg := segment.DefaultConfig()
	segCfg.MarkerWordLimit = cfg.MarkerWordLimit
	seg := segment.New(segCfg, ollama, log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, seg, idx, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, stats, cfg.OllamaVisionModel, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop accepting requests before closing the job queue, so no
		// in-flight ingest can submit into a stopped pipeline.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		ollama.Close()
		idx.Close()
	}()

	log.Info("starting sectioner", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
