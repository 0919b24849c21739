package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodanalyzer/backend/config"
	httpDelivery "github.com/foodanalyzer/backend/internal/delivery/http"
	"github.com/foodanalyzer/backend/internal/usecase"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Printf("Starting Food Analyzer Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s (TTL %s)", cfg.Cache.Type, cfg.Cache.TTL)
	log.Printf("Storage Driver: %s", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	productCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer productCache.Close()

	store, err := newStore(ctx, cfg.Storage, cfg.Analysis.HistoryMaxLimit)
	if err != nil {
		return err
	}
	defer store.Close()

	scorer, err := newRubric(cfg.Analysis.VocabularyFile)
	if err != nil {
		return err
	}

	offClient := newProductClient(cfg)
	log.Printf("Open Food Facts API: %s (%d req/min)", cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.RequestsPerMinute)

	// Initialize usecase layer
	analysisService := usecase.NewAnalysisService(
		productCache,
		offClient,
		store,
		scorer,
		usecase.AnalysisServiceConfig{
			CacheTTL:            cfg.Cache.TTL,
			HistoryDefaultLimit: cfg.Analysis.HistoryDefaultLimit,
			HistoryMaxLimit:     cfg.Analysis.HistoryMaxLimit,
			BatchConcurrency:    cfg.Analysis.BatchConcurrency,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(analysisService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutting down (timeout %s)", cfg.Server.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
