package main

import (
	"context"
	"fmt"
	"log"

	"github.com/foodanalyzer/backend/config"
	"github.com/foodanalyzer/backend/internal/domain"
	"github.com/foodanalyzer/backend/internal/infrastructure/cache"
	"github.com/foodanalyzer/backend/internal/infrastructure/openfoodfacts"
	"github.com/foodanalyzer/backend/internal/infrastructure/storage"
	"github.com/foodanalyzer/backend/internal/rubric"
)

type closingCache interface {
	domain.CacheRepository
	Close() error
}

// newCache builds the configured product cache
func newCache(ctx context.Context, cfg config.CacheConfig) (closingCache, error) {
	switch cfg.Type {
	case "redis":
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return c, nil
	default:
		return cache.NewMemoryCache(0), nil
	}
}

// newStore opens the configured analysis repository
func newStore(ctx context.Context, cfg config.StorageConfig, maxHistory int) (domain.AnalysisRepository, error) {
	driver := storage.Driver(cfg.Driver)
	if driver == storage.DriverMemory {
		return storage.NewMemoryStore(maxHistory), nil
	}

	db, err := storage.Open(ctx, driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", driver, err)
	}
	return storage.NewSQLStore(db, driver), nil
}

// newProductClient builds the Open Food Facts client, verbose in development
func newProductClient(cfg *config.Config) *openfoodfacts.Client {
	client := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:           cfg.OpenFoodFacts.BaseURL,
		UserAgent:         cfg.OpenFoodFacts.UserAgent,
		Timeout:           cfg.OpenFoodFacts.Timeout,
		RequestsPerMinute: cfg.OpenFoodFacts.RequestsPerMinute,
		MaxAttempts:       cfg.OpenFoodFacts.MaxAttempts,
		RetryBaseDelay:    cfg.OpenFoodFacts.RetryBaseDelay,
	})

	if cfg.IsDevelopment() {
		client.SetDebug(true)
		log.Printf("Open Food Facts client debug mode enabled")
	}
	return client
}

// newRubric loads a custom vocabulary when one is configured
func newRubric(vocabularyFile string) (*rubric.Rubric, error) {
	if vocabularyFile == "" {
		return rubric.Default(), nil
	}

	vocab, err := rubric.LoadVocabulary(vocabularyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	log.Printf("Loaded vocabulary from %s (%d ultra-processed, %d processed terms)",
		vocabularyFile, len(vocab.UltraProcessed), len(vocab.Processed))
	return rubric.New(vocab), nil
}
