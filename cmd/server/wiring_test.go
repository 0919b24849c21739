package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/foodanalyzer/backend/config"
	"github.com/foodanalyzer/backend/internal/domain"
	"github.com/foodanalyzer/backend/internal/infrastructure/cache"
	"github.com/foodanalyzer/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache_Memory(t *testing.T) {
	c, err := newCache(context.Background(), config.CacheConfig{Type: "memory"})
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &cache.MemoryCache{}, c)
}

func TestNewCache_RedisUnreachable(t *testing.T) {
	_, err := newCache(context.Background(), config.CacheConfig{Type: "redis", RedisURL: "not-a-url"})
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := newStore(ctx, config.StorageConfig{Driver: "memory"}, 100)
		require.NoError(t, err)
		assert.IsType(t, &storage.MemoryStore{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		dsn := "file:" + filepath.Join(t.TempDir(), "server.db")
		store, err := newStore(ctx, config.StorageConfig{Driver: "sqlite", DSN: dsn}, 100)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &storage.SQLStore{}, store)
	})
}

func TestNewRubric(t *testing.T) {
	t.Run("default vocabulary", func(t *testing.T) {
		r, err := newRubric("")
		require.NoError(t, err)
		assert.NotEmpty(t, r.Vocabulary().UltraProcessed)
	})

	t.Run("custom vocabulary", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocabulary.yaml")
		content := "ultra_processed: [Aspartame]\nprocessed: [salt, sugar]\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		r, err := newRubric(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"aspartame"}, r.Vocabulary().UltraProcessed)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := newRubric(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestNewProductClient_UsesConfiguredRetryDelay(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		OpenFoodFacts: config.OpenFoodFactsConfig{
			BaseURL:           server.URL,
			RequestsPerMinute: 6000,
			MaxAttempts:       2,
			RetryBaseDelay:    150 * time.Millisecond,
		},
	}

	start := time.Now()
	_, err := newProductClient(cfg).GetProduct(context.Background(), "3017620422003")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Equal(t, 2, attempts)
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
}
