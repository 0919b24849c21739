package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/foodanalyzer/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func sampleAnalysis(id, barcode string, at time.Time) *domain.ProductAnalysis {
	return &domain.ProductAnalysis{
		ID:              id,
		Barcode:         barcode,
		ProductName:     "Oat Crunch",
		Brand:           "Acme",
		NutritionScore:  2.7,
		DiabeticScore:   3.5,
		ProcessingLevel: domain.ProcessingProcessed,
		Compliance:      domain.ComplianceFlags{Sugar: false, Salt: true, SaturatedFat: true},
		NutritionalInfo: domain.NutrientProfile{
			Sugars: domain.Float(12),
			Fiber:  domain.Float(6.5),
		},
		Ingredients: []string{"oats", "sugar", "glucose syrup"},
		Details: domain.AnalysisDetails{
			Diabetic:   map[string]string{"sugar_impact": "Moderate sugar content (12g/100g)"},
			Processing: domain.ProcessingAnalysis{Reason: "Contains 1 ultra-processed indicators", UltraCount: 1},
			Compliance: map[string]string{},
			Nutrition:  map[string]string{},
		},
		DataCompleteness: domain.DataCompleteness{Ratio: 0.25},
		Timestamp:        at,
	}
}

func sampleHistory(id string, at time.Time) *domain.ScanHistory {
	return &domain.ScanHistory{
		ID:              id,
		Barcode:         "barcode-" + id,
		ProductName:     "Product " + id,
		NutritionScore:  3.1,
		DiabeticScore:   4.0,
		ProcessingLevel: domain.ProcessingMinimal,
		ScannedAt:       at,
	}
}

// runRepositoryTests exercises the behaviour every AnalysisRepository must share
func runRepositoryTests(t *testing.T, newRepo func(t *testing.T) domain.AnalysisRepository) {
	ctx := context.Background()

	t.Run("missing analysis", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindLatestByBarcode(ctx, "0000")
		assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)
	})

	t.Run("latest analysis wins", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.SaveAnalysis(ctx, sampleAnalysis("a1", "123", baseTime)))

		newer := sampleAnalysis("a2", "123", baseTime.Add(time.Minute))
		newer.NutritionScore = 4.2
		require.NoError(t, repo.SaveAnalysis(ctx, newer))
		require.NoError(t, repo.SaveAnalysis(ctx, sampleAnalysis("b1", "456", baseTime)))

		got, err := repo.FindLatestByBarcode(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, "a2", got.ID)
		assert.Equal(t, 4.2, got.NutritionScore)
		assert.Equal(t, domain.ProcessingProcessed, got.ProcessingLevel)
		assert.Equal(t, []string{"oats", "sugar", "glucose syrup"}, got.Ingredients)
		require.NotNil(t, got.NutritionalInfo.Fiber)
		assert.Equal(t, 6.5, *got.NutritionalInfo.Fiber)
		assert.Nil(t, got.NutritionalInfo.Salt)
		assert.True(t, got.Compliance.Salt)
		assert.True(t, newer.Timestamp.Equal(got.Timestamp))
	})

	t.Run("history newest first", func(t *testing.T) {
		repo := newRepo(t)
		for i := 0; i < 5; i++ {
			entry := sampleHistory(fmt.Sprintf("h%d", i), baseTime.Add(time.Duration(i)*time.Second))
			require.NoError(t, repo.AppendHistory(ctx, entry))
		}

		got, err := repo.ListHistory(ctx, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "h4", got[0].ID)
		assert.Equal(t, "h3", got[1].ID)
		assert.Equal(t, "h2", got[2].ID)
		assert.Equal(t, domain.ProcessingMinimal, got[0].ProcessingLevel)
		assert.True(t, got[0].ScannedAt.Equal(baseTime.Add(4*time.Second)))
	})

	t.Run("history limit larger than size", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.AppendHistory(ctx, sampleHistory("only", baseTime)))

		got, err := repo.ListHistory(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("empty history", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.ListHistory(ctx, 10)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestMemoryStore(t *testing.T) {
	runRepositoryTests(t, func(t *testing.T) domain.AnalysisRepository {
		return NewMemoryStore(0)
	})
}

func TestSQLStore_SQLite(t *testing.T) {
	runRepositoryTests(t, func(t *testing.T) domain.AnalysisRepository {
		dsn := "file:" + filepath.Join(t.TempDir(), "analyses.db")
		db, err := Open(context.Background(), DriverSQLite, dsn)
		require.NoError(t, err)

		store := NewSQLStore(db, DriverSQLite)
		t.Cleanup(func() { store.Close() })
		return store
	})
}

func TestMemoryStore_HistoryBound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.AppendHistory(ctx, sampleHistory(id, baseTime)))
	}

	got, err := store.ListHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	a := sampleAnalysis("a1", "123", baseTime)
	require.NoError(t, store.SaveAnalysis(ctx, a))
	a.NutritionScore = 1.0

	got, err := store.FindLatestByBarcode(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, 2.7, got.NutritionScore)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			store.SaveAnalysis(ctx, sampleAnalysis(id, id, baseTime))
			store.AppendHistory(ctx, sampleHistory(id, baseTime))
			store.ListHistory(ctx, 5)
		}(i)
	}
	wg.Wait()

	got, err := store.ListHistory(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("mongo"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}
