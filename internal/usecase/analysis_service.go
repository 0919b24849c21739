package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/foodanalyzer/backend/internal/domain"
	"github.com/foodanalyzer/backend/internal/rubric"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MaxBatchSize is the largest number of barcodes accepted by AnalyzeBatch
const MaxBatchSize = 20

// unknownProductName labels analyses scored without a product name
const unknownProductName = "Unknown Product"

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	CacheTTL            time.Duration
	HistoryDefaultLimit int
	HistoryMaxLimit     int
	BatchConcurrency    int
}

// AnalysisService fetches products, scores them and records the results
type AnalysisService struct {
	cache    domain.CacheRepository
	products domain.ProductSource
	store    domain.AnalysisRepository
	rubric   *rubric.Rubric

	cacheTTL         time.Duration
	historyDefault   int
	historyMax       int
	batchConcurrency int

	now   func() time.Time
	newID func() string
}

// NewAnalysisService creates a new analysis service with dependencies
func NewAnalysisService(
	cache domain.CacheRepository,
	products domain.ProductSource,
	store domain.AnalysisRepository,
	r *rubric.Rubric,
	config AnalysisServiceConfig,
) *AnalysisService {
	if r == nil {
		r = rubric.Default()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 24 * time.Hour
	}
	if config.HistoryDefaultLimit <= 0 {
		config.HistoryDefaultLimit = 50
	}
	if config.HistoryMaxLimit < config.HistoryDefaultLimit {
		config.HistoryMaxLimit = config.HistoryDefaultLimit
	}
	if config.BatchConcurrency <= 0 {
		config.BatchConcurrency = 4
	}

	return &AnalysisService{
		cache:            cache,
		products:         products,
		store:            store,
		rubric:           r,
		cacheTTL:         config.CacheTTL,
		historyDefault:   config.HistoryDefaultLimit,
		historyMax:       config.HistoryMaxLimit,
		batchConcurrency: config.BatchConcurrency,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
}

// AnalyzeProduct looks up a product by barcode and scores it.
// Flow: validate -> cache -> product database -> rubric -> store analysis -> append history
func (s *AnalysisService) AnalyzeProduct(ctx context.Context, barcode string) (*domain.ProductAnalysis, error) {
	barcode, err := normalizeBarcode(barcode)
	if err != nil {
		return nil, err
	}

	product, err := s.lookupProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	analysis := s.buildAnalysis(barcode, product.Name, product.Brand, product.Nutrients, product.Ingredients)

	if err := s.store.SaveAnalysis(ctx, analysis); err != nil {
		return nil, storageError(err)
	}

	entry := &domain.ScanHistory{
		ID:              s.newID(),
		Barcode:         analysis.Barcode,
		ProductName:     analysis.ProductName,
		NutritionScore:  analysis.NutritionScore,
		DiabeticScore:   analysis.DiabeticScore,
		ProcessingLevel: analysis.ProcessingLevel,
		ScannedAt:       analysis.Timestamp,
	}
	if err := s.store.AppendHistory(ctx, entry); err != nil {
		return nil, storageError(err)
	}

	log.Printf("[Analysis] %s %q: nutrition=%.1f diabetic=%.1f processing=%s",
		barcode, analysis.ProductName, analysis.NutritionScore, analysis.DiabeticScore, analysis.ProcessingLevel)
	return analysis, nil
}

// AnalyzeBatch analyzes up to MaxBatchSize barcodes concurrently.
// A failure on one barcode is reported in its item and does not stop the others.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, barcodes []string) ([]domain.BatchItem, error) {
	if len(barcodes) == 0 {
		return nil, fmt.Errorf("%w: no barcodes given", domain.ErrInvalidRequest)
	}
	if len(barcodes) > MaxBatchSize {
		return nil, fmt.Errorf("%w: at most %d barcodes per batch", domain.ErrInvalidRequest, MaxBatchSize)
	}

	items := make([]domain.BatchItem, len(barcodes))

	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for i, barcode := range barcodes {
		g.Go(func() error {
			items[i].Barcode = strings.TrimSpace(barcode)
			analysis, err := s.AnalyzeProduct(ctx, barcode)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Analysis = analysis
			return nil
		})
	}
	g.Wait()

	return items, nil
}

// GetAnalysis returns the most recent stored analysis for a barcode
func (s *AnalysisService) GetAnalysis(ctx context.Context, barcode string) (*domain.ProductAnalysis, error) {
	barcode, err := normalizeBarcode(barcode)
	if err != nil {
		return nil, err
	}

	analysis, err := s.store.FindLatestByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrAnalysisNotFound) {
			return nil, err
		}
		return nil, storageError(err)
	}
	return analysis, nil
}

// ScanHistory returns recent scans, newest first.
// A non-positive limit selects the default; larger limits are capped.
func (s *AnalysisService) ScanHistory(ctx context.Context, limit int) ([]domain.ScanHistory, error) {
	if limit <= 0 {
		limit = s.historyDefault
	}
	if limit > s.historyMax {
		limit = s.historyMax
	}

	history, err := s.store.ListHistory(ctx, limit)
	if err != nil {
		return nil, storageError(err)
	}
	return history, nil
}

// ScoreProduct runs the rubric on caller-supplied data. Nothing is stored.
func (s *AnalysisService) ScoreProduct(ctx context.Context, req *domain.ScoreRequest) (*domain.ProductAnalysis, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := validateNutrients(req.Nutrients); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		name = unknownProductName
	}

	ingredients := req.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	return s.buildAnalysis("", name, "", req.Nutrients, ingredients), nil
}

func (s *AnalysisService) buildAnalysis(barcode, name, brand string, n domain.NutrientProfile, ingredients []string) *domain.ProductAnalysis {
	result := s.rubric.Score(n, ingredients)

	return &domain.ProductAnalysis{
		ID:               s.newID(),
		Barcode:          barcode,
		ProductName:      name,
		Brand:            brand,
		NutritionScore:   result.NutritionScore,
		DiabeticScore:    result.DiabeticScore,
		ProcessingLevel:  result.ProcessingLevel,
		Compliance:       result.Compliance,
		NutritionalInfo:  n,
		Ingredients:      ingredients,
		Details:          result.Details,
		DataCompleteness: result.Completeness,
		Timestamp:        s.now(),
	}
}

// lookupProduct checks the cache before asking the product database
func (s *AnalysisService) lookupProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	key := cacheKey(barcode)

	if product, err := s.getFromCache(ctx, key); err == nil {
		return product, nil
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		log.Printf("[Analysis] Cache read failed for %s: %v", barcode, err)
	}

	product, err := s.products.GetProduct(ctx, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrUpstreamFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	if err := s.setInCache(ctx, key, product); err != nil {
		// Log but don't fail if caching fails
		log.Printf("[Analysis] Cache write failed for %s: %v", barcode, err)
	}
	return product, nil
}

// cacheKey format: "product:{barcode}"
func cacheKey(barcode string) string {
	return "product:" + barcode
}

func (s *AnalysisService) getFromCache(ctx context.Context, key string) (*domain.Product, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal(value, &product); err != nil {
		log.Printf("[Analysis] Evicting unreadable cache entry %s: %v", key, err)
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Printf("[Analysis] Cache delete failed for %s: %v", key, err)
		}
		return nil, domain.ErrCacheMiss
	}
	return &product, nil
}

func (s *AnalysisService) setInCache(ctx context.Context, key string, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}

// normalizeBarcode trims a barcode and checks that it is a non-empty run of digits
func normalizeBarcode(barcode string) (string, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return "", fmt.Errorf("%w: barcode is required", domain.ErrInvalidRequest)
	}
	for _, r := range barcode {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: barcode must contain only digits", domain.ErrInvalidRequest)
		}
	}
	return barcode, nil
}

// validateNutrients rejects negative and non-finite nutrient values
func validateNutrients(n domain.NutrientProfile) error {
	keys := append([]domain.Nutrient{domain.NutrientSodium}, domain.ScoredNutrients...)
	for _, key := range keys {
		if !n.Has(key) {
			continue
		}
		v := n.Value(key)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", domain.ErrInvalidRequest, key)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidRequest, key)
		}
	}
	return nil
}

func storageError(err error) error {
	if errors.Is(err, domain.ErrStorageFailure) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
}
