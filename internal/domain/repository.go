package domain

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque serialized bytes so that memory and Redis backends behave alike.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ProductSource looks up product data by barcode
type ProductSource interface {
	GetProduct(ctx context.Context, barcode string) (*Product, error)
}

// AnalysisRepository persists analyses and the scan history
type AnalysisRepository interface {
	SaveAnalysis(ctx context.Context, analysis *ProductAnalysis) error
	FindLatestByBarcode(ctx context.Context, barcode string) (*ProductAnalysis, error)
	AppendHistory(ctx context.Context, entry *ScanHistory) error
	ListHistory(ctx context.Context, limit int) ([]ScanHistory, error)
	Close() error
}
