package storage

import (
	"context"
	"sync"

	"github.com/foodanalyzer/backend/internal/domain"
)

// MemoryStore keeps analyses and scan history in process memory.
// Data is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	latest   map[string]domain.ProductAnalysis
	history  []domain.ScanHistory
	maxItems int
}

// NewMemoryStore creates an in-memory store. maxHistory bounds the number
// of history entries retained; zero or less keeps everything.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		latest:   make(map[string]domain.ProductAnalysis),
		maxItems: maxHistory,
	}
}

// SaveAnalysis stores a as the latest analysis for its barcode
func (s *MemoryStore) SaveAnalysis(ctx context.Context, a *domain.ProductAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[a.Barcode] = *a
	return nil
}

func (s *MemoryStore) FindLatestByBarcode(ctx context.Context, barcode string) (*domain.ProductAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.latest[barcode]
	if !ok {
		return nil, domain.ErrAnalysisNotFound
	}
	return &a, nil
}

func (s *MemoryStore) AppendHistory(ctx context.Context, entry *domain.ScanHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, *entry)
	if s.maxItems > 0 && len(s.history) > s.maxItems {
		s.history = s.history[len(s.history)-s.maxItems:]
	}
	return nil
}

// ListHistory returns up to limit entries, newest first
func (s *MemoryStore) ListHistory(ctx context.Context, limit int) ([]domain.ScanHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.history)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]domain.ScanHistory, 0, n)
	for i := len(s.history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.history[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
