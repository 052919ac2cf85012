package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
)

const DefaultTTL = time.Hour

// Cache memoizes analyses per (service id, analysis type). Get never returns an
// expired entry; it reports domain.ErrCacheMiss instead.
type Cache interface {
	Get(ctx context.Context, serviceID string, analysisType domain.AnalysisType) (*domain.CacheEntry, error)
	Put(ctx context.Context, entry *domain.CacheEntry) error
	// Reclaim deletes entries past their expiry and reports how many went.
	Reclaim(ctx context.Context) (int64, error)
}

func validateEntry(e *domain.CacheEntry) error {
	if e == nil || e.Result == nil {
		return fmt.Errorf("cache: entry without result")
	}
	if e.ServiceID == "" || !e.AnalysisType.Valid() {
		return fmt.Errorf("cache: entry requires service id and analysis type")
	}
	if !e.ExpiresAt.After(e.ComputedAt) {
		return fmt.Errorf("cache: expires_at must be after computed_at")
	}
	return nil
}

func encode(e *domain.CacheEntry) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("cache: marshal entry: %w", err)
	}
	return b, nil
}

func decode(b []byte) (*domain.CacheEntry, error) {
	var e domain.CacheEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("cache: unmarshal entry: %w", err)
	}
	return &e, nil
}

// Noop disables caching.
type Noop struct{}

func (Noop) Get(context.Context, string, domain.AnalysisType) (*domain.CacheEntry, error) {
	return nil, domain.ErrCacheMiss
}
func (Noop) Put(context.Context, *domain.CacheEntry) error { return nil }
func (Noop) Reclaim(context.Context) (int64, error)        { return 0, nil }
