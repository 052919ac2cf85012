package cache

import (
	"context"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
)

type memKey struct {
	serviceID    string
	analysisType domain.AnalysisType
}

type memEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache keeps serialized entries in process so callers never share
// mutable state with the cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[memKey]memEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[memKey]memEntry{}, now: time.Now}
}

// WithClock swaps the time source, for tests.
func (m *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	m.now = now
	return m
}

func (m *MemoryCache) Get(_ context.Context, serviceID string, analysisType domain.AnalysisType) (*domain.CacheEntry, error) {
	m.mu.RLock()
	e, ok := m.entries[memKey{serviceID, analysisType}]
	m.mu.RUnlock()
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, domain.ErrCacheMiss
	}
	return decode(e.payload)
}

func (m *MemoryCache) Put(_ context.Context, entry *domain.CacheEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	b, err := encode(entry)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[memKey{entry.ServiceID, entry.AnalysisType}] = memEntry{payload: b, expiresAt: entry.ExpiresAt}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Reclaim(_ context.Context) (int64, error) {
	now := m.now()
	var n int64
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// Len reports stored entries, live or not.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
