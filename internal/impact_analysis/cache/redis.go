package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/impact_analysis/domain"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "impact:cache:" // impact:cache:{service_id}:{analysis_type}

// RedisCache stores entries as JSON with a native key TTL, so Redis does the
// expiry itself.
type RedisCache struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, now: time.Now}
}

func (r *RedisCache) WithClock(now func() time.Time) *RedisCache {
	r.now = now
	return r
}

func (r *RedisCache) Get(ctx context.Context, serviceID string, analysisType domain.AnalysisType) (*domain.CacheEntry, error) {
	data, err := r.client.Get(ctx, r.key(serviceID, analysisType)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	e, err := decode(data)
	if err != nil {
		return nil, err
	}
	if !e.Live(r.now()) {
		return nil, domain.ErrCacheMiss
	}
	return e, nil
}

func (r *RedisCache) Put(ctx context.Context, entry *domain.CacheEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	ttl := entry.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	b, err := encode(entry)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(entry.ServiceID, entry.AnalysisType), b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}
	return nil
}

// Reclaim has nothing to do: expired keys are evicted by Redis.
func (r *RedisCache) Reclaim(context.Context) (int64, error) {
	return 0, nil
}

func (r *RedisCache) key(serviceID string, analysisType domain.AnalysisType) string {
	return fmt.Sprintf("%s%s:%s", cacheKeyPrefix, serviceID, analysisType)
}
