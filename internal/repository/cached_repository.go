package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/yourusername/hindsight/internal/metrics"
	"github.com/yourusername/hindsight/internal/models"
)

const defaultCacheTTL = 5 * time.Minute

// CachedPredictionRepository wraps a PredictionRepository with an in-memory TTL cache.
// Backtest sweeps re-read the same date ranges many times, so cache hits dominate.
type CachedPredictionRepository struct {
	inner PredictionRepository
	cache *cache.Cache
}

// NewCachedPredictionRepository creates a caching decorator around the given repository
func NewCachedPredictionRepository(inner PredictionRepository, ttl time.Duration) *CachedPredictionRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedPredictionRepository{
		inner: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

// GetSettledByDateRange retrieves settled predictions, serving repeated range queries from cache
func (r *CachedPredictionRepository) GetSettledByDateRange(ctx context.Context, start, end time.Time, league string) ([]*models.PredictionRecord, error) {
	key := fmt.Sprintf("range:%s:%s:%s", start.Format("2006-01-02"), end.Format("2006-01-02"), league)

	if cached, found := r.cache.Get(key); found {
		metrics.RecordPredictionCache("hit")
		return cached.([]*models.PredictionRecord), nil
	}
	metrics.RecordPredictionCache("miss")

	records, err := r.inner.GetSettledByDateRange(ctx, start, end, league)
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, records, cache.DefaultExpiration)
	return records, nil
}

// GetByMatchID retrieves all predictions for a single match
func (r *CachedPredictionRepository) GetByMatchID(ctx context.Context, matchID string) ([]*models.PredictionRecord, error) {
	key := "match:" + matchID

	if cached, found := r.cache.Get(key); found {
		metrics.RecordPredictionCache("hit")
		return cached.([]*models.PredictionRecord), nil
	}
	metrics.RecordPredictionCache("miss")

	records, err := r.inner.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, records, cache.DefaultExpiration)
	return records, nil
}

// GetAlgorithmIDs retrieves the distinct algorithm identifiers present in the store
func (r *CachedPredictionRepository) GetAlgorithmIDs(ctx context.Context) ([]string, error) {
	key := "algorithms"

	if cached, found := r.cache.Get(key); found {
		metrics.RecordPredictionCache("hit")
		return cached.([]string), nil
	}
	metrics.RecordPredictionCache("miss")

	ids, err := r.inner.GetAlgorithmIDs(ctx)
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, ids, cache.DefaultExpiration)
	return ids, nil
}

// Flush discards all cached entries
func (r *CachedPredictionRepository) Flush() {
	r.cache.Flush()
}
