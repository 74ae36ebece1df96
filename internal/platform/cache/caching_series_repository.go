// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"insee_backend/internal/feature/serieslist/domain/entity"
	"insee_backend/internal/feature/serieslist/usecase"
)

// DefaultTTL はTTLが指定されない場合のキャッシュ有効期間です。
const DefaultTTL = 5 * time.Minute

// CachingSeriesRepository decorates a SeriesRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Only the catalog listings are cached;
// single-row lookups and writes go straight to the inner repository.
type CachingSeriesRepository struct {
	inner     usecase.SeriesRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingSeriesRepositoryがSeriesRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.SeriesRepository = (*CachingSeriesRepository)(nil)

// NewCachingSeriesRepository decorates a SeriesRepository with Redis caching.
// If ttl is 0, it defaults to DefaultTTL. If namespace is empty, it uses "catalog".
func NewCachingSeriesRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SeriesRepository, namespace string) *CachingSeriesRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "catalog"
	}
	return &CachingSeriesRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ListActive retrieves the catalog, checking cache first then falling back to the database.
func (c *CachingSeriesRepository) ListActive(ctx context.Context) ([]entity.Series, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListActive(ctx)
	}

	key := c.namespace + ":active"

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Series
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// ListActiveIdbanks retrieves the active idbanks, cached under a separate key.
func (c *CachingSeriesRepository) ListActiveIdbanks(ctx context.Context) ([]string, error) {
	if c.rdb == nil {
		return c.inner.ListActiveIdbanks(ctx)
	}

	key := c.namespace + ":idbanks"

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []string
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.ListActiveIdbanks(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// FindByIDBank は単一行の取得で、キャッシュを経由せず内側のリポジトリへ委譲します。
func (c *CachingSeriesRepository) FindByIDBank(ctx context.Context, idbank string) (*entity.Series, error) {
	return c.inner.FindByIDBank(ctx, idbank)
}

// UpsertBatch inserts or updates series and invalidates the catalog cache entries.
func (c *CachingSeriesRepository) UpsertBatch(ctx context.Context, series []entity.Series) error {
	// First upsert to the underlying repository
	if err := c.inner.UpsertBatch(ctx, series); err != nil {
		return err
	}
	// Exit early if Redis is not configured or there is nothing to invalidate
	if c.rdb == nil || len(series) == 0 {
		return nil
	}

	// Invalidate the catalog listings (best effort: don't fail if deletion fails)
	_ = c.deleteByPattern(ctx, c.namespace+":*")
	return nil
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSeriesRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
