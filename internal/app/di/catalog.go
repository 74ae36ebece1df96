package di

import (
	serieslistadapters "insee_backend/internal/feature/serieslist/adapters"
	"insee_backend/internal/feature/serieslist/usecase"
	"insee_backend/internal/platform/cache"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewCatalogRepository creates the series catalog repository, wrapped in a
// Redis cache whose entries expire at the next 08:00 Europe/Paris.
// rdb may be nil, in which case every call hits the database directly.
func NewCatalogRepository(rdb *redis.Client, db *gorm.DB) usecase.SeriesRepository {
	inner := serieslistadapters.NewSeriesRepository(db)
	ttl := cache.TimeUntilNext8AM()
	return cache.NewCachingSeriesRepository(rdb, ttl, inner, "catalog")
}
