// internal/cache/catalog.go
package cache

import (
	"context"
	"time"

	"career-workers/internal/common/database"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:career_paths"

// CareerLister is the catalog collaborator: a snapshot of all career paths.
type CareerLister interface {
	ListCareerPaths(ctx context.Context) ([]models.CareerPath, error)
}

// Catalog serves the career catalog from Redis, falling back to source on a
// miss. Redis errors are logged and bypassed.
type Catalog struct {
	source CareerLister
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCatalog(source CareerLister, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *Catalog {
	return &Catalog{source: source, rdb: rdb, ttl: ttl, logger: log}
}

func (c *Catalog) ListCareerPaths(ctx context.Context) ([]models.CareerPath, error) {
	var careers []models.CareerPath
	found, err := database.GetJSON(ctx, c.rdb, catalogKey, &careers)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("catalog", "error").Inc()
		c.logger.Warn("catalog cache read failed", map[string]interface{}{"error": err.Error()})
	case found:
		metrics.CacheLookups.WithLabelValues("catalog", "hit").Inc()
		return careers, nil
	default:
		metrics.CacheLookups.WithLabelValues("catalog", "miss").Inc()
	}

	careers, err = c.source.ListCareerPaths(ctx)
	if err != nil {
		return nil, err
	}

	if err := database.SetJSON(ctx, c.rdb, catalogKey, careers, c.ttl); err != nil {
		c.logger.Warn("catalog cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return careers, nil
}
