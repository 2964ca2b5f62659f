// internal/cache/latest.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-workers/internal/common/database"
	"career-workers/internal/common/metrics"
	"career-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

func latestKey(userID string) string { return "assessment:latest:" + userID }

// LatestAssessments caches each user's most recent submitted assessment.
type LatestAssessments struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewLatestAssessments(rdb redis.Cmdable, ttl time.Duration) *LatestAssessments {
	return &LatestAssessments{rdb: rdb, ttl: ttl}
}

func (l *LatestAssessments) Get(ctx context.Context, userID string) (models.AssessmentProfile, bool, error) {
	var p models.AssessmentProfile
	found, err := database.GetJSON(ctx, l.rdb, latestKey(userID), &p)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("latest_assessment", "error").Inc()
		return models.AssessmentProfile{}, false, err
	}
	if !found {
		metrics.CacheLookups.WithLabelValues("latest_assessment", "miss").Inc()
		return models.AssessmentProfile{}, false, nil
	}
	metrics.CacheLookups.WithLabelValues("latest_assessment", "hit").Inc()
	return p, true, nil
}

func (l *LatestAssessments) Set(ctx context.Context, p models.AssessmentProfile) error {
	return database.SetJSON(ctx, l.rdb, latestKey(p.UserID), p, l.ttl)
}

// Fill caches p only when the user has no entry yet. Read-through callers use
// it so an older row never replaces one written by a newer submission.
func (l *LatestAssessments) Fill(ctx context.Context, p models.AssessmentProfile) (bool, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("encode latest assessment: %w", err)
	}
	return l.rdb.SetNX(ctx, latestKey(p.UserID), data, l.ttl).Result()
}
