// internal/assessment/session/store.go
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"career-workers/internal/assessment"
	"career-workers/internal/common/database"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("ASSESSMENT_SESSION_NOT_FOUND")

const (
	sessionKeyPrefix = "assessment:session:"
	lockKeyPrefix    = "assessment:submit-lock:"
)

// Store keeps collector snapshots in Redis between jobs.
type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func sessionKey(sessionID string) string { return sessionKeyPrefix + sessionID }
func lockKey(sessionID string) string { return lockKeyPrefix + sessionID }

// Load restores the collector saved under sessionID.
func (s *Store) Load(ctx context.Context, sessionID string) (*assessment.Collector, error) {
	var snap assessment.Snapshot
	found, err := database.GetJSON(ctx, s.rdb, sessionKey(sessionID), &snap)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return assessment.Restore(snap), nil
}

// Save stores the collector state and refreshes the session TTL.
func (s *Store) Save(ctx context.Context, sessionID string, c *assessment.Collector) (assessment.Snapshot, error) {
	snap := c.Snapshot(sessionID)
	if err := database.SetJSON(ctx, s.rdb, sessionKey(sessionID), snap, s.ttl); err != nil {
		return snap, fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return snap, nil
}

// AcquireSubmitLock marks a submission for sessionID as in flight. It returns
// false when another submission already holds the lock.
func (s *Store) AcquireSubmitLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, lockKey(sessionID), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire submit lock %s: %w", sessionID, err)
	}
	return ok, nil
}

func (s *Store) ReleaseSubmitLock(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, lockKey(sessionID)).Err()
}
