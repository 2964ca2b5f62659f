package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"career-workers/internal/common/logger"
	"career-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	careers []models.CareerPath
	err     error
	calls   int
}

func (s *stubLister) ListCareerPaths(ctx context.Context) ([]models.CareerPath, error) {
	s.calls++
	return s.careers, s.err
}

func newMiniRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func TestCatalog_CacheAside(t *testing.T) {
	rdb, mr := newMiniRedis(t)
	source := &stubLister{careers: []models.CareerPath{
		{ID: "c-1", Title: "Data Scientist", Category: "technology", SkillsRequired: []string{"Python"}},
	}}
	catalog := NewCatalog(source, rdb, 10*time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	first, err := catalog.ListCareerPaths(ctx)
	require.NoError(t, err)
	second, err := catalog.ListCareerPaths(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 10*time.Minute, mr.TTL(catalogKey))

	mr.FastForward(11 * time.Minute)
	_, err = catalog.ListCareerPaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCatalog_SourceError(t *testing.T) {
	rdb, mr := newMiniRedis(t)
	source := &stubLister{err: errors.New("db down")}
	catalog := NewCatalog(source, rdb, time.Minute, logger.NewTestLogger(t))

	_, err := catalog.ListCareerPaths(context.Background())
	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists(catalogKey))
}

func TestCatalog_RedisDownFallsThrough(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	source := &stubLister{careers: []models.CareerPath{{ID: "c-1", Title: "Lawyer", Category: "law"}}}
	catalog := NewCatalog(source, rdb, time.Minute, logger.NewTestLogger(t))

	mock.ExpectGet(catalogKey).SetErr(errors.New("connection refused"))
	mock.Regexp().ExpectSet(catalogKey, `.*`, time.Minute).SetErr(errors.New("connection refused"))

	careers, err := catalog.ListCareerPaths(context.Background())
	require.NoError(t, err)
	assert.Len(t, careers, 1)
	assert.Equal(t, 1, source.calls)
}

func TestLatestAssessments(t *testing.T) {
	rdb, _ := newMiniRedis(t)
	latest := NewLatestAssessments(rdb, time.Hour)
	ctx := context.Background()

	_, found, err := latest.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, found)

	p := models.AssessmentProfile{ID: "a-1", UserID: "user-1", StudentLevel: models.LevelUG, Skills: []string{"Design"}}
	require.NoError(t, latest.Set(ctx, p))

	got, found, err := latest.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a-1", got.ID)
	assert.Equal(t, []string{"Design"}, got.Skills)
}

func TestLatestAssessments_FillKeepsNewer(t *testing.T) {
	rdb, mr := newMiniRedis(t)
	latest := NewLatestAssessments(rdb, time.Hour)
	ctx := context.Background()

	older := models.AssessmentProfile{ID: "a-1", UserID: "user-1", StudentLevel: models.LevelUG}
	newer := models.AssessmentProfile{ID: "a-2", UserID: "user-1", StudentLevel: models.LevelPG}

	filled, err := latest.Fill(ctx, older)
	require.NoError(t, err)
	assert.True(t, filled)
	assert.Equal(t, time.Hour, mr.TTL("assessment:latest:user-1"))

	require.NoError(t, latest.Set(ctx, newer))

	filled, err = latest.Fill(ctx, older)
	require.NoError(t, err)
	assert.False(t, filled)

	got, found, err := latest.Get(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a-2", got.ID)
}
