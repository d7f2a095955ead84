package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func intPtr(v int) *int { return &v }

func TestRedisLatestMetricsCache_Site(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisLatestMetricsCache(client, time.Minute, logger.NewNop())
	ctx := context.Background()

	_, found, err := c.GetSite(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)

	created := time.Date(2018, 1, 2, 3, 4, 5, 0, time.UTC)
	m, err := metrics.ReconstructSiteDailyMetrics(7, 1, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), metrics.SiteDailyCounts{
		TodaysActiveUserCount: intPtr(3),
		TotalUserCount:        10,
		CourseCount:           2,
		TotalEnrollmentCount:  5,
	}, created, created)
	require.NoError(t, err)
	require.NoError(t, c.SetSite(ctx, 1, m))

	got, found, err := c.GetSite(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint(7), got.ID())
	assert.Equal(t, 10, got.TotalUserCount())
	assert.Equal(t, 3, *got.TodaysActiveUserCount())
	assert.Nil(t, got.MAU())
	assert.True(t, got.CreatedAt().Equal(created))
}

func TestRedisLatestMetricsCache_CourseAndNullMarker(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisLatestMetricsCache(client, time.Minute, logger.NewNop())
	ctx := context.Background()
	courseID := "course-v1:edX+DemoX+Demo_Course"

	require.NoError(t, c.SetCourse(ctx, 1, courseID, nil))
	got, found, err := c.GetCourse(ctx, 1, courseID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, got)

	progress := decimal.RequireFromString("0.45")
	m, err := metrics.ReconstructCourseDailyMetrics(3, 1, courseID, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), metrics.CourseDailyCounts{
		EnrollmentCount: 4,
		AverageProgress: &progress,
	}, time.Now().UTC(), time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, c.SetCourse(ctx, 1, courseID, m))

	got, found, err = c.GetCourse(ctx, 1, courseID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "0.45", got.AverageProgress().StringFixed(2))

	ttl := mr.TTL(courseKey(1, courseID))
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, time.Minute+latestTTLJitter)

	require.NoError(t, c.Invalidate(ctx, 1, courseID))
	_, found, err = c.GetCourse(ctx, 1, courseID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisLatestMetricsCache_CorruptEntryIsMiss(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisLatestMetricsCache(client, time.Minute, logger.NewNop())

	require.NoError(t, mr.Set(siteKey(2), "{not json"))
	_, found, err := c.GetSite(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNoopLatestMetricsCache(t *testing.T) {
	var c LatestMetricsCache = NoopLatestMetricsCache{}
	ctx := context.Background()

	assert.NoError(t, c.SetSite(ctx, 1, nil))
	_, found, err := c.GetSite(ctx, 1)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Invalidate(ctx, 1, "a"))
}
