package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// LatestMetricsCache caches the newest daily metrics record of a site and of
// each course. Get returns found=false on a miss; found=true with a nil
// record means the database holds no record (null marker).
type LatestMetricsCache interface {
	GetSite(ctx context.Context, siteID uint) (m *metrics.SiteDailyMetrics, found bool, err error)
	SetSite(ctx context.Context, siteID uint, m *metrics.SiteDailyMetrics) error
	GetCourse(ctx context.Context, siteID uint, courseID string) (m *metrics.CourseDailyMetrics, found bool, err error)
	SetCourse(ctx context.Context, siteID uint, courseID string, m *metrics.CourseDailyMetrics) error
	// Invalidate drops the site entry and the entries of the given courses.
	Invalidate(ctx context.Context, siteID uint, courseIDs ...string) error
}

const (
	latestSiteKeyPrefix   = "figures:latest:site:"
	latestCourseKeyPrefix = "figures:latest:course:"
	latestTTLJitter       = 60 * time.Second
	latestNullMarkerTTL   = 30 * time.Second
	nullMarker            = "null"
)

type siteSnapshot struct {
	ID                        uint      `json:"id"`
	SiteID                    uint      `json:"site_id"`
	DateFor                   time.Time `json:"date_for"`
	CumulativeActiveUserCount *int      `json:"cumulative_active_user_count"`
	TodaysActiveUserCount     *int      `json:"todays_active_user_count"`
	TotalUserCount            int       `json:"total_user_count"`
	CourseCount               int       `json:"course_count"`
	TotalEnrollmentCount      int       `json:"total_enrollment_count"`
	MAU                       *int      `json:"mau"`
	Created                   time.Time `json:"created"`
	Modified                  time.Time `json:"modified"`
}

type courseSnapshot struct {
	ID                    uint             `json:"id"`
	SiteID                uint             `json:"site_id"`
	CourseID              string           `json:"course_id"`
	DateFor               time.Time        `json:"date_for"`
	EnrollmentCount       int              `json:"enrollment_count"`
	ActiveLearnersToday   int              `json:"active_learners_today"`
	AverageProgress       *decimal.Decimal `json:"average_progress"`
	AverageDaysToComplete *int             `json:"average_days_to_complete"`
	NumLearnersCompleted  int              `json:"num_learners_completed"`
	Created               time.Time        `json:"created"`
	Modified              time.Time        `json:"modified"`
}

// RedisLatestMetricsCache stores JSON snapshots of the latest records.
type RedisLatestMetricsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisLatestMetricsCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisLatestMetricsCache {
	return &RedisLatestMetricsCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func siteKey(siteID uint) string {
	return fmt.Sprintf("%s%d", latestSiteKeyPrefix, siteID)
}

func courseKey(siteID uint, courseID string) string {
	return fmt.Sprintf("%s%d:%s", latestCourseKeyPrefix, siteID, courseID)
}

func (c *RedisLatestMetricsCache) GetSite(ctx context.Context, siteID uint) (*metrics.SiteDailyMetrics, bool, error) {
	var snap siteSnapshot
	found, isNull, err := c.get(ctx, siteKey(siteID), &snap)
	if err != nil || !found || isNull {
		return nil, found, err
	}

	m, err := metrics.ReconstructSiteDailyMetrics(snap.ID, snap.SiteID, snap.DateFor, metrics.SiteDailyCounts{
		CumulativeActiveUserCount: snap.CumulativeActiveUserCount,
		TodaysActiveUserCount:     snap.TodaysActiveUserCount,
		TotalUserCount:            snap.TotalUserCount,
		CourseCount:               snap.CourseCount,
		TotalEnrollmentCount:      snap.TotalEnrollmentCount,
		MAU:                       snap.MAU,
	}, snap.Created, snap.Modified)
	if err != nil {
		// a snapshot that no longer validates is treated as a miss
		c.logger.Warnw("discarding invalid cached site metrics", "site_id", siteID, "error", err)
		return nil, false, nil
	}
	return m, true, nil
}

func (c *RedisLatestMetricsCache) SetSite(ctx context.Context, siteID uint, m *metrics.SiteDailyMetrics) error {
	if m == nil {
		return c.setNull(ctx, siteKey(siteID))
	}
	counts := m.Counts()
	return c.set(ctx, siteKey(siteID), siteSnapshot{
		ID:                        m.ID(),
		SiteID:                    m.SiteID(),
		DateFor:                   m.DateFor(),
		CumulativeActiveUserCount: counts.CumulativeActiveUserCount,
		TodaysActiveUserCount:     counts.TodaysActiveUserCount,
		TotalUserCount:            counts.TotalUserCount,
		CourseCount:               counts.CourseCount,
		TotalEnrollmentCount:      counts.TotalEnrollmentCount,
		MAU:                       counts.MAU,
		Created:                   m.CreatedAt(),
		Modified:                  m.UpdatedAt(),
	})
}

func (c *RedisLatestMetricsCache) GetCourse(ctx context.Context, siteID uint, courseID string) (*metrics.CourseDailyMetrics, bool, error) {
	var snap courseSnapshot
	found, isNull, err := c.get(ctx, courseKey(siteID, courseID), &snap)
	if err != nil || !found || isNull {
		return nil, found, err
	}

	m, err := metrics.ReconstructCourseDailyMetrics(snap.ID, snap.SiteID, snap.CourseID, snap.DateFor, metrics.CourseDailyCounts{
		EnrollmentCount:       snap.EnrollmentCount,
		ActiveLearnersToday:   snap.ActiveLearnersToday,
		AverageProgress:       snap.AverageProgress,
		AverageDaysToComplete: snap.AverageDaysToComplete,
		NumLearnersCompleted:  snap.NumLearnersCompleted,
	}, snap.Created, snap.Modified)
	if err != nil {
		c.logger.Warnw("discarding invalid cached course metrics",
			"site_id", siteID,
			"course_id", courseID,
			"error", err,
		)
		return nil, false, nil
	}
	return m, true, nil
}

func (c *RedisLatestMetricsCache) SetCourse(ctx context.Context, siteID uint, courseID string, m *metrics.CourseDailyMetrics) error {
	if m == nil {
		return c.setNull(ctx, courseKey(siteID, courseID))
	}
	counts := m.Counts()
	return c.set(ctx, courseKey(siteID, courseID), courseSnapshot{
		ID:                    m.ID(),
		SiteID:                m.SiteID(),
		CourseID:              m.CourseID(),
		DateFor:               m.DateFor(),
		EnrollmentCount:       counts.EnrollmentCount,
		ActiveLearnersToday:   counts.ActiveLearnersToday,
		AverageProgress:       counts.AverageProgress,
		AverageDaysToComplete: counts.AverageDaysToComplete,
		NumLearnersCompleted:  counts.NumLearnersCompleted,
		Created:               m.CreatedAt(),
		Modified:              m.UpdatedAt(),
	})
}

func (c *RedisLatestMetricsCache) Invalidate(ctx context.Context, siteID uint, courseIDs ...string) error {
	keys := make([]string, 0, len(courseIDs)+1)
	keys = append(keys, siteKey(siteID))
	for _, courseID := range courseIDs {
		keys = append(keys, courseKey(siteID, courseID))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate latest metrics cache: %w", err)
	}

	c.logger.Debugw("latest metrics cache invalidated",
		"site_id", siteID,
		"keys", len(keys),
	)
	return nil
}

func (c *RedisLatestMetricsCache) get(ctx context.Context, key string, dest interface{}) (found, isNull bool, err error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to get latest metrics from cache: %w", err)
	}
	if string(data) == nullMarker {
		return true, true, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warnw("discarding undecodable cache entry", "key", key, "error", err)
		return false, false, nil
	}
	return true, false, nil
}

func (c *RedisLatestMetricsCache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal latest metrics: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("failed to set latest metrics in cache: %w", err)
	}
	return nil
}

func (c *RedisLatestMetricsCache) setNull(ctx context.Context, key string) error {
	if err := c.client.Set(ctx, key, nullMarker, latestNullMarkerTTL).Err(); err != nil {
		return fmt.Errorf("failed to set null marker: %w", err)
	}
	return nil
}

// ttlWithJitter spreads expiry over [ttl, ttl + latestTTLJitter).
func (c *RedisLatestMetricsCache) ttlWithJitter() time.Duration {
	return c.ttl + time.Duration(rand.Int64N(int64(latestTTLJitter)))
}

// NoopLatestMetricsCache is used when redis is disabled. Every lookup misses.
type NoopLatestMetricsCache struct{}

func (NoopLatestMetricsCache) GetSite(context.Context, uint) (*metrics.SiteDailyMetrics, bool, error) {
	return nil, false, nil
}

func (NoopLatestMetricsCache) SetSite(context.Context, uint, *metrics.SiteDailyMetrics) error {
	return nil
}

func (NoopLatestMetricsCache) GetCourse(context.Context, uint, string) (*metrics.CourseDailyMetrics, bool, error) {
	return nil, false, nil
}

func (NoopLatestMetricsCache) SetCourse(context.Context, uint, string, *metrics.CourseDailyMetrics) error {
	return nil
}

func (NoopLatestMetricsCache) Invalidate(context.Context, uint, ...string) error {
	return nil
}
