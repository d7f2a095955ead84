package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/shared/biztime"
	"github.com/figures-analytics/figures/internal/shared/query"
)

var (
	testSite = &platform.Site{ID: 1, Domain: "learn.example.com", Name: "Example"}
	testDay  = biztime.Date(2024, time.March, 14)
)

const testCourseID = "course-v1:edX+DemoX+2024"

func intPtr(v int) *int { return &v }

func newSiteRecord(t *testing.T, id uint, date time.Time, counts metrics.SiteDailyCounts) *metrics.SiteDailyMetrics {
	t.Helper()
	m, err := metrics.ReconstructSiteDailyMetrics(id, testSite.ID, date, counts, date, date)
	require.NoError(t, err)
	return m
}

func newCourseRecord(t *testing.T, id uint, courseID string, date time.Time, enrolled int, progress string) *metrics.CourseDailyMetrics {
	t.Helper()
	counts := metrics.CourseDailyCounts{EnrollmentCount: enrolled}
	if progress != "" {
		d := decimal.RequireFromString(progress)
		counts.AverageProgress = &d
	}
	m, err := metrics.ReconstructCourseDailyMetrics(id, testSite.ID, courseID, date, counts, date, date)
	require.NoError(t, err)
	return m
}

type mockSiteDailyRepo struct {
	CreateFunc      func(ctx context.Context, m *metrics.SiteDailyMetrics) error
	GetOrCreateFunc func(ctx context.Context, siteID uint, dateFor time.Time, defaults metrics.SiteDailyCounts) (*metrics.SiteDailyMetrics, bool, error)
	UpdateFunc      func(ctx context.Context, m *metrics.SiteDailyMetrics) error
	GetByIDFunc     func(ctx context.Context, siteID, id uint) (*metrics.SiteDailyMetrics, error)
	LatestFunc      func(ctx context.Context, siteID uint, before time.Time) (*metrics.SiteDailyMetrics, error)
	ListFunc        func(ctx context.Context, filter metrics.SiteDailyMetricsFilter) ([]*metrics.SiteDailyMetrics, int64, error)
	updated         int
}

func (m *mockSiteDailyRepo) Create(ctx context.Context, r *metrics.SiteDailyMetrics) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	return r.SetID(1)
}

func (m *mockSiteDailyRepo) GetOrCreate(ctx context.Context, siteID uint, dateFor time.Time, defaults metrics.SiteDailyCounts) (*metrics.SiteDailyMetrics, bool, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, siteID, dateFor, defaults)
	}
	return nil, false, nil
}

func (m *mockSiteDailyRepo) Update(ctx context.Context, r *metrics.SiteDailyMetrics) error {
	m.updated++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, r)
	}
	return nil
}

func (m *mockSiteDailyRepo) GetByID(ctx context.Context, siteID, id uint) (*metrics.SiteDailyMetrics, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, siteID, id)
	}
	return nil, nil
}

func (m *mockSiteDailyRepo) GetByKey(ctx context.Context, siteID uint, dateFor time.Time) (*metrics.SiteDailyMetrics, error) {
	return nil, nil
}

func (m *mockSiteDailyRepo) Latest(ctx context.Context, siteID uint, before time.Time) (*metrics.SiteDailyMetrics, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, siteID, before)
	}
	return nil, nil
}

func (m *mockSiteDailyRepo) List(ctx context.Context, filter metrics.SiteDailyMetricsFilter) ([]*metrics.SiteDailyMetrics, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockCourseDailyRepo struct {
	CreateFunc           func(ctx context.Context, m *metrics.CourseDailyMetrics) error
	GetOrCreateFunc      func(ctx context.Context, siteID uint, courseID string, dateFor time.Time, defaults metrics.CourseDailyCounts) (*metrics.CourseDailyMetrics, bool, error)
	UpdateFunc           func(ctx context.Context, m *metrics.CourseDailyMetrics) error
	GetByIDFunc          func(ctx context.Context, siteID, id uint) (*metrics.CourseDailyMetrics, error)
	LatestFunc           func(ctx context.Context, siteID uint, courseID string) (*metrics.CourseDailyMetrics, error)
	LatestForCoursesFunc func(ctx context.Context, siteID uint, courseIDs []string) (map[string]*metrics.CourseDailyMetrics, error)
	ListFunc             func(ctx context.Context, filter metrics.CourseDailyMetricsFilter) ([]*metrics.CourseDailyMetrics, int64, error)
	latestCalls          int
	updated              int
}

func (m *mockCourseDailyRepo) Create(ctx context.Context, r *metrics.CourseDailyMetrics) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	return r.SetID(1)
}

func (m *mockCourseDailyRepo) GetOrCreate(ctx context.Context, siteID uint, courseID string, dateFor time.Time, defaults metrics.CourseDailyCounts) (*metrics.CourseDailyMetrics, bool, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, siteID, courseID, dateFor, defaults)
	}
	return nil, false, nil
}

func (m *mockCourseDailyRepo) Update(ctx context.Context, r *metrics.CourseDailyMetrics) error {
	m.updated++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, r)
	}
	return nil
}

func (m *mockCourseDailyRepo) GetByID(ctx context.Context, siteID, id uint) (*metrics.CourseDailyMetrics, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, siteID, id)
	}
	return nil, nil
}

func (m *mockCourseDailyRepo) GetByKey(ctx context.Context, siteID uint, courseID string, dateFor time.Time) (*metrics.CourseDailyMetrics, error) {
	return nil, nil
}

func (m *mockCourseDailyRepo) Latest(ctx context.Context, siteID uint, courseID string) (*metrics.CourseDailyMetrics, error) {
	m.latestCalls++
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, siteID, courseID)
	}
	return nil, nil
}

func (m *mockCourseDailyRepo) LatestForCourses(ctx context.Context, siteID uint, courseIDs []string) (map[string]*metrics.CourseDailyMetrics, error) {
	m.latestCalls++
	if m.LatestForCoursesFunc != nil {
		return m.LatestForCoursesFunc(ctx, siteID, courseIDs)
	}
	return map[string]*metrics.CourseDailyMetrics{}, nil
}

func (m *mockCourseDailyRepo) ListForDate(ctx context.Context, siteID uint, dateFor time.Time) ([]*metrics.CourseDailyMetrics, error) {
	return nil, nil
}

func (m *mockCourseDailyRepo) List(ctx context.Context, filter metrics.CourseDailyMetricsFilter) ([]*metrics.CourseDailyMetrics, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockMauRepo struct {
	ListSiteFunc   func(ctx context.Context, filter metrics.MauMetricsFilter) ([]*metrics.SiteMauMetrics, int64, error)
	ListCourseFunc func(ctx context.Context, filter metrics.MauMetricsFilter) ([]*metrics.CourseMauMetrics, int64, error)
}

func (m *mockMauRepo) UpsertSite(ctx context.Context, r *metrics.SiteMauMetrics) error {
	return nil
}

func (m *mockMauRepo) UpsertCourse(ctx context.Context, r *metrics.CourseMauMetrics) error {
	return nil
}

func (m *mockMauRepo) ListSite(ctx context.Context, filter metrics.MauMetricsFilter) ([]*metrics.SiteMauMetrics, int64, error) {
	if m.ListSiteFunc != nil {
		return m.ListSiteFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockMauRepo) ListCourse(ctx context.Context, filter metrics.MauMetricsFilter) ([]*metrics.CourseMauMetrics, int64, error) {
	if m.ListCourseFunc != nil {
		return m.ListCourseFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockMauRepo) LatestSite(ctx context.Context, siteID uint) (*metrics.SiteMauMetrics, error) {
	return nil, nil
}

func (m *mockMauRepo) LatestCourse(ctx context.Context, siteID uint, courseID string) (*metrics.CourseMauMetrics, error) {
	return nil, nil
}

type mockGradeRepo struct {
	HistoryFunc func(ctx context.Context, siteID, userID uint, courseID string) ([]*metrics.LearnerCourseGradeMetrics, error)
}

func (m *mockGradeRepo) GetOrCreate(ctx context.Context, siteID, userID uint, courseID string, dateFor time.Time, defaults metrics.GradeCounts) (*metrics.LearnerCourseGradeMetrics, bool, error) {
	return nil, false, nil
}

func (m *mockGradeRepo) Latest(ctx context.Context, siteID, userID uint, courseID string) (*metrics.LearnerCourseGradeMetrics, error) {
	return nil, nil
}

func (m *mockGradeRepo) History(ctx context.Context, siteID, userID uint, courseID string) ([]*metrics.LearnerCourseGradeMetrics, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, siteID, userID, courseID)
	}
	return nil, nil
}

func (m *mockGradeRepo) LatestForCourse(ctx context.Context, siteID uint, courseID string, asOf time.Time) ([]*metrics.LearnerCourseGradeMetrics, error) {
	return nil, nil
}

type mockCourseRepo struct {
	courses  []*platform.CourseOverview
	ListFunc func(ctx context.Context, filter platform.CourseFilter) ([]*platform.CourseOverview, int64, error)
}

func (m *mockCourseRepo) GetByID(ctx context.Context, siteID uint, courseID string) (*platform.CourseOverview, error) {
	for _, c := range m.courses {
		if c.SiteID == siteID && c.ID == courseID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCourseRepo) List(ctx context.Context, filter platform.CourseFilter) ([]*platform.CourseOverview, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return m.courses, int64(len(m.courses)), nil
}

func (m *mockCourseRepo) ListIDs(ctx context.Context, siteID uint) ([]string, error) {
	ids := make([]string, 0, len(m.courses))
	for _, c := range m.courses {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (m *mockCourseRepo) Count(ctx context.Context, siteID uint) (int64, error) {
	return int64(len(m.courses)), nil
}

type mockUserRepo struct {
	users    []*platform.User
	ListFunc func(ctx context.Context, filter platform.UserFilter) ([]*platform.User, int64, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, siteID, id uint) (*platform.User, error) {
	for _, u := range m.users {
		if u.SiteID == siteID && u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter platform.UserFilter) ([]*platform.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return m.users, int64(len(m.users)), nil
}

func (m *mockUserRepo) CountJoinedBefore(ctx context.Context, siteID uint, end time.Time) (int64, error) {
	return int64(len(m.users)), nil
}

type mockEnrollmentRepo struct {
	enrollments       []*platform.CourseEnrollment
	ListForCourseFunc func(ctx context.Context, siteID uint, courseID string, page query.PageFilter) ([]*platform.CourseEnrollment, int64, error)
}

func (m *mockEnrollmentRepo) ListForCourse(ctx context.Context, siteID uint, courseID string, page query.PageFilter) ([]*platform.CourseEnrollment, int64, error) {
	if m.ListForCourseFunc != nil {
		return m.ListForCourseFunc(ctx, siteID, courseID, page)
	}
	return m.enrollments, int64(len(m.enrollments)), nil
}

func (m *mockEnrollmentRepo) ListForUser(ctx context.Context, siteID, userID uint) ([]*platform.CourseEnrollment, error) {
	var out []*platform.CourseEnrollment
	for _, e := range m.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepo) CountActiveForCourse(ctx context.Context, courseID string, end time.Time) (int64, error) {
	return 0, nil
}

func (m *mockEnrollmentRepo) ActiveForCourse(ctx context.Context, courseID string, end time.Time) ([]*platform.CourseEnrollment, error) {
	return nil, nil
}

type mockAccessRoleRepo struct {
	roles map[string][]*platform.CourseAccessRole
}

func (m *mockAccessRoleRepo) ListForCourse(ctx context.Context, courseID string) ([]*platform.CourseAccessRole, error) {
	return m.roles[courseID], nil
}

func (m *mockAccessRoleRepo) ListForCourses(ctx context.Context, courseIDs []string) (map[string][]*platform.CourseAccessRole, error) {
	out := make(map[string][]*platform.CourseAccessRole, len(courseIDs))
	for _, id := range courseIDs {
		if roles, ok := m.roles[id]; ok {
			out[id] = roles
		}
	}
	return out, nil
}

type mockCertificateRepo struct {
	certs map[string]*platform.GeneratedCertificate
}

func (m *mockCertificateRepo) ListForCourse(ctx context.Context, courseID string, end time.Time) ([]*platform.GeneratedCertificate, error) {
	return nil, nil
}

func (m *mockCertificateRepo) GetForEnrollment(ctx context.Context, userID uint, courseID string) (*platform.GeneratedCertificate, error) {
	return m.certs[courseID], nil
}

type mockActivityRepo struct {
	count    int64
	from, to time.Time
	courseID string
}

func (m *mockActivityRepo) CountActiveUsers(ctx context.Context, siteID uint, from, to time.Time, courseID string) (int64, error) {
	m.from, m.to, m.courseID = from, to, courseID
	return m.count, nil
}
