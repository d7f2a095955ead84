package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/query"
)

const otherCourseID = "course-v1:edX+Intro+2024"

func courseFixtures() (*mockCourseRepo, *mockAccessRoleRepo) {
	courses := &mockCourseRepo{courses: []*platform.CourseOverview{
		{ID: testCourseID, SiteID: testSite.ID, DisplayName: "Demo", Number: "DemoX", Org: "edX"},
		{ID: otherCourseID, SiteID: testSite.ID, DisplayName: "Intro", Number: "Intro", Org: "edX"},
	}}
	staff := &platform.User{ID: 2, Username: "instructor", Profile: &platform.UserProfile{Name: "Ada Staff"}}
	roles := &mockAccessRoleRepo{roles: map[string][]*platform.CourseAccessRole{
		testCourseID: {{ID: 1, UserID: 2, CourseID: testCourseID, Org: "edX", Role: "instructor", User: staff}},
	}}
	return courses, roles
}

func TestListGeneralCourseData(t *testing.T) {
	courses, roles := courseFixtures()
	var filter platform.CourseFilter
	courses.ListFunc = func(ctx context.Context, f platform.CourseFilter) ([]*platform.CourseOverview, int64, error) {
		filter = f
		return courses.courses, 2, nil
	}
	metricsRepo := &mockCourseDailyRepo{
		LatestForCoursesFunc: func(ctx context.Context, siteID uint, courseIDs []string) (map[string]*metrics.CourseDailyMetrics, error) {
			return map[string]*metrics.CourseDailyMetrics{
				testCourseID: newCourseRecord(t, 1, testCourseID, testDay, 12, "0.75"),
			}, nil
		},
	}
	reader := NewLatestMetricsReader(&mockSiteDailyRepo{}, metricsRepo, nil, logger.NewNop())
	uc := NewListGeneralCourseDataUseCase(courses, roles, reader, logger.NewNop())

	page, err := uc.Execute(context.Background(), SearchQuery{
		Site: testSite, Search: "demo", Ordering: "-course_name", PageQuery: PageQuery{Limit: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	assert.Equal(t, "demo", filter.Search)
	assert.Equal(t, "-course_name", filter.Ordering)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, testSite.ID, filter.SiteID)

	require.Len(t, page.Results, 2)
	demo, intro := page.Results[0], page.Results[1]
	require.Len(t, demo.Staff, 1)
	assert.Equal(t, "Ada Staff", demo.Staff[0].Fullname)
	require.NotNil(t, demo.Metrics)
	assert.Equal(t, 12, demo.Metrics.EnrollmentCount)
	assert.Empty(t, intro.Staff)
	assert.Nil(t, intro.Metrics)
}

func TestListGeneralCourseData_EmptyPage(t *testing.T) {
	courses := &mockCourseRepo{}
	metricsRepo := &mockCourseDailyRepo{}
	reader := NewLatestMetricsReader(&mockSiteDailyRepo{}, metricsRepo, nil, logger.NewNop())
	uc := NewListGeneralCourseDataUseCase(courses, &mockAccessRoleRepo{}, reader, logger.NewNop())

	page, err := uc.Execute(context.Background(), SearchQuery{Site: testSite})

	require.NoError(t, err)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
	assert.Zero(t, metricsRepo.latestCalls)
}

func TestGetCourseDetails(t *testing.T) {
	courses, roles := courseFixtures()
	metricsRepo := &mockCourseDailyRepo{
		LatestFunc: func(ctx context.Context, siteID uint, courseID string) (*metrics.CourseDailyMetrics, error) {
			if courseID == testCourseID {
				return newCourseRecord(t, 1, testCourseID, testDay, 12, "0.75"), nil
			}
			return nil, nil
		},
	}
	reader := NewLatestMetricsReader(&mockSiteDailyRepo{}, metricsRepo, nil, logger.NewNop())
	uc := NewGetCourseDetailsUseCase(courses, roles, reader, logger.NewNop())

	got, err := uc.Execute(context.Background(), CourseQuery{Site: testSite, CourseID: testCourseID})
	require.NoError(t, err)
	assert.Equal(t, "Demo", got.CourseName)
	assert.Equal(t, 12, got.LearnersEnrolled)
	require.NotNil(t, got.AverageProgress)
	assert.Equal(t, "0.75", *got.AverageProgress)
	assert.Len(t, got.Staff, 1)

	got, err = uc.Execute(context.Background(), CourseQuery{Site: testSite, CourseID: otherCourseID})
	require.NoError(t, err)
	assert.Zero(t, got.LearnersEnrolled)
	assert.Nil(t, got.AverageProgress)

	_, err = uc.Execute(context.Background(), CourseQuery{Site: testSite, CourseID: "course-v1:edX+Gone+2020"})
	assert.True(t, errors.IsNotFoundError(err))

	_, err = uc.Execute(context.Background(), CourseQuery{Site: testSite, CourseID: "not-a-key"})
	assert.True(t, errors.IsValidationError(err))
}

func TestGetGeneralCourseData(t *testing.T) {
	courses, roles := courseFixtures()
	reader := NewLatestMetricsReader(&mockSiteDailyRepo{}, &mockCourseDailyRepo{}, nil, logger.NewNop())
	uc := NewGetGeneralCourseDataUseCase(courses, roles, reader, logger.NewNop())

	got, err := uc.Execute(context.Background(), CourseQuery{Site: testSite, CourseID: otherCourseID})

	require.NoError(t, err)
	assert.Equal(t, otherCourseID, got.CourseID)
	assert.Nil(t, got.Metrics)
	assert.NotNil(t, got.Staff)
}

func userFixtures() (*mockUserRepo, *mockEnrollmentRepo) {
	joined := time.Date(2023, time.September, 1, 10, 0, 0, 0, time.UTC)
	users := &mockUserRepo{users: []*platform.User{
		{ID: 10, SiteID: testSite.ID, Username: "alice", Email: "alice@example.com", IsActive: true, DateJoined: joined,
			Profile: &platform.UserProfile{Name: "Alice A", Country: "NZ"}},
		{ID: 11, SiteID: testSite.ID, Username: "bob", Email: "bob@example.com", DateJoined: joined},
	}}
	course := &platform.CourseOverview{ID: testCourseID, DisplayName: "Demo", Number: "DemoX"}
	enrollments := &mockEnrollmentRepo{enrollments: []*platform.CourseEnrollment{
		{ID: 100, UserID: 10, CourseID: testCourseID, Created: joined, IsActive: true, Mode: "audit", User: users.users[0], Course: course},
		{ID: 101, UserID: 10, CourseID: otherCourseID, Created: joined, IsActive: true, Mode: "verified", User: users.users[0],
			Course: &platform.CourseOverview{ID: otherCourseID, DisplayName: "Intro", Number: "Intro"}},
	}}
	return users, enrollments
}

func TestListUserIndex(t *testing.T) {
	users, _ := userFixtures()
	var filter platform.UserFilter
	users.ListFunc = func(ctx context.Context, f platform.UserFilter) ([]*platform.User, int64, error) {
		filter = f
		return users.users[:1], 2, nil
	}
	uc := NewListUserIndexUseCase(users, logger.NewNop())

	page, err := uc.Execute(context.Background(), SearchQuery{Site: testSite, Search: "ali", PageQuery: PageQuery{Limit: 1}})

	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Alice A", page.Results[0].Fullname)
	assert.Equal(t, "ali", filter.Search)
	assert.Equal(t, query.PageFilter{Limit: 1}, filter.PageFilter)
}

func TestListGeneralUserData_KeepsOrder(t *testing.T) {
	users, enrollments := userFixtures()
	uc := NewListGeneralUserDataUseCase(users, enrollments, logger.NewNop())

	page, err := uc.Execute(context.Background(), SearchQuery{Site: testSite})

	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "alice", page.Results[0].Username)
	assert.Len(t, page.Results[0].Courses, 2)
	assert.Equal(t, "NZ", page.Results[0].Country)
	assert.Equal(t, "bob", page.Results[1].Username)
	assert.Empty(t, page.Results[1].Courses)
	assert.Equal(t, "2023-09-01", page.Results[1].DateJoined)
}

func TestGetLearnerDetails(t *testing.T) {
	users, enrollments := userFixtures()
	certs := &mockCertificateRepo{certs: map[string]*platform.GeneratedCertificate{
		testCourseID:  {ID: 1, UserID: 10, CourseID: testCourseID, Status: platform.CertificateStatusDownloadable, CreatedDate: testDay},
		otherCourseID: {ID: 2, UserID: 10, CourseID: otherCourseID, Status: "notpassing", CreatedDate: testDay},
	}}
	grades := &mockGradeRepo{
		HistoryFunc: func(ctx context.Context, siteID, userID uint, courseID string) ([]*metrics.LearnerCourseGradeMetrics, error) {
			if courseID != testCourseID {
				return nil, nil
			}
			first, err := metrics.NewLearnerCourseGradeMetrics(siteID, userID, courseID, testDay.AddDate(0, 0, -1),
				metrics.GradeCounts{SectionsWorked: 1, SectionsPossible: 4})
			require.NoError(t, err)
			second, err := metrics.NewLearnerCourseGradeMetrics(siteID, userID, courseID, testDay,
				metrics.GradeCounts{SectionsWorked: 4, SectionsPossible: 4, PointsEarned: 8, PointsPossible: 10})
			require.NoError(t, err)
			return []*metrics.LearnerCourseGradeMetrics{first, second}, nil
		},
	}
	uc := NewGetLearnerDetailsUseCase(users, enrollments, certs, grades, "https://cdn.example.com/profile-images", logger.NewNop())

	got, err := uc.Execute(context.Background(), LearnerQuery{Site: testSite, UserID: 10})

	require.NoError(t, err)
	assert.Equal(t, "Alice A", got.Name)
	require.Len(t, got.Courses, 2)

	demo := got.Courses[0]
	assert.Equal(t, uint(100), demo.EnrollmentID)
	assert.Equal(t, "2024-03-14T00:00:00Z", demo.ProgressData.CourseCompleted)
	assert.InDelta(t, 1.0, demo.ProgressData.CourseProgress, 0.001)
	assert.Len(t, demo.ProgressData.CourseProgressHistory, 2)

	intro := got.Courses[1]
	assert.Equal(t, false, intro.ProgressData.CourseCompleted)
	assert.Empty(t, intro.ProgressData.CourseProgressHistory)
	assert.Equal(t, "https://cdn.example.com/profile-images/default_500.png", got.ProfileImage.ImageURLFull)

	_, err = uc.Execute(context.Background(), LearnerQuery{Site: testSite, UserID: 404})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestListCourseEnrollments(t *testing.T) {
	_, enrollments := userFixtures()
	var gotCourse string
	var gotPage query.PageFilter
	enrollments.ListForCourseFunc = func(ctx context.Context, siteID uint, courseID string, page query.PageFilter) ([]*platform.CourseEnrollment, int64, error) {
		gotCourse, gotPage = courseID, page
		return enrollments.enrollments[:1], 1, nil
	}
	uc := NewListCourseEnrollmentsUseCase(enrollments, logger.NewNop())

	page, err := uc.Execute(context.Background(), ListCourseEnrollmentsQuery{
		Site: testSite, CourseID: testCourseID, PageQuery: PageQuery{Limit: 5, Offset: 5},
	})

	require.NoError(t, err)
	assert.Equal(t, testCourseID, gotCourse)
	assert.Equal(t, query.PageFilter{Limit: 5, Offset: 5}, gotPage)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "alice", page.Results[0].User.Username)
}
