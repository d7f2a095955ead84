package platform

import (
	"context"
	"time"

	"github.com/figures-analytics/figures/internal/shared/query"
)

// UserFilter narrows user listings to one site. Search matches username,
// email and profile name.
type UserFilter struct {
	query.ListFilter
	SiteID uint
}

// CourseFilter narrows course listings to one site. Search matches the
// course id, display name, number and org.
type CourseFilter struct {
	query.ListFilter
	SiteID uint
}

type SiteRepository interface {
	GetByID(ctx context.Context, id uint) (*Site, error)
	GetByDomain(ctx context.Context, domain string) (*Site, error)
	List(ctx context.Context) ([]*Site, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, siteID, id uint) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]*User, int64, error)
	// CountJoinedBefore counts site users whose date_joined is before end.
	CountJoinedBefore(ctx context.Context, siteID uint, end time.Time) (int64, error)
}

type CourseRepository interface {
	GetByID(ctx context.Context, siteID uint, courseID string) (*CourseOverview, error)
	List(ctx context.Context, filter CourseFilter) ([]*CourseOverview, int64, error)
	ListIDs(ctx context.Context, siteID uint) ([]string, error)
	Count(ctx context.Context, siteID uint) (int64, error)
}

type EnrollmentRepository interface {
	// ListForCourse returns enrollments with their users. An empty courseID
	// lists every enrollment of the site.
	ListForCourse(ctx context.Context, siteID uint, courseID string, page query.PageFilter) ([]*CourseEnrollment, int64, error)
	ListForUser(ctx context.Context, siteID, userID uint) ([]*CourseEnrollment, error)
	// CountActiveForCourse counts active enrollments created before end.
	CountActiveForCourse(ctx context.Context, courseID string, end time.Time) (int64, error)
	// ActiveForCourse returns active enrollments created before end.
	ActiveForCourse(ctx context.Context, courseID string, end time.Time) ([]*CourseEnrollment, error)
}

type AccessRoleRepository interface {
	ListForCourse(ctx context.Context, courseID string) ([]*CourseAccessRole, error)
	ListForCourses(ctx context.Context, courseIDs []string) (map[string][]*CourseAccessRole, error)
}

type CertificateRepository interface {
	// ListForCourse returns completed certificates created before end.
	ListForCourse(ctx context.Context, courseID string, end time.Time) ([]*GeneratedCertificate, error)
	GetForEnrollment(ctx context.Context, userID uint, courseID string) (*GeneratedCertificate, error)
}

type ActivityRepository interface {
	// CountActiveUsers counts distinct site learners with activity in
	// [from, to). A non-empty courseID restricts the count to that course.
	CountActiveUsers(ctx context.Context, siteID uint, from, to time.Time, courseID string) (int64, error)
}
