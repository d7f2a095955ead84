package platform

import "time"

// CourseOverview describes a course run. ID is the course key.
type CourseOverview struct {
	ID          string
	SiteID      uint
	DisplayName string
	Number      string
	Org         string
	Start       *time.Time
	End         *time.Time
	SelfPaced   bool
}

type CourseEnrollment struct {
	ID       uint
	UserID   uint
	CourseID string
	Created  time.Time
	IsActive bool
	Mode     string
	User     *User
	Course   *CourseOverview
}

// CourseAccessRole grants a user a staff role on a course.
type CourseAccessRole struct {
	ID       uint
	UserID   uint
	CourseID string
	Org      string
	Role     string
	User     *User
}

// Certificate statuses that count as a completion.
const CertificateStatusDownloadable = "downloadable"

type GeneratedCertificate struct {
	ID          uint
	UserID      uint
	CourseID    string
	CreatedDate time.Time
	Status      string
}

// LearnerActivity is one touch of courseware by a learner.
type LearnerActivity struct {
	ID       uint
	UserID   uint
	CourseID string
	Modified time.Time
}
