package dto

import (
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
)

// CourseStaffDTO is one access role holder of a course.
type CourseStaffDTO struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
}

type CourseDetailsDTO struct {
	CourseID              string            `json:"course_id"`
	CourseName            string            `json:"course_name"`
	CourseCode            string            `json:"course_code"`
	Org                   string            `json:"org"`
	StartDate             *string           `json:"start_date"`
	EndDate               *string           `json:"end_date"`
	SelfPaced             bool              `json:"self_paced"`
	Staff                 []*CourseStaffDTO `json:"staff"`
	AverageProgress       *string           `json:"average_progress"`
	LearnersEnrolled      int               `json:"learners_enrolled"`
	AverageDaysToComplete *int              `json:"average_days_to_complete"`
	UsersCompleted        int               `json:"users_completed"`
}

type GeneralCourseDataDTO struct {
	CourseID   string                 `json:"course_id"`
	CourseName string                 `json:"course_name"`
	CourseCode string                 `json:"course_code"`
	Org        string                 `json:"org"`
	StartDate  *string                `json:"start_date"`
	EndDate    *string                `json:"end_date"`
	SelfPaced  bool                   `json:"self_paced"`
	Staff      []*CourseStaffDTO      `json:"staff"`
	Metrics    *CourseDailyMetricsDTO `json:"metrics"`
}

// ToCourseStaffDTOList always returns a non-nil slice.
func ToCourseStaffDTOList(roles []*platform.CourseAccessRole) []*CourseStaffDTO {
	staff := make([]*CourseStaffDTO, 0, len(roles))
	for _, role := range roles {
		if role == nil {
			continue
		}
		item := &CourseStaffDTO{UserID: role.UserID, Role: role.Role}
		if role.User != nil {
			item.Username = role.User.Username
			item.Fullname = role.User.FullName()
		}
		staff = append(staff, item)
	}
	return staff
}

// ToCourseDetailsDTO takes its numbers from latest, the newest daily record
// of the course. Without one the counts are zero and the rest null.
func ToCourseDetailsDTO(course *platform.CourseOverview, roles []*platform.CourseAccessRole, latest *metrics.CourseDailyMetrics) *CourseDetailsDTO {
	d := &CourseDetailsDTO{
		CourseID:   course.ID,
		CourseName: course.DisplayName,
		CourseCode: course.Number,
		Org:        course.Org,
		StartDate:  optionalDateTime(course.Start),
		EndDate:    optionalDateTime(course.End),
		SelfPaced:  course.SelfPaced,
		Staff:      ToCourseStaffDTOList(roles),
	}
	if latest != nil {
		d.AverageProgress = formatProgress(latest.AverageProgress())
		d.LearnersEnrolled = latest.EnrollmentCount()
		d.AverageDaysToComplete = latest.AverageDaysToComplete()
		d.UsersCompleted = latest.NumLearnersCompleted()
	}
	return d
}

func ToGeneralCourseDataDTO(course *platform.CourseOverview, roles []*platform.CourseAccessRole, latest *metrics.CourseDailyMetrics) *GeneralCourseDataDTO {
	return &GeneralCourseDataDTO{
		CourseID:   course.ID,
		CourseName: course.DisplayName,
		CourseCode: course.Number,
		Org:        course.Org,
		StartDate:  optionalDateTime(course.Start),
		EndDate:    optionalDateTime(course.End),
		SelfPaced:  course.SelfPaced,
		Staff:      ToCourseStaffDTOList(roles),
		Metrics:    ToCourseDailyMetricsDTO(latest),
	}
}
