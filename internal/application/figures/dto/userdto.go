package dto

import (
	"fmt"
	"strings"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
)

type UserIndexDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

type CourseEnrollmentDTO struct {
	ID       uint          `json:"id"`
	User     *UserIndexDTO `json:"user"`
	Created  string        `json:"created"`
	IsActive bool          `json:"is_active"`
	Mode     string        `json:"mode"`
	CourseID string        `json:"course_id"`
}

type LanguageProficiencyDTO struct {
	Code string `json:"code"`
}

// UserCourseDTO names a course a user is enrolled in.
type UserCourseDTO struct {
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
	CourseCode string `json:"course_code"`
}

type GeneralUserDataDTO struct {
	ID                    uint                      `json:"id"`
	Username              string                    `json:"username"`
	Email                 string                    `json:"email"`
	Fullname              string                    `json:"fullname"`
	Country               string                    `json:"country"`
	IsActive              bool                      `json:"is_active"`
	Gender                string                    `json:"gender"`
	DateJoined            string                    `json:"date_joined"`
	YearOfBirth           *int                      `json:"year_of_birth"`
	LevelOfEducation      string                    `json:"level_of_education"`
	Courses               []*UserCourseDTO          `json:"courses"`
	LanguageProficiencies []*LanguageProficiencyDTO `json:"language_proficiencies"`
}

// ProgressDetailsDTO is one grade snapshot of a learner in a course.
type ProgressDetailsDTO struct {
	PointsPossible   float64 `json:"points_possible"`
	PointsEarned     float64 `json:"points_earned"`
	SectionsWorked   int     `json:"sections_worked"`
	SectionsPossible int     `json:"sections_possible"`
}

type ProgressHistoryDTO struct {
	Period          string  `json:"period"`
	ProgressPercent float64 `json:"progress_percent"`
	ProgressDetailsDTO
}

type ProgressDataDTO struct {
	// CourseCompleted is the certificate datetime, or false.
	CourseCompleted       interface{}           `json:"course_completed"`
	CourseProgress        float64               `json:"course_progress"`
	CourseProgressDetails *ProgressDetailsDTO   `json:"course_progress_details"`
	CourseProgressHistory []*ProgressHistoryDTO `json:"course_progress_history"`
}

type LearnerCourseDetailsDTO struct {
	CourseName   string           `json:"course_name"`
	CourseCode   string           `json:"course_code"`
	CourseID     string           `json:"course_id"`
	DateEnrolled string           `json:"date_enrolled"`
	ProgressData *ProgressDataDTO `json:"progress_data"`
	EnrollmentID uint             `json:"enrollment_id"`
}

type ProfileImageDTO struct {
	HasImage       bool   `json:"has_image"`
	ImageURLFull   string `json:"image_url_full"`
	ImageURLLarge  string `json:"image_url_large"`
	ImageURLMedium string `json:"image_url_medium"`
	ImageURLSmall  string `json:"image_url_small"`
}

type LearnerDetailsDTO struct {
	ID                    uint                       `json:"id"`
	Username              string                     `json:"username"`
	Name                  string                     `json:"name"`
	Email                 string                     `json:"email"`
	Country               string                     `json:"country"`
	IsActive              bool                       `json:"is_active"`
	YearOfBirth           *int                       `json:"year_of_birth"`
	LevelOfEducation      string                     `json:"level_of_education"`
	Gender                string                     `json:"gender"`
	DateJoined            string                     `json:"date_joined"`
	Bio                   string                     `json:"bio"`
	Courses               []*LearnerCourseDetailsDTO `json:"courses"`
	LanguageProficiencies []*LanguageProficiencyDTO  `json:"language_proficiencies"`
	ProfileImage          *ProfileImageDTO           `json:"profile_image"`
}

func ToUserIndexDTO(u *platform.User) *UserIndexDTO {
	if u == nil {
		return nil
	}
	return &UserIndexDTO{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.FullName(),
	}
}

func ToUserIndexDTOList(users []*platform.User) []*UserIndexDTO {
	dtos := make([]*UserIndexDTO, 0, len(users))
	for _, u := range users {
		if u != nil {
			dtos = append(dtos, ToUserIndexDTO(u))
		}
	}
	return dtos
}

func ToCourseEnrollmentDTO(e *platform.CourseEnrollment) *CourseEnrollmentDTO {
	return &CourseEnrollmentDTO{
		ID:       e.ID,
		User:     ToUserIndexDTO(e.User),
		Created:  formatDateTime(e.Created),
		IsActive: e.IsActive,
		Mode:     e.Mode,
		CourseID: e.CourseID,
	}
}

func ToCourseEnrollmentDTOList(enrollments []*platform.CourseEnrollment) []*CourseEnrollmentDTO {
	dtos := make([]*CourseEnrollmentDTO, 0, len(enrollments))
	for _, e := range enrollments {
		if e != nil {
			dtos = append(dtos, ToCourseEnrollmentDTO(e))
		}
	}
	return dtos
}

func profileCountry(p *platform.UserProfile) *string {
	if p == nil {
		return nil
	}
	return &p.Country
}

func toLanguageProficiencies(p *platform.UserProfile) []*LanguageProficiencyDTO {
	if p == nil {
		return []*LanguageProficiencyDTO{}
	}
	dtos := make([]*LanguageProficiencyDTO, 0, len(p.LanguageProficiencies))
	for _, lp := range p.LanguageProficiencies {
		dtos = append(dtos, &LanguageProficiencyDTO{Code: lp.Code})
	}
	return dtos
}

// ToGeneralUserDataDTO lists the courses of the given enrollments, which the
// caller restricts to the requesting site.
func ToGeneralUserDataDTO(u *platform.User, enrollments []*platform.CourseEnrollment) *GeneralUserDataDTO {
	d := &GeneralUserDataDTO{
		ID:                    u.ID,
		Username:              u.Username,
		Email:                 u.Email,
		Fullname:              u.FullName(),
		Country:               CountryField(profileCountry(u.Profile)),
		IsActive:              u.IsActive,
		DateJoined:            formatDate(u.DateJoined),
		Courses:               make([]*UserCourseDTO, 0, len(enrollments)),
		LanguageProficiencies: toLanguageProficiencies(u.Profile),
	}
	if p := u.Profile; p != nil {
		d.Gender = p.Gender
		d.YearOfBirth = p.YearOfBirth
		d.LevelOfEducation = p.LevelOfEducation
	}
	for _, e := range enrollments {
		course := &UserCourseDTO{CourseID: e.CourseID}
		if e.Course != nil {
			course.CourseName = e.Course.DisplayName
			course.CourseCode = e.Course.Number
		}
		d.Courses = append(d.Courses, course)
	}
	return d
}

// ToProgressDataDTO builds the progress of one enrollment from its
// certificate (nil when not completed) and grade history, oldest first.
func ToProgressDataDTO(cert *platform.GeneratedCertificate, history []*metrics.LearnerCourseGradeMetrics) *ProgressDataDTO {
	d := &ProgressDataDTO{
		CourseCompleted:       false,
		CourseProgressHistory: make([]*ProgressHistoryDTO, 0, len(history)),
	}
	if cert != nil {
		d.CourseCompleted = formatDateTime(cert.CreatedDate)
	}
	for _, snapshot := range history {
		d.CourseProgressHistory = append(d.CourseProgressHistory, &ProgressHistoryDTO{
			Period:             formatDate(snapshot.DateFor()),
			ProgressPercent:    snapshot.ProgressPercent(),
			ProgressDetailsDTO: toProgressDetails(snapshot.Grades()),
		})
	}
	if n := len(history); n > 0 {
		latest := history[n-1]
		details := toProgressDetails(latest.Grades())
		d.CourseProgress = latest.ProgressPercent()
		d.CourseProgressDetails = &details
	}
	return d
}

func toProgressDetails(g metrics.GradeCounts) ProgressDetailsDTO {
	return ProgressDetailsDTO{
		PointsPossible:   g.PointsPossible,
		PointsEarned:     g.PointsEarned,
		SectionsWorked:   g.SectionsWorked,
		SectionsPossible: g.SectionsPossible,
	}
}

func ToLearnerCourseDetailsDTO(e *platform.CourseEnrollment, progress *ProgressDataDTO) *LearnerCourseDetailsDTO {
	d := &LearnerCourseDetailsDTO{
		CourseID:     e.CourseID,
		DateEnrolled: formatDate(e.Created),
		ProgressData: progress,
		EnrollmentID: e.ID,
	}
	if e.Course != nil {
		d.CourseName = e.Course.DisplayName
		d.CourseCode = e.Course.Number
	}
	return d
}

// Profile image sizes in pixels, keyed by field.
var profileImageSizes = map[string]int{
	"full":   500,
	"large":  120,
	"medium": 50,
	"small":  30,
}

// ToProfileImageDTO builds image urls under baseURL. Users without an upload
// get the default image.
func ToProfileImageDTO(u *platform.User, baseURL string) *ProfileImageDTO {
	base := strings.TrimSuffix(baseURL, "/")
	has := u.Profile.HasProfileImage()
	url := func(size string) string {
		px := profileImageSizes[size]
		if !has {
			return fmt.Sprintf("%s/default_%d.png", base, px)
		}
		return fmt.Sprintf("%s/%s_%d.jpg?v=%d", base, u.Username, px, u.Profile.ProfileImageUploadedAt.Unix())
	}
	return &ProfileImageDTO{
		HasImage:       has,
		ImageURLFull:   url("full"),
		ImageURLLarge:  url("large"),
		ImageURLMedium: url("medium"),
		ImageURLSmall:  url("small"),
	}
}

func ToLearnerDetailsDTO(u *platform.User, courses []*LearnerCourseDetailsDTO, profileImageBaseURL string) *LearnerDetailsDTO {
	if courses == nil {
		courses = []*LearnerCourseDetailsDTO{}
	}
	d := &LearnerDetailsDTO{
		ID:                    u.ID,
		Username:              u.Username,
		Name:                  u.FullName(),
		Email:                 u.Email,
		Country:               CountryField(profileCountry(u.Profile)),
		IsActive:              u.IsActive,
		DateJoined:            formatDate(u.DateJoined),
		Courses:               courses,
		LanguageProficiencies: toLanguageProficiencies(u.Profile),
		ProfileImage:          ToProfileImageDTO(u, profileImageBaseURL),
	}
	if p := u.Profile; p != nil {
		d.YearOfBirth = p.YearOfBirth
		d.LevelOfEducation = p.LevelOfEducation
		d.Gender = p.Gender
		d.Bio = p.Bio
	}
	return d
}
