// Package seeds loads YAML fixtures into development and demo databases.
package seeds

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/figures-analytics/figures/internal/shared/constants"
)

// Timestamp accepts RFC 3339, "YYYY-MM-DD HH:MM:SS" and bare dates. All
// values are interpreted as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	time.DateTime,
	constants.DateLayout,
}

func (t *Timestamp) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: timestamp must be a scalar", value.Line)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, value.Value, time.UTC); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("line %d: invalid timestamp %q", value.Line, value.Value)
}

// ptr returns nil for a nil timestamp.
func (t *Timestamp) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

type SiteFixture struct {
	ID     uint   `yaml:"id"`
	Domain string `yaml:"domain"`
	Name   string `yaml:"name"`
}

type ProfileFixture struct {
	Name                  string     `yaml:"name"`
	Country               string     `yaml:"country"`
	Gender                string     `yaml:"gender"`
	YearOfBirth           *int       `yaml:"year_of_birth"`
	LevelOfEducation      string     `yaml:"level_of_education"`
	Bio                   string     `yaml:"bio"`
	ProfileImageUploaded  *Timestamp `yaml:"profile_image_uploaded_at"`
	LanguageProficiencies []string   `yaml:"language_proficiencies"`
}

type UserFixture struct {
	ID          uint            `yaml:"id"`
	SiteID      uint            `yaml:"site_id"`
	Username    string          `yaml:"username"`
	Email       string          `yaml:"email"`
	IsActive    *bool           `yaml:"is_active"`
	IsStaff     bool            `yaml:"is_staff"`
	IsSuperuser bool            `yaml:"is_superuser"`
	DateJoined  Timestamp       `yaml:"date_joined"`
	Profile     *ProfileFixture `yaml:"profile"`
}

type CourseFixture struct {
	ID          string     `yaml:"id"`
	SiteID      uint       `yaml:"site_id"`
	DisplayName string     `yaml:"display_name"`
	Number      string     `yaml:"number"`
	Org         string     `yaml:"org"`
	Start       *Timestamp `yaml:"start"`
	End         *Timestamp `yaml:"end"`
	SelfPaced   bool       `yaml:"self_paced"`
}

type EnrollmentFixture struct {
	ID       uint      `yaml:"id"`
	UserID   uint      `yaml:"user_id"`
	CourseID string    `yaml:"course_id"`
	Created  Timestamp `yaml:"created"`
	IsActive *bool     `yaml:"is_active"`
	Mode     string    `yaml:"mode"`
}

type AccessRoleFixture struct {
	ID       uint   `yaml:"id"`
	UserID   uint   `yaml:"user_id"`
	CourseID string `yaml:"course_id"`
	Org      string `yaml:"org"`
	Role     string `yaml:"role"`
}

type CertificateFixture struct {
	ID          uint      `yaml:"id"`
	UserID      uint      `yaml:"user_id"`
	CourseID    string    `yaml:"course_id"`
	CreatedDate Timestamp `yaml:"created_date"`
	Status      string    `yaml:"status"`
}

type ActivityFixture struct {
	ID       uint      `yaml:"id"`
	UserID   uint      `yaml:"user_id"`
	CourseID string    `yaml:"course_id"`
	Modified Timestamp `yaml:"modified"`
}

type GradeFixture struct {
	SiteID           uint      `yaml:"site_id"`
	UserID           uint      `yaml:"user_id"`
	CourseID         string    `yaml:"course_id"`
	DateFor          Timestamp `yaml:"date_for"`
	PointsPossible   float64   `yaml:"points_possible"`
	PointsEarned     float64   `yaml:"points_earned"`
	SectionsWorked   int       `yaml:"sections_worked"`
	SectionsPossible int       `yaml:"sections_possible"`
}

type SiteDailyFixture struct {
	SiteID                    uint      `yaml:"site_id"`
	DateFor                   Timestamp `yaml:"date_for"`
	CumulativeActiveUserCount *int      `yaml:"cumulative_active_user_count"`
	TodaysActiveUserCount     *int      `yaml:"todays_active_user_count"`
	TotalUserCount            int       `yaml:"total_user_count"`
	CourseCount               int       `yaml:"course_count"`
	TotalEnrollmentCount      int       `yaml:"total_enrollment_count"`
	MAU                       *int      `yaml:"mau"`
}

type CourseDailyFixture struct {
	SiteID                uint      `yaml:"site_id"`
	CourseID              string    `yaml:"course_id"`
	DateFor               Timestamp `yaml:"date_for"`
	EnrollmentCount       int       `yaml:"enrollment_count"`
	ActiveLearnersToday   int       `yaml:"active_learners_today"`
	AverageProgress       *float64  `yaml:"average_progress"`
	AverageDaysToComplete *int      `yaml:"average_days_to_complete"`
	NumLearnersCompleted  int       `yaml:"num_learners_completed"`
}

// Fixtures is the document accepted by the seed command. Platform rows carry
// explicit ids so reloading the same file inserts nothing new.
type Fixtures struct {
	Sites              []SiteFixture        `yaml:"sites"`
	Users              []UserFixture        `yaml:"users"`
	Courses            []CourseFixture      `yaml:"courses"`
	Enrollments        []EnrollmentFixture  `yaml:"enrollments"`
	AccessRoles        []AccessRoleFixture  `yaml:"access_roles"`
	Certificates       []CertificateFixture `yaml:"certificates"`
	Activity           []ActivityFixture    `yaml:"activity"`
	Grades             []GradeFixture       `yaml:"grades"`
	SiteDailyMetrics   []SiteDailyFixture   `yaml:"site_daily_metrics"`
	CourseDailyMetrics []CourseDailyFixture `yaml:"course_daily_metrics"`
}

func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixtures) validate() error {
	for i, s := range f.Sites {
		if s.ID == 0 || s.Domain == "" {
			return fmt.Errorf("sites[%d]: id and domain are required", i)
		}
	}
	for i, u := range f.Users {
		if u.ID == 0 || u.Username == "" || u.SiteID == 0 {
			return fmt.Errorf("users[%d]: id, site_id and username are required", i)
		}
	}
	for i, c := range f.Courses {
		if c.ID == "" || c.SiteID == 0 {
			return fmt.Errorf("courses[%d]: id and site_id are required", i)
		}
	}
	for i, e := range f.Enrollments {
		if e.ID == 0 || e.UserID == 0 || e.CourseID == "" {
			return fmt.Errorf("enrollments[%d]: id, user_id and course_id are required", i)
		}
	}
	for i, r := range f.AccessRoles {
		if r.ID == 0 || r.UserID == 0 || r.Role == "" {
			return fmt.Errorf("access_roles[%d]: id, user_id and role are required", i)
		}
	}
	for i, c := range f.Certificates {
		if c.ID == 0 || c.UserID == 0 || c.CourseID == "" {
			return fmt.Errorf("certificates[%d]: id, user_id and course_id are required", i)
		}
	}
	for i, a := range f.Activity {
		if a.ID == 0 || a.UserID == 0 || a.CourseID == "" {
			return fmt.Errorf("activity[%d]: id, user_id and course_id are required", i)
		}
	}
	return nil
}
