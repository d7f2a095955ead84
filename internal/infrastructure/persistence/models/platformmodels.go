package models

import (
	"time"

	"github.com/figures-analytics/figures/internal/shared/constants"
)

// The models below map tables owned by the learning platform. They are read
// only; AutoMigrate creates them for development databases and tests.

type SiteModel struct {
	ID     uint   `gorm:"primarykey"`
	Domain string `gorm:"column:domain;not null;size:100;uniqueIndex"`
	Name   string `gorm:"column:name;not null;size:50"`
}

func (SiteModel) TableName() string {
	return constants.TableSites
}

type UserModel struct {
	ID          uint              `gorm:"primarykey"`
	SiteID      uint              `gorm:"column:site_id;not null;index"`
	Username    string            `gorm:"column:username;not null;size:150;uniqueIndex"`
	Email       string            `gorm:"column:email;not null;size:254"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	IsStaff     bool              `gorm:"column:is_staff;not null;default:false"`
	IsSuperuser bool              `gorm:"column:is_superuser;not null;default:false"`
	DateJoined  time.Time         `gorm:"column:date_joined;not null"`
	Profile     *UserProfileModel `gorm:"foreignKey:UserID"`
}

func (UserModel) TableName() string {
	return constants.TableUsers
}

type UserProfileModel struct {
	ID                     uint                       `gorm:"primarykey"`
	UserID                 uint                       `gorm:"column:user_id;not null;uniqueIndex"`
	Name                   string                     `gorm:"column:name;not null;size:255;default:''"`
	Country                string                     `gorm:"column:country;size:2;default:''"`
	Gender                 string                     `gorm:"column:gender;size:6;default:''"`
	YearOfBirth            *int                       `gorm:"column:year_of_birth"`
	LevelOfEducation       string                     `gorm:"column:level_of_education;size:6;default:''"`
	Bio                    string                     `gorm:"column:bio;size:3000;default:''"`
	ProfileImageUploadedAt *time.Time                 `gorm:"column:profile_image_uploaded_at"`
	LanguageProficiencies  []LanguageProficiencyModel `gorm:"foreignKey:UserProfileID"`
}

func (UserProfileModel) TableName() string {
	return constants.TableUserProfiles
}

type LanguageProficiencyModel struct {
	ID            uint   `gorm:"primarykey"`
	UserProfileID uint   `gorm:"column:user_profile_id;not null;index"`
	Code          string `gorm:"column:code;not null;size:16"`
}

func (LanguageProficiencyModel) TableName() string {
	return constants.TableLanguageProficiencies
}

type CourseOverviewModel struct {
	ID          string     `gorm:"primarykey;size:255"`
	SiteID      uint       `gorm:"column:site_id;not null;index"`
	DisplayName string     `gorm:"column:display_name;size:255"`
	Number      string     `gorm:"column:display_number_with_default;size:255"`
	Org         string     `gorm:"column:display_org_with_default;size:255"`
	Start       *time.Time `gorm:"column:start"`
	End         *time.Time `gorm:"column:end"`
	SelfPaced   bool       `gorm:"column:self_paced;not null;default:false"`
}

func (CourseOverviewModel) TableName() string {
	return constants.TableCourseOverviews
}

type CourseEnrollmentModel struct {
	ID       uint                 `gorm:"primarykey"`
	UserID   uint                 `gorm:"column:user_id;not null;index"`
	CourseID string               `gorm:"column:course_id;not null;size:255;index"`
	Created  time.Time            `gorm:"column:created;not null"`
	IsActive bool                 `gorm:"column:is_active;not null;default:true"`
	Mode     string               `gorm:"column:mode;not null;size:100;default:'audit'"`
	User     *UserModel           `gorm:"foreignKey:UserID"`
	Course   *CourseOverviewModel `gorm:"foreignKey:CourseID"`
}

func (CourseEnrollmentModel) TableName() string {
	return constants.TableCourseEnrollments
}

type CourseAccessRoleModel struct {
	ID       uint       `gorm:"primarykey"`
	UserID   uint       `gorm:"column:user_id;not null;index"`
	CourseID string     `gorm:"column:course_id;size:255;index"`
	Org      string     `gorm:"column:org;size:64"`
	Role     string     `gorm:"column:role;not null;size:64"`
	User     *UserModel `gorm:"foreignKey:UserID"`
}

func (CourseAccessRoleModel) TableName() string {
	return constants.TableCourseAccessRoles
}

type GeneratedCertificateModel struct {
	ID          uint      `gorm:"primarykey"`
	UserID      uint      `gorm:"column:user_id;not null;index"`
	CourseID    string    `gorm:"column:course_id;not null;size:255;index"`
	CreatedDate time.Time `gorm:"column:created_date;not null"`
	Status      string    `gorm:"column:status;not null;size:32"`
}

func (GeneratedCertificateModel) TableName() string {
	return constants.TableGeneratedCertificates
}

// StudentModuleModel records a learner touching a piece of courseware.
type StudentModuleModel struct {
	ID        uint      `gorm:"primarykey"`
	StudentID uint      `gorm:"column:student_id;not null;index"`
	CourseID  string    `gorm:"column:course_id;not null;size:255;index:idx_studentmodule_course_modified,priority:1"`
	Modified  time.Time `gorm:"column:modified;not null;index:idx_studentmodule_course_modified,priority:2"`
}

func (StudentModuleModel) TableName() string {
	return constants.TableStudentModules
}
