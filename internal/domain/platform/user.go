package platform

import "time"

// User is a platform account together with its profile.
type User struct {
	ID          uint
	SiteID      uint
	Username    string
	Email       string
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
	DateJoined  time.Time
	Profile     *UserProfile
}

// FullName returns the profile name, or empty when the user has no profile.
func (u *User) FullName() string {
	if u.Profile == nil {
		return ""
	}
	return u.Profile.Name
}

// UserProfile carries the demographic fields shown on the dashboard.
type UserProfile struct {
	ID                     uint
	UserID                 uint
	Name                   string
	Country                string
	Gender                 string
	YearOfBirth            *int
	LevelOfEducation       string
	Bio                    string
	ProfileImageUploadedAt *time.Time
	LanguageProficiencies  []LanguageProficiency
}

// HasProfileImage reports whether the learner uploaded an image.
func (p *UserProfile) HasProfileImage() bool {
	return p != nil && p.ProfileImageUploadedAt != nil
}

type LanguageProficiency struct {
	ID   uint
	Code string
}
