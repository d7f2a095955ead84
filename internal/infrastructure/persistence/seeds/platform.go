package seeds

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// PlatformSeedResult counts the rows actually inserted.
type PlatformSeedResult struct {
	Sites        int64
	Users        int64
	Courses      int64
	Enrollments  int64
	AccessRoles  int64
	Certificates int64
	Activity     int64
}

// SeedPlatform inserts the platform rows of f in one transaction. Rows whose
// primary key already exists are left untouched.
func SeedPlatform(ctx context.Context, db *gorm.DB, f *Fixtures, log logger.Interface) (*PlatformSeedResult, error) {
	var result PlatformSeedResult

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		insert := func(value interface{}) (int64, error) {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(value)
			return res.RowsAffected, res.Error
		}

		for _, s := range f.Sites {
			n, err := insert(&models.SiteModel{ID: s.ID, Domain: s.Domain, Name: s.Name})
			if err != nil {
				return fmt.Errorf("failed to seed site %d: %w", s.ID, err)
			}
			result.Sites += n
		}

		for _, u := range f.Users {
			n, err := seedUser(tx, insert, u)
			if err != nil {
				return fmt.Errorf("failed to seed user %d: %w", u.ID, err)
			}
			result.Users += n
		}

		for _, c := range f.Courses {
			n, err := insert(&models.CourseOverviewModel{
				ID:          c.ID,
				SiteID:      c.SiteID,
				DisplayName: c.DisplayName,
				Number:      c.Number,
				Org:         c.Org,
				Start:       c.Start.ptr(),
				End:         c.End.ptr(),
				SelfPaced:   c.SelfPaced,
			})
			if err != nil {
				return fmt.Errorf("failed to seed course %s: %w", c.ID, err)
			}
			result.Courses += n
		}

		for _, e := range f.Enrollments {
			mode := e.Mode
			if mode == "" {
				mode = "audit"
			}
			m := &models.CourseEnrollmentModel{
				ID:       e.ID,
				UserID:   e.UserID,
				CourseID: e.CourseID,
				Created:  e.Created.UTC(),
				Mode:     mode,
			}
			n, err := insert(m)
			if err != nil {
				return fmt.Errorf("failed to seed enrollment %d: %w", e.ID, err)
			}
			// is_active has a column default, so false needs an explicit update
			if n > 0 && e.IsActive != nil && !*e.IsActive {
				if err := tx.Model(m).Update("is_active", false).Error; err != nil {
					return fmt.Errorf("failed to deactivate enrollment %d: %w", e.ID, err)
				}
			}
			result.Enrollments += n
		}

		for _, r := range f.AccessRoles {
			n, err := insert(&models.CourseAccessRoleModel{
				ID:       r.ID,
				UserID:   r.UserID,
				CourseID: r.CourseID,
				Org:      r.Org,
				Role:     r.Role,
			})
			if err != nil {
				return fmt.Errorf("failed to seed access role %d: %w", r.ID, err)
			}
			result.AccessRoles += n
		}

		for _, c := range f.Certificates {
			n, err := insert(&models.GeneratedCertificateModel{
				ID:          c.ID,
				UserID:      c.UserID,
				CourseID:    c.CourseID,
				CreatedDate: c.CreatedDate.UTC(),
				Status:      c.Status,
			})
			if err != nil {
				return fmt.Errorf("failed to seed certificate %d: %w", c.ID, err)
			}
			result.Certificates += n
		}

		for _, a := range f.Activity {
			n, err := insert(&models.StudentModuleModel{
				ID:        a.ID,
				StudentID: a.UserID,
				CourseID:  a.CourseID,
				Modified:  a.Modified.UTC(),
			})
			if err != nil {
				return fmt.Errorf("failed to seed activity %d: %w", a.ID, err)
			}
			result.Activity += n
		}
		return nil
	})
	if err != nil {
		log.Errorw("platform seed failed", "error", err)
		return nil, err
	}

	log.Infow("platform seed completed",
		"sites", result.Sites,
		"users", result.Users,
		"courses", result.Courses,
		"enrollments", result.Enrollments,
		"access_roles", result.AccessRoles,
		"certificates", result.Certificates,
		"activity", result.Activity,
	)
	return &result, nil
}

func seedUser(tx *gorm.DB, insert func(interface{}) (int64, error), u UserFixture) (int64, error) {
	m := &models.UserModel{
		ID:          u.ID,
		SiteID:      u.SiteID,
		Username:    u.Username,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		DateJoined:  u.DateJoined.UTC(),
	}
	n, err := insert(m)
	if err != nil || n == 0 {
		return n, err
	}
	if u.IsActive != nil && !*u.IsActive {
		if err := tx.Model(m).Update("is_active", false).Error; err != nil {
			return 0, err
		}
	}
	if u.Profile == nil {
		return n, nil
	}

	p := u.Profile
	profile := &models.UserProfileModel{
		UserID:                 u.ID,
		Name:                   p.Name,
		Country:                p.Country,
		Gender:                 p.Gender,
		YearOfBirth:            p.YearOfBirth,
		LevelOfEducation:       p.LevelOfEducation,
		Bio:                    p.Bio,
		ProfileImageUploadedAt: p.ProfileImageUploaded.ptr(),
	}
	for _, code := range p.LanguageProficiencies {
		profile.LanguageProficiencies = append(profile.LanguageProficiencies, models.LanguageProficiencyModel{Code: code})
	}
	if err := tx.Create(profile).Error; err != nil {
		return 0, fmt.Errorf("failed to seed profile: %w", err)
	}
	return n, nil
}
