package mappers

import (
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/mapper"
)

// Platform read models carry no invariants, so these conversions cannot fail.

func SiteToEntity(model *models.SiteModel) *platform.Site {
	if model == nil {
		return nil
	}
	return &platform.Site{ID: model.ID, Domain: model.Domain, Name: model.Name}
}

func UserToEntity(model *models.UserModel) *platform.User {
	if model == nil {
		return nil
	}
	return &platform.User{
		ID:          model.ID,
		SiteID:      model.SiteID,
		Username:    model.Username,
		Email:       model.Email,
		IsActive:    model.IsActive,
		IsStaff:     model.IsStaff,
		IsSuperuser: model.IsSuperuser,
		DateJoined:  model.DateJoined,
		Profile:     userProfileToEntity(model.Profile),
	}
}

func userProfileToEntity(model *models.UserProfileModel) *platform.UserProfile {
	if model == nil {
		return nil
	}
	return &platform.UserProfile{
		ID:                     model.ID,
		UserID:                 model.UserID,
		Name:                   model.Name,
		Country:                model.Country,
		Gender:                 model.Gender,
		YearOfBirth:            model.YearOfBirth,
		LevelOfEducation:       model.LevelOfEducation,
		Bio:                    model.Bio,
		ProfileImageUploadedAt: model.ProfileImageUploadedAt,
		LanguageProficiencies: mapper.MapSlice(model.LanguageProficiencies, func(lp models.LanguageProficiencyModel) platform.LanguageProficiency {
			return platform.LanguageProficiency{ID: lp.ID, Code: lp.Code}
		}),
	}
}

func CourseToEntity(model *models.CourseOverviewModel) *platform.CourseOverview {
	if model == nil {
		return nil
	}
	return &platform.CourseOverview{
		ID:          model.ID,
		SiteID:      model.SiteID,
		DisplayName: model.DisplayName,
		Number:      model.Number,
		Org:         model.Org,
		Start:       model.Start,
		End:         model.End,
		SelfPaced:   model.SelfPaced,
	}
}

func EnrollmentToEntity(model *models.CourseEnrollmentModel) *platform.CourseEnrollment {
	if model == nil {
		return nil
	}
	return &platform.CourseEnrollment{
		ID:       model.ID,
		UserID:   model.UserID,
		CourseID: model.CourseID,
		Created:  model.Created,
		IsActive: model.IsActive,
		Mode:     model.Mode,
		User:     UserToEntity(model.User),
		Course:   CourseToEntity(model.Course),
	}
}

func AccessRoleToEntity(model *models.CourseAccessRoleModel) *platform.CourseAccessRole {
	if model == nil {
		return nil
	}
	return &platform.CourseAccessRole{
		ID:       model.ID,
		UserID:   model.UserID,
		CourseID: model.CourseID,
		Org:      model.Org,
		Role:     model.Role,
		User:     UserToEntity(model.User),
	}
}

func CertificateToEntity(model *models.GeneratedCertificateModel) *platform.GeneratedCertificate {
	if model == nil {
		return nil
	}
	return &platform.GeneratedCertificate{
		ID:          model.ID,
		UserID:      model.UserID,
		CourseID:    model.CourseID,
		CreatedDate: model.CreatedDate,
		Status:      model.Status,
	}
}
