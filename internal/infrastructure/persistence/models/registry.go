package models

// MetricsModels lists the tables owned by this service, in migration order.
func MetricsModels() []interface{} {
	return []interface{}{
		&SiteDailyMetricsModel{},
		&CourseDailyMetricsModel{},
		&SiteMauMetricsModel{},
		&CourseMauMetricsModel{},
		&LearnerCourseGradeMetricsModel{},
	}
}

// PlatformModels lists the read only platform tables.
func PlatformModels() []interface{} {
	return []interface{}{
		&SiteModel{},
		&UserModel{},
		&UserProfileModel{},
		&LanguageProficiencyModel{},
		&CourseOverviewModel{},
		&CourseEnrollmentModel{},
		&CourseAccessRoleModel{},
		&GeneratedCertificateModel{},
		&StudentModuleModel{},
	}
}
