package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination (limit/offset, matching the dashboard contract)
	DefaultLimit = 20
	MaxLimit     = 1000

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"

	ContentTypeJSON = "application/json"

	// API prefix
	APIPrefix = "/figures/api"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
	ContextKeySite      = "site"

	// Roles carried in access tokens
	RoleSuperuser = "superuser"
	RoleStaff     = "staff"
	RoleLearner   = "learner"

	// Metrics tables
	TableSiteDailyMetrics          = "figures_sitedailymetrics"
	TableCourseDailyMetrics        = "figures_coursedailymetrics"
	TableSiteMauMetrics            = "figures_sitemaumetrics"
	TableCourseMauMetrics          = "figures_coursemaumetrics"
	TableLearnerCourseGradeMetrics = "figures_learnercoursegrademetrics"

	// Platform tables (read only)
	TableSites                 = "django_site"
	TableUsers                 = "auth_user"
	TableUserProfiles          = "auth_userprofile"
	TableLanguageProficiencies = "student_languageproficiency"
	TableCourseOverviews       = "course_overviews_courseoverview"
	TableCourseEnrollments     = "student_courseenrollment"
	TableCourseAccessRoles     = "student_courseaccessrole"
	TableGeneratedCertificates = "certificates_generatedcertificate"
	TableStudentModules        = "courseware_studentmodule"

	// Date layout used for date_for and month_for values
	DateLayout = "2006-01-02"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
	ErrMsgConflict            = "Resource already exists"
)
