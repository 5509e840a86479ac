package learnsphere

// DefaultBasePath is the API prefix used when no base URL path is configured.
const DefaultBasePath = "/api/v1"

// Auth endpoints.
const (
	PathLogin          = "/auth/login"
	PathMe             = "/auth/me"
	PathRefresh        = "/auth/refresh"
	PathLogout         = "/auth/logout"
	PathForgotPassword = "/auth/forgot-password"
	PathResetPassword  = "/auth/reset-password"
)

// Resource endpoints.
const (
	PathUsersMe            = "/users/me"
	PathUsersMePassword    = "/users/me/password"
	PathInstructors        = "/users/instructors"
	PathCourses            = "/courses"
	PathCoursesBackoffice  = "/courses/backoffice"
	PathLessons            = "/lessons"
	PathQuizzes            = "/quizzes"
	PathUploadsInit        = "/uploads/init"
	PathUploadsComplete    = "/uploads/complete"
	PathReportsProgress    = "/reports/course-progress"
	PathReportsLearners    = "/reports/learners"
	PathReportsReviews     = "/reports/reviews"
	PathReportsDashboard   = "/reports/dashboard"
	PathCourseRequests     = "/course-requests"
	PathCourseRequestStats = "/course-requests/stats"
	PathInstructorRequests = "/admin/instructor-requests"
	PathApproveInstructor  = "/admin/approve-instructor"
	PathRejectInstructor   = "/admin/reject-instructor"
	PathHealth             = "/health"
)

// Header names.
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-Id"
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"
)

// AppType identifies this client to password-reset flows.
const AppType = "admin"

// LoginRoute is the default route callers are sent to when the session ends.
const LoginRoute = "/login"
