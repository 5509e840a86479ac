package learnsphere

import "time"

// Role is the platform role of a user.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleLearner    Role = "LEARNER"
)

// User represents an account profile
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	TotalPoints int    `json:"totalPoints"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

// Message is a generic acknowledgement body.
type Message struct {
	Message string `json:"message"`
}

// ProfileUpdate holds editable profile fields; nil fields are left unchanged.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// PasswordChange is a change password request.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// InstructorCourse is a course summary within instructor details.
type InstructorCourse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
}

// InstructorDetail is an instructor profile with course statistics.
type InstructorDetail struct {
	User
	CoursesCount int                `json:"coursesCount"`
	StudentCount int                `json:"studentCount"`
	Courses      []InstructorCourse `json:"courses"`
}

// FileRef is an embedded file reference.
type FileRef struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
}

// Course represents a course with its embedded lessons and quizzes.
type Course struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description,omitempty"`
	Tags             []string `json:"tags"`
	LessonsCount     int      `json:"lessonsCount"`
	TotalDurationSec int      `json:"totalDurationSec"`
	Published        bool     `json:"published"`
	// Visibility is EVERYONE or SIGNED_IN.
	Visibility string `json:"visibility,omitempty"`
	// AccessRule is OPEN, INVITATION or PAYMENT.
	AccessRule    string    `json:"accessRule,omitempty"`
	Price         *float64  `json:"price,omitempty"`
	WebsiteURL    string    `json:"websiteUrl,omitempty"`
	ResponsibleID string    `json:"responsibleId,omitempty"`
	CoverImageID  string    `json:"coverImageId,omitempty"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	CoverImage    *FileRef  `json:"coverImage,omitempty"`
	Lessons       []Lesson  `json:"lessons"`
	Quizzes       []Quiz    `json:"quizzes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CourseInput holds course fields for create and update; nil fields are omitted.
type CourseInput struct {
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	CoverImageID  *string  `json:"coverImageId,omitempty"`
	Visibility    *string  `json:"visibility,omitempty"`
	AccessRule    *string  `json:"accessRule,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	WebsiteURL    *string  `json:"websiteUrl,omitempty"`
	ResponsibleID *string  `json:"responsibleId,omitempty"`
}

// Lesson represents a single course lesson
type Lesson struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	// Type is VIDEO, DOCUMENT, IMAGE or QUIZ.
	Type          string    `json:"type"`
	ExternalURL   string    `json:"externalUrl,omitempty"`
	DurationSec   int       `json:"durationSec"`
	AllowDownload bool      `json:"allowDownload"`
	Description   string    `json:"description,omitempty"`
	SortOrder     int       `json:"sortOrder"`
	MediaFileID   string    `json:"mediaFileId,omitempty"`
	MediaFileURL  string    `json:"mediaFileUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LessonInput holds lesson fields for create and update.
type LessonInput struct {
	Title         *string `json:"title,omitempty"`
	Type          *string `json:"type,omitempty"`
	ExternalURL   *string `json:"externalUrl,omitempty"`
	DurationSec   *int    `json:"durationSec,omitempty"`
	AllowDownload *bool   `json:"allowDownload,omitempty"`
	Description   *string `json:"description,omitempty"`
	SortOrder     *int    `json:"sortOrder,omitempty"`
	MediaFileID   *string `json:"mediaFileId,omitempty"`
}

// LessonOrder assigns a sort position to a lesson.
type LessonOrder struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sortOrder"`
}

// Quiz represents a course quiz
type Quiz struct {
	ID              string     `json:"id"`
	CourseID        string     `json:"courseId"`
	Title           string     `json:"title"`
	PointsFirstTry  int        `json:"pointsFirstTry"`
	PointsSecondTry *int       `json:"pointsSecondTry,omitempty"`
	Questions       []Question `json:"questions"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Question is a quiz question
type Question struct {
	ID                string       `json:"id,omitempty"`
	Text              string       `json:"text"`
	MultipleSelection bool         `json:"multipleSelection"`
	Options           []QuizOption `json:"options"`
}

// QuizOption is a single answer option
type QuizOption struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuizInput holds quiz fields for create and update.
type QuizInput struct {
	Title           *string    `json:"title,omitempty"`
	PointsFirstTry  *int       `json:"pointsFirstTry,omitempty"`
	PointsSecondTry *int       `json:"pointsSecondTry,omitempty"`
	Questions       []Question `json:"questions,omitempty"`
}

// UploadInit is the first phase response of an upload.
type UploadInit struct {
	UploadURL string `json:"uploadUrl"`
	FileID    string `json:"fileId"`
	Method    string `json:"method"`
}

// UploadRequest describes a file about to be uploaded.
type UploadRequest struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// FileMetadata is a finalized file reference.
type FileMetadata struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// ReportRow is a per learner progress row.
type ReportRow struct {
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName"`
	Email            string    `json:"email"`
	Progress         float64   `json:"progress"`
	CompletedLessons int       `json:"completedLessons"`
	TotalLessons     int       `json:"totalLessons"`
	QuizScore        *float64  `json:"quizScore,omitempty"`
	LastActivity     time.Time `json:"lastActivity"`
	// Status is NOT_STARTED, IN_PROGRESS or COMPLETED.
	Status string `json:"status"`
}

// ReportSummary aggregates a course progress report.
type ReportSummary struct {
	TotalEnrolled  int     `json:"totalEnrolled"`
	CompletionRate float64 `json:"completionRate"`
	AvgProgress    float64 `json:"avgProgress"`
	AvgQuizScore   float64 `json:"avgQuizScore"`
}

// CourseProgress is the course progress report.
type CourseProgress struct {
	Summary ReportSummary `json:"summary"`
	Rows    []ReportRow   `json:"rows"`
}

// LearnerDetail is a learner level report entry.
type LearnerDetail struct {
	UserID          string    `json:"userId"`
	UserName        string    `json:"userName"`
	Email           string    `json:"email"`
	EnrolledCourses int       `json:"enrolledCourses"`
	CompletedCourse int       `json:"completedCourses"`
	TotalPoints     int       `json:"totalPoints"`
	LastActivity    time.Time `json:"lastActivity"`
}

// DashboardStats summarizes platform activity.
type DashboardStats struct {
	TotalCourses   int     `json:"totalCourses"`
	TotalEnrolled  int     `json:"totalEnrolled"`
	CompletionRate float64 `json:"completionRate"`
	AvgQuizScore   float64 `json:"avgQuizScore"`
}

// CourseRequestStatus is the review state of a course request.
type CourseRequestStatus string

const (
	CourseRequestPending  CourseRequestStatus = "PENDING"
	CourseRequestApproved CourseRequestStatus = "APPROVED"
	CourseRequestRejected CourseRequestStatus = "REJECTED"
)

// CourseRequestCourse is the course summary embedded in a course request.
type CourseRequestCourse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Published   bool          `json:"published"`
	CoverImage  *FileMetadata `json:"coverImage,omitempty"`
	Count       struct {
		Lessons int `json:"lessons"`
		Quizzes int `json:"quizzes"`
	} `json:"_count"`
}

// CourseRequest is an instructor's request to publish a course.
type CourseRequest struct {
	ID              string              `json:"id"`
	Status          CourseRequestStatus `json:"status"`
	RejectionReason string              `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       *time.Time          `json:"updatedAt,omitempty"`
	ReviewedAt      *time.Time          `json:"reviewedAt,omitempty"`
	Instructor      User                `json:"instructor"`
	ReviewedBy      *User               `json:"reviewedBy,omitempty"`
	Course          CourseRequestCourse `json:"course"`
}

// CourseRequestStats counts course requests by status.
type CourseRequestStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// InstructorRequest is a pending instructor signup.
type InstructorRequest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Review is a learner course review.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Paging is a cursor page descriptor.
type Paging struct {
	NextCursor string `json:"nextCursor,omitempty"`
	Limit      int    `json:"limit"`
}

// Page is a paginated list response.
type Page[T any] struct {
	Data   []T    `json:"data"`
	Paging Paging `json:"paging"`
}
