package admin

import (
	"net/url"

	"github.com/viant/learnsphere/cache"
)

// Query key roots. A root without params matches every variant on invalidation.
const (
	rootMe                 = "me"
	rootInstructors        = "instructors"
	rootInstructor         = "instructor"
	rootCourses            = "courses"
	rootCourse             = "course"
	rootReviews            = "reviews"
	rootQuiz               = "quiz"
	rootReports            = "reports"
	rootCourseRequests     = "course-requests"
	rootCourseRequest      = "course-request"
	rootInstructorRequests = "instructor-requests"
	rootHealth             = "health"
)

// MeKey is the current user query
func MeKey() cache.Key { return cache.NewKey(rootMe) }

// InstructorsKey is the instructor list query; nil params is the family prefix
func InstructorsKey(params url.Values) cache.Key {
	return cache.NewKey(rootInstructors).With(params)
}

// InstructorKey is one instructor's details
func InstructorKey(id string) cache.Key { return cache.NewKey(rootInstructor, id) }

// CoursesKey is the course list query; nil params is the family prefix
func CoursesKey(params url.Values) cache.Key {
	return cache.NewKey(rootCourses).With(params)
}

// CourseKey is one course with lessons and quizzes
func CourseKey(id string) cache.Key { return cache.NewKey(rootCourse, id) }

// ReviewsKey is one course's reviews
func ReviewsKey(courseID string) cache.Key { return cache.NewKey(rootReviews, courseID) }

// QuizKey is one quiz
func QuizKey(id string) cache.Key { return cache.NewKey(rootQuiz, id) }

// ReportKey is a report query
func ReportKey(name string, params url.Values) cache.Key {
	return cache.NewKey(rootReports, name).With(params)
}

// CourseRequestsKey is the course request list; nil params is the family prefix
func CourseRequestsKey(params url.Values) cache.Key {
	return cache.NewKey(rootCourseRequests).With(params)
}

// CourseRequestStatsKey is the request counters query
func CourseRequestStatsKey() cache.Key { return cache.NewKey(rootCourseRequests, "stats") }

// CourseRequestKey is one course request
func CourseRequestKey(id string) cache.Key { return cache.NewKey(rootCourseRequest, id) }

// InstructorRequestsKey is the pending instructor request list
func InstructorRequestsKey() cache.Key { return cache.NewKey(rootInstructorRequests) }

func healthKey() cache.Key { return cache.NewKey(rootHealth) }
