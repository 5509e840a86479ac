package admin

import (
	"context"
	"net/url"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/cache"
)

// Me returns the current user; it satisfies session.Bootstrapper.
func (s *Service) Me(ctx context.Context) (*learnsphere.User, error) {
	return cache.Fetch(ctx, s.cache, MeKey(), 0, s.api.Auth.Me)
}

// Instructors lists instructors
func (s *Service) Instructors(ctx context.Context, params url.Values) (*learnsphere.Page[learnsphere.User], error) {
	return cache.Fetch(ctx, s.cache, InstructorsKey(params), ListStaleTime, func(ctx context.Context) (*learnsphere.Page[learnsphere.User], error) {
		return s.api.Instructors.List(ctx, params)
	})
}

// InstructorDetails returns one instructor with course stats
func (s *Service) InstructorDetails(ctx context.Context, id string) (*learnsphere.InstructorDetail, error) {
	return cache.Fetch(ctx, s.cache, InstructorKey(id), 0, func(ctx context.Context) (*learnsphere.InstructorDetail, error) {
		return s.api.Instructors.Get(ctx, id)
	})
}

// Courses lists backoffice courses
func (s *Service) Courses(ctx context.Context, params url.Values) (*learnsphere.Page[learnsphere.Course], error) {
	return cache.Fetch(ctx, s.cache, CoursesKey(params), ListStaleTime, func(ctx context.Context) (*learnsphere.Page[learnsphere.Course], error) {
		return s.api.Courses.ListBackoffice(ctx, params)
	})
}

// Course returns a course with lessons and quizzes
func (s *Service) Course(ctx context.Context, id string) (*learnsphere.Course, error) {
	return cache.Fetch(ctx, s.cache, CourseKey(id), 0, func(ctx context.Context) (*learnsphere.Course, error) {
		return s.api.Courses.Get(ctx, id)
	})
}

// CourseReviews returns a course's reviews
func (s *Service) CourseReviews(ctx context.Context, courseID string) ([]learnsphere.Review, error) {
	return cache.Fetch(ctx, s.cache, ReviewsKey(courseID), 0, func(ctx context.Context) ([]learnsphere.Review, error) {
		return s.api.Courses.Reviews(ctx, courseID)
	})
}

// Quiz returns a quiz
func (s *Service) Quiz(ctx context.Context, id string) (*learnsphere.Quiz, error) {
	return cache.Fetch(ctx, s.cache, QuizKey(id), 0, func(ctx context.Context) (*learnsphere.Quiz, error) {
		return s.api.Quizzes.Get(ctx, id)
	})
}

// CourseProgress returns the progress report; params must carry courseId.
func (s *Service) CourseProgress(ctx context.Context, params url.Values) (*learnsphere.CourseProgress, error) {
	if params.Get("courseId") == "" {
		return nil, &learnsphere.Error{
			Kind:    learnsphere.KindValidation,
			Message: "courseId is required",
			Details: []learnsphere.FieldError{{Field: "courseId", Message: "required"}},
		}
	}
	return cache.Fetch(ctx, s.cache, ReportKey("course-progress", params), ReportsStaleTime, func(ctx context.Context) (*learnsphere.CourseProgress, error) {
		return s.api.Reports.CourseProgress(ctx, params)
	})
}

// Learners returns the learner report
func (s *Service) Learners(ctx context.Context, params url.Values) ([]learnsphere.LearnerDetail, error) {
	return cache.Fetch(ctx, s.cache, ReportKey("learners", params), ReportsStaleTime, func(ctx context.Context) ([]learnsphere.LearnerDetail, error) {
		return s.api.Reports.Learners(ctx, params)
	})
}

// ReportReviews returns reviews across courses
func (s *Service) ReportReviews(ctx context.Context) ([]learnsphere.Review, error) {
	return cache.Fetch(ctx, s.cache, ReportKey("reviews", nil), ReportsStaleTime, s.api.Reports.Reviews)
}

// DashboardStats returns headline numbers
func (s *Service) DashboardStats(ctx context.Context) (*learnsphere.DashboardStats, error) {
	return cache.Fetch(ctx, s.cache, ReportKey("dashboard", nil), ReportsStaleTime, s.api.Reports.DashboardStats)
}

// CourseRequests lists course requests; status filters via params
func (s *Service) CourseRequests(ctx context.Context, params url.Values) ([]learnsphere.CourseRequest, error) {
	return cache.Fetch(ctx, s.cache, CourseRequestsKey(params), ListStaleTime, func(ctx context.Context) ([]learnsphere.CourseRequest, error) {
		return s.api.CourseRequests.List(ctx, params)
	})
}

// CourseRequest returns one course request
func (s *Service) CourseRequest(ctx context.Context, id string) (*learnsphere.CourseRequest, error) {
	return cache.Fetch(ctx, s.cache, CourseRequestKey(id), 0, func(ctx context.Context) (*learnsphere.CourseRequest, error) {
		return s.api.CourseRequests.Get(ctx, id)
	})
}

// CourseRequestStats returns request counters
func (s *Service) CourseRequestStats(ctx context.Context) (*learnsphere.CourseRequestStats, error) {
	return cache.Fetch(ctx, s.cache, CourseRequestStatsKey(), StatsStaleTime, s.api.CourseRequests.Stats)
}

// InstructorRequests lists pending instructor requests
func (s *Service) InstructorRequests(ctx context.Context) ([]learnsphere.InstructorRequest, error) {
	return cache.Fetch(ctx, s.cache, InstructorRequestsKey(), ListStaleTime, s.api.InstructorRequests.List)
}

// Health probes the backend, the result is cached with the default window
func (s *Service) Health(ctx context.Context) error {
	_, err := cache.Fetch(ctx, s.cache, healthKey(), 0, func(ctx context.Context) (bool, error) {
		err := s.api.Health.Check(ctx)
		return err == nil, err
	})
	return err
}
