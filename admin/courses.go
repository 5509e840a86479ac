package admin

import (
	"context"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/cache"
)

// CreateCourse creates a course and refreshes course lists
func (s *Service) CreateCourse(ctx context.Context, input *learnsphere.CourseInput) (*learnsphere.Course, error) {
	ret, err := s.api.Courses.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(CoursesKey(nil))
	return ret, nil
}

// UpdateCourse patches a course
func (s *Service) UpdateCourse(ctx context.Context, id string, input *learnsphere.CourseInput) (*learnsphere.Course, error) {
	ret, err := s.api.Courses.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(CourseKey(id), CoursesKey(nil))
	return ret, nil
}

// TogglePublish flips the published flag. A cached course shows the new state
// immediately; on failure it is restored before the error is returned.
func (s *Service) TogglePublish(ctx context.Context, id string, published bool) (*learnsphere.Course, error) {
	guess := func(current *learnsphere.Course) *learnsphere.Course {
		if current == nil {
			return nil
		}
		patched := *current
		patched.Published = published
		return &patched
	}
	mutate := func(ctx context.Context) (*learnsphere.Course, error) {
		if published {
			return s.api.Courses.Publish(ctx, id)
		}
		return s.api.Courses.Unpublish(ctx, id)
	}
	ret, err := cache.Optimistic(ctx, s.cache, CourseKey(id), guess, mutate, CourseKey(id), CoursesKey(nil))
	if err != nil {
		s.logger.Debugf("toggle publish %v rolled back: %v", id, err)
		return nil, err
	}
	return ret, nil
}

// DeleteCourse deletes a course
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	if err := s.api.Courses.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(CoursesKey(nil))
	return nil
}

// InviteToCourse invites learners by email
func (s *Service) InviteToCourse(ctx context.Context, courseID string, emails []string) error {
	return s.api.Courses.Invite(ctx, courseID, emails)
}

// CreateLesson adds a lesson to a course
func (s *Service) CreateLesson(ctx context.Context, courseID string, input *learnsphere.LessonInput) (*learnsphere.Lesson, error) {
	ret, err := s.api.Lessons.Create(ctx, courseID, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(CourseKey(courseID))
	return ret, nil
}

// UpdateLesson patches a lesson of courseID
func (s *Service) UpdateLesson(ctx context.Context, courseID, id string, input *learnsphere.LessonInput) (*learnsphere.Lesson, error) {
	ret, err := s.api.Lessons.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(CourseKey(courseID))
	return ret, nil
}

// DeleteLesson deletes a lesson of courseID
func (s *Service) DeleteLesson(ctx context.Context, courseID, id string) error {
	if err := s.api.Lessons.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(CourseKey(courseID))
	return nil
}

// ReorderLessons sets lesson order within a course
func (s *Service) ReorderLessons(ctx context.Context, courseID string, orders []learnsphere.LessonOrder) error {
	if err := s.api.Lessons.Reorder(ctx, courseID, orders); err != nil {
		return err
	}
	s.invalidate(CourseKey(courseID))
	return nil
}

// CreateQuiz adds a quiz to a course
func (s *Service) CreateQuiz(ctx context.Context, courseID string, input *learnsphere.QuizInput) (*learnsphere.Quiz, error) {
	ret, err := s.api.Quizzes.Create(ctx, courseID, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(CourseKey(courseID))
	return ret, nil
}

// UpdateQuiz patches a quiz of courseID
func (s *Service) UpdateQuiz(ctx context.Context, courseID, id string, input *learnsphere.QuizInput) (*learnsphere.Quiz, error) {
	ret, err := s.api.Quizzes.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(CourseKey(courseID))
	return ret, nil
}

// DeleteQuiz deletes a quiz of courseID
func (s *Service) DeleteQuiz(ctx context.Context, courseID, id string) error {
	if err := s.api.Quizzes.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(CourseKey(courseID))
	return nil
}

func (s *Service) invalidate(prefixes ...cache.Key) {
	for _, prefix := range prefixes {
		s.cache.Invalidate(prefix)
	}
}
