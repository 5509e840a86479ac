package admin

import (
	"context"

	"github.com/viant/learnsphere"
)

// SubmitCourseRequest asks staff to publish a course
func (s *Service) SubmitCourseRequest(ctx context.Context, courseID string) (*learnsphere.CourseRequest, error) {
	ret, err := s.api.CourseRequests.Submit(ctx, courseID)
	if err != nil {
		return nil, err
	}
	s.invalidate(CourseRequestsKey(nil))
	return ret, nil
}

// ApproveCourseRequest approves a pending course request
func (s *Service) ApproveCourseRequest(ctx context.Context, id string) (*learnsphere.CourseRequest, error) {
	ret, err := s.api.CourseRequests.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	s.settleCourseRequest()
	return ret, nil
}

// RejectCourseRequest rejects a pending course request
func (s *Service) RejectCourseRequest(ctx context.Context, id, reason string) (*learnsphere.CourseRequest, error) {
	ret, err := s.api.CourseRequests.Reject(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	s.settleCourseRequest()
	return ret, nil
}

// settleCourseRequest refreshes every filtered request list and the counters
func (s *Service) settleCourseRequest() {
	s.invalidate(CourseRequestsKey(nil))
	s.cache.InvalidateExact(CourseRequestStatsKey())
}

// ApproveInstructor promotes the requesting user to instructor
func (s *Service) ApproveInstructor(ctx context.Context, userID string) (*learnsphere.Message, error) {
	ret, err := s.api.InstructorRequests.Approve(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.invalidate(InstructorRequestsKey(), InstructorsKey(nil))
	return ret, nil
}

// RejectInstructor declines an instructor request
func (s *Service) RejectInstructor(ctx context.Context, userID string) (*learnsphere.Message, error) {
	ret, err := s.api.InstructorRequests.Reject(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.invalidate(InstructorRequestsKey(), InstructorsKey(nil))
	return ret, nil
}
