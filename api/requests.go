package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/viant/learnsphere"
)

// CourseRequests wraps the course publication request workflow
type CourseRequests struct {
	sender Sender
}

// List returns course requests, optionally filtered by status
func (c *CourseRequests) List(ctx context.Context, params url.Values) ([]learnsphere.CourseRequest, error) {
	var ret []learnsphere.CourseRequest
	if err := c.sender.Do(ctx, http.MethodGet, learnsphere.PathCourseRequests, params, nil, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Get returns one course request
func (c *CourseRequests) Get(ctx context.Context, id string) (*learnsphere.CourseRequest, error) {
	return c.request(ctx, http.MethodGet, resource(learnsphere.PathCourseRequests, id), nil)
}

// Submit asks staff to publish a course
func (c *CourseRequests) Submit(ctx context.Context, courseID string) (*learnsphere.CourseRequest, error) {
	body := map[string]string{"courseId": courseID}
	return c.request(ctx, http.MethodPost, learnsphere.PathCourseRequests, body)
}

// Approve approves a pending request
func (c *CourseRequests) Approve(ctx context.Context, id string) (*learnsphere.CourseRequest, error) {
	return c.request(ctx, http.MethodPatch, resource(learnsphere.PathCourseRequests, id, "approve"), map[string]string{})
}

// Reject rejects a pending request with reason
func (c *CourseRequests) Reject(ctx context.Context, id, reason string) (*learnsphere.CourseRequest, error) {
	body := map[string]string{"reason": reason}
	return c.request(ctx, http.MethodPatch, resource(learnsphere.PathCourseRequests, id, "reject"), body)
}

// Stats returns request counts by status
func (c *CourseRequests) Stats(ctx context.Context) (*learnsphere.CourseRequestStats, error) {
	ret := &learnsphere.CourseRequestStats{}
	if err := c.sender.Do(ctx, http.MethodGet, learnsphere.PathCourseRequestStats, nil, nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *CourseRequests) request(ctx context.Context, method, path string, body interface{}) (*learnsphere.CourseRequest, error) {
	ret := &learnsphere.CourseRequest{}
	if err := c.sender.Do(ctx, method, path, nil, body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// InstructorRequests wraps instructor sign-up review
type InstructorRequests struct {
	sender Sender
}

// List returns pending instructor requests
func (i *InstructorRequests) List(ctx context.Context) ([]learnsphere.InstructorRequest, error) {
	var ret []learnsphere.InstructorRequest
	if err := i.sender.Do(ctx, http.MethodGet, learnsphere.PathInstructorRequests, nil, nil, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Approve promotes the requesting user to instructor
func (i *InstructorRequests) Approve(ctx context.Context, userID string) (*learnsphere.Message, error) {
	return i.decide(ctx, learnsphere.PathApproveInstructor, userID)
}

// Reject declines the request
func (i *InstructorRequests) Reject(ctx context.Context, userID string) (*learnsphere.Message, error) {
	return i.decide(ctx, learnsphere.PathRejectInstructor, userID)
}

func (i *InstructorRequests) decide(ctx context.Context, base, userID string) (*learnsphere.Message, error) {
	ret := &learnsphere.Message{}
	if err := i.sender.Do(ctx, http.MethodPost, resource(base, userID), nil, nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Health probes service liveness
type Health struct {
	sender Sender
}

// Check returns nil when the service responds
func (h *Health) Check(ctx context.Context) error {
	return h.sender.Do(ctx, http.MethodGet, learnsphere.PathHealth, nil, nil, nil)
}
