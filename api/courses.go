package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/viant/learnsphere"
)

// Courses wraps course endpoints
type Courses struct {
	sender Sender
}

// List returns the public course page
func (c *Courses) List(ctx context.Context, params url.Values) (*learnsphere.Page[learnsphere.Course], error) {
	return c.list(ctx, learnsphere.PathCourses, params)
}

// ListBackoffice returns all courses visible to staff
func (c *Courses) ListBackoffice(ctx context.Context, params url.Values) (*learnsphere.Page[learnsphere.Course], error) {
	return c.list(ctx, learnsphere.PathCoursesBackoffice, params)
}

func (c *Courses) list(ctx context.Context, path string, params url.Values) (*learnsphere.Page[learnsphere.Course], error) {
	ret := &learnsphere.Page[learnsphere.Course]{}
	if err := c.sender.Do(ctx, http.MethodGet, path, params, nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Get returns a course with lessons and quizzes
func (c *Courses) Get(ctx context.Context, id string) (*learnsphere.Course, error) {
	return c.course(ctx, http.MethodGet, resource(learnsphere.PathCourses, id), nil)
}

// Create creates a course
func (c *Courses) Create(ctx context.Context, input *learnsphere.CourseInput) (*learnsphere.Course, error) {
	return c.course(ctx, http.MethodPost, learnsphere.PathCourses, input)
}

// Update patches a course
func (c *Courses) Update(ctx context.Context, id string, input *learnsphere.CourseInput) (*learnsphere.Course, error) {
	return c.course(ctx, http.MethodPatch, resource(learnsphere.PathCourses, id), input)
}

// Publish publishes a course
func (c *Courses) Publish(ctx context.Context, id string) (*learnsphere.Course, error) {
	return c.course(ctx, http.MethodPost, resource(learnsphere.PathCourses, id, "publish"), nil)
}

// Unpublish unpublishes a course
func (c *Courses) Unpublish(ctx context.Context, id string) (*learnsphere.Course, error) {
	return c.course(ctx, http.MethodPost, resource(learnsphere.PathCourses, id, "unpublish"), nil)
}

// Delete deletes a course
func (c *Courses) Delete(ctx context.Context, id string) error {
	return c.sender.Do(ctx, http.MethodDelete, resource(learnsphere.PathCourses, id), nil, nil, nil)
}

// Invite invites emails to a course
func (c *Courses) Invite(ctx context.Context, id string, emails []string) error {
	body := map[string][]string{"emails": emails}
	return c.sender.Do(ctx, http.MethodPost, resource(learnsphere.PathCourses, id, "invite"), nil, body, nil)
}

// Reviews returns course reviews
func (c *Courses) Reviews(ctx context.Context, id string) ([]learnsphere.Review, error) {
	var ret []learnsphere.Review
	if err := c.sender.Do(ctx, http.MethodGet, resource(learnsphere.PathCourses, id, "reviews"), nil, nil, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Courses) course(ctx context.Context, method, path string, body interface{}) (*learnsphere.Course, error) {
	ret := &learnsphere.Course{}
	if err := c.sender.Do(ctx, method, path, nil, body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
