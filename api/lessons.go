package api

import (
	"context"
	"net/http"

	"github.com/viant/learnsphere"
)

// Lessons wraps lesson endpoints
type Lessons struct {
	sender Sender
}

// List returns course lessons ordered by sort order
func (l *Lessons) List(ctx context.Context, courseID string) ([]learnsphere.Lesson, error) {
	var ret []learnsphere.Lesson
	if err := l.sender.Do(ctx, http.MethodGet, resource(learnsphere.PathCourses, courseID, "lessons"), nil, nil, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Create adds a lesson to a course
func (l *Lessons) Create(ctx context.Context, courseID string, input *learnsphere.LessonInput) (*learnsphere.Lesson, error) {
	return l.lesson(ctx, http.MethodPost, resource(learnsphere.PathCourses, courseID, "lessons"), input)
}

// Update patches a lesson
func (l *Lessons) Update(ctx context.Context, id string, input *learnsphere.LessonInput) (*learnsphere.Lesson, error) {
	return l.lesson(ctx, http.MethodPatch, resource(learnsphere.PathLessons, id), input)
}

// Delete deletes a lesson
func (l *Lessons) Delete(ctx context.Context, id string) error {
	return l.sender.Do(ctx, http.MethodDelete, resource(learnsphere.PathLessons, id), nil, nil, nil)
}

// Reorder sets lesson sort orders within a course
func (l *Lessons) Reorder(ctx context.Context, courseID string, orders []learnsphere.LessonOrder) error {
	body := map[string][]learnsphere.LessonOrder{"lessons": orders}
	return l.sender.Do(ctx, http.MethodPut, resource(learnsphere.PathCourses, courseID, "lessons", "reorder"), nil, body, nil)
}

func (l *Lessons) lesson(ctx context.Context, method, path string, body interface{}) (*learnsphere.Lesson, error) {
	ret := &learnsphere.Lesson{}
	if err := l.sender.Do(ctx, method, path, nil, body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Quizzes wraps quiz endpoints
type Quizzes struct {
	sender Sender
}

// Get returns a quiz with questions
func (q *Quizzes) Get(ctx context.Context, id string) (*learnsphere.Quiz, error) {
	return q.quiz(ctx, http.MethodGet, resource(learnsphere.PathQuizzes, id), nil)
}

// Create adds a quiz to a course
func (q *Quizzes) Create(ctx context.Context, courseID string, input *learnsphere.QuizInput) (*learnsphere.Quiz, error) {
	return q.quiz(ctx, http.MethodPost, resource(learnsphere.PathCourses, courseID, "quizzes"), input)
}

// Update patches a quiz
func (q *Quizzes) Update(ctx context.Context, id string, input *learnsphere.QuizInput) (*learnsphere.Quiz, error) {
	return q.quiz(ctx, http.MethodPatch, resource(learnsphere.PathQuizzes, id), input)
}

// Delete deletes a quiz
func (q *Quizzes) Delete(ctx context.Context, id string) error {
	return q.sender.Do(ctx, http.MethodDelete, resource(learnsphere.PathQuizzes, id), nil, nil, nil)
}

func (q *Quizzes) quiz(ctx context.Context, method, path string, body interface{}) (*learnsphere.Quiz, error) {
	ret := &learnsphere.Quiz{}
	if err := q.sender.Do(ctx, method, path, nil, body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
