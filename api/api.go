// Package api wraps each LearnSphere REST resource in a typed call set.
package api

import (
	"context"
	"net/url"
	"path"
)

// Sender issues a JSON request; rest.Client implements it.
type Sender interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error
}

// API groups resource wrappers sharing one Sender
type API struct {
	Auth               *Auth
	Users              *Users
	Instructors        *Instructors
	Courses            *Courses
	Lessons            *Lessons
	Quizzes            *Quizzes
	Uploads            *Uploads
	Reports            *Reports
	CourseRequests     *CourseRequests
	InstructorRequests *InstructorRequests
	Health             *Health
}

// New creates API over sender
func New(sender Sender) *API {
	return &API{
		Auth:               &Auth{sender: sender},
		Users:              &Users{sender: sender},
		Instructors:        &Instructors{sender: sender},
		Courses:            &Courses{sender: sender},
		Lessons:            &Lessons{sender: sender},
		Quizzes:            &Quizzes{sender: sender},
		Uploads:            &Uploads{sender: sender},
		Reports:            &Reports{sender: sender},
		CourseRequests:     &CourseRequests{sender: sender},
		InstructorRequests: &InstructorRequests{sender: sender},
		Health:             &Health{sender: sender},
	}
}

func resource(base string, elements ...string) string {
	escaped := make([]string, 0, len(elements)+1)
	escaped = append(escaped, base)
	for _, element := range elements {
		escaped = append(escaped, url.PathEscape(element))
	}
	return path.Join(escaped...)
}
