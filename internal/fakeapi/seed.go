package fakeapi

import "github.com/viant/learnsphere"

// Seeded identifiers
const (
	AdminID      = "u-admin"
	InstructorID = "u-instructor"
	ApplicantID  = "u-applicant"
	CourseID     = "c-intro"
	LessonID     = "l-welcome"
)

func (s *Server) seed() {
	now := s.clock()
	s.users[AdminID] = &account{
		user:     learnsphere.User{ID: AdminID, Email: AdminEmail, Name: "Ada Admin", Role: learnsphere.RoleAdmin},
		password: AdminPassword,
	}
	s.users[InstructorID] = &account{
		user:     learnsphere.User{ID: InstructorID, Email: InstructorEmail, Name: "Ian Instructor", Role: learnsphere.RoleInstructor},
		password: InstructorPassword,
	}
	s.applicants[ApplicantID] = &learnsphere.InstructorRequest{
		ID:        ApplicantID,
		Name:      "Alex Applicant",
		Email:     "applicant@learnsphere.io",
		Status:    "PENDING",
		CreatedAt: now,
	}
	s.courses[CourseID] = &learnsphere.Course{
		ID:            CourseID,
		Title:         "Introduction to Go",
		Slug:          "introduction-to-go",
		Description:   "Types, interfaces and concurrency",
		Tags:          []string{"go"},
		ResponsibleID: InstructorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.lessons[LessonID] = &learnsphere.Lesson{
		ID:          LessonID,
		CourseID:    CourseID,
		Title:       "Welcome",
		Type:        "VIDEO",
		DurationSec: 120,
		SortOrder:   1,
		CreatedAt:   now,
	}
	s.reviews[CourseID] = []learnsphere.Review{
		{ID: "r-1", UserID: "u-learner", UserName: "Lee Learner", Rating: 5, Text: "Clear and practical", CreatedAt: now},
	}
}
