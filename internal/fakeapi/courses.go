package fakeapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/viant/learnsphere"
)

func (s *Server) courseView(course *learnsphere.Course) learnsphere.Course {
	ret := *course
	ret.Lessons = []learnsphere.Lesson{}
	ret.Quizzes = []learnsphere.Quiz{}
	for _, lesson := range s.lessons {
		if lesson.CourseID == course.ID {
			ret.Lessons = append(ret.Lessons, *lesson)
		}
	}
	sort.Slice(ret.Lessons, func(i, j int) bool { return ret.Lessons[i].SortOrder < ret.Lessons[j].SortOrder })
	for _, quiz := range s.quizzes {
		if quiz.CourseID == course.ID {
			ret.Quizzes = append(ret.Quizzes, *quiz)
		}
	}
	sort.Slice(ret.Quizzes, func(i, j int) bool { return ret.Quizzes[i].CreatedAt.Before(ret.Quizzes[j].CreatedAt) })
	ret.LessonsCount = len(ret.Lessons)
	ret.TotalDurationSec = 0
	for _, lesson := range ret.Lessons {
		ret.TotalDurationSec += lesson.DurationSec
	}
	return ret
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	published := r.URL.Query().Get("published")
	s.mux.Lock()
	defer s.mux.Unlock()
	page := learnsphere.Page[learnsphere.Course]{Data: []learnsphere.Course{}}
	for _, course := range s.courses {
		if search != "" && !strings.Contains(strings.ToLower(course.Title), search) {
			continue
		}
		if published != "" && (published == "true") != course.Published {
			continue
		}
		view := s.courseView(course)
		view.Lessons, view.Quizzes = nil, nil
		page.Data = append(page.Data, view)
	}
	sort.Slice(page.Data, func(i, j int) bool { return page.Data[i].Title < page.Data[j].Title })
	page.Paging.Limit = len(page.Data)
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	course, ok := s.courses[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "course not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, s.courseView(course))
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	input := learnsphere.CourseInput{}
	if !decode(w, r, &input) {
		return
	}
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "title is required", []learnsphere.FieldError{{Field: "title", Message: "required"}})
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	now := s.clock()
	course := &learnsphere.Course{
		ID:            uuid.NewString(),
		Slug:          slug(*input.Title),
		Tags:          []string{},
		ResponsibleID: currentUser(r),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	applyCourse(course, &input)
	s.courses[course.ID] = course
	writeJSON(w, http.StatusCreated, s.courseView(course))
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	input := learnsphere.CourseInput{}
	if !decode(w, r, &input) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	course, ok := s.courses[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "course not found", nil)
		return
	}
	applyCourse(course, &input)
	course.UpdatedAt = s.clock()
	writeJSON(w, http.StatusOK, s.courseView(course))
}

func applyCourse(course *learnsphere.Course, input *learnsphere.CourseInput) {
	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Tags != nil {
		course.Tags = input.Tags
	}
	if input.CoverImageID != nil {
		course.CoverImageID = *input.CoverImageID
	}
	if input.Visibility != nil {
		course.Visibility = *input.Visibility
	}
	if input.AccessRule != nil {
		course.AccessRule = *input.AccessRule
	}
	if input.Price != nil {
		course.Price = input.Price
	}
	if input.WebsiteURL != nil {
		course.WebsiteURL = *input.WebsiteURL
	}
	if input.ResponsibleID != nil {
		course.ResponsibleID = *input.ResponsibleID
	}
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := s.courses[id]; !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "course not found", nil)
		return
	}
	delete(s.courses, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePublish(published bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mux.Lock()
		defer s.mux.Unlock()
		course, ok := s.courses[chi.URLParam(r, "id")]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "course not found", nil)
			return
		}
		if published && course.Title == "" {
			writeError(w, http.StatusConflict, "CONFLICT", "course has no title", nil)
			return
		}
		course.Published = published
		course.UpdatedAt = s.clock()
		writeJSON(w, http.StatusOK, s.courseView(course))
	}
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Emails []string `json:"emails"`
	}{}
	if !decode(w, r, &input) {
		return
	}
	if len(input.Emails) == 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION", "emails are required", []learnsphere.FieldError{{Field: "emails", Message: "required"}})
		return
	}
	writeJSON(w, http.StatusOK, learnsphere.Message{Message: "invitations sent"})
}

func (s *Server) handleCourseReviews(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	reviews := s.reviews[chi.URLParam(r, "id")]
	if reviews == nil {
		reviews = []learnsphere.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleLessons(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	course, ok := s.courses[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "course not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, s.courseView(course).Lessons)
}

func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	input := learnsphere.LessonInput{}
	if !decode(w, r, &input) {
		return
	}
	if input.Title == nil || *input.Title == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "title is required", []learnsphere.FieldError{{Field: "title", Message: "required"}})
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	course, ok := s.courses[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "course not found", nil)
		return
	}
	lesson := &learnsphere.Lesson{
		ID:        uuid.NewString(),
		CourseID:  course.ID,
		Type:      "VIDEO",
		SortOrder: len(s.courseView(course).Lessons) + 1,
		CreatedAt: s.clock(),
	}
	applyLesson(lesson, &input)
	s.lessons[lesson.ID] = lesson
	writeJSON(w, http.StatusCreated, lesson)
}

func (s *Server) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	input := learnsphere.LessonInput{}
	if !decode(w, r, &input) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	lesson, ok := s.lessons[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "lesson not found", nil)
		return
	}
	applyLesson(lesson, &input)
	writeJSON(w, http.StatusOK, lesson)
}

func applyLesson(lesson *learnsphere.Lesson, input *learnsphere.LessonInput) {
	if input.Title != nil {
		lesson.Title = *input.Title
	}
	if input.Type != nil {
		lesson.Type = *input.Type
	}
	if input.ExternalURL != nil {
		lesson.ExternalURL = *input.ExternalURL
	}
	if input.DurationSec != nil {
		lesson.DurationSec = *input.DurationSec
	}
	if input.AllowDownload != nil {
		lesson.AllowDownload = *input.AllowDownload
	}
	if input.Description != nil {
		lesson.Description = *input.Description
	}
	if input.SortOrder != nil {
		lesson.SortOrder = *input.SortOrder
	}
	if input.MediaFileID != nil {
		lesson.MediaFileID = *input.MediaFileID
	}
}

func (s *Server) handleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := s.lessons[id]; !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "lesson not found", nil)
		return
	}
	delete(s.lessons, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderLessons(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Lessons []learnsphere.LessonOrder `json:"lessons"`
	}{}
	if !decode(w, r, &input) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	courseID := chi.URLParam(r, "id")
	for _, order := range input.Lessons {
		lesson, ok := s.lessons[order.ID]
		if !ok || lesson.CourseID != courseID {
			writeError(w, http.StatusBadRequest, "VALIDATION", "unknown lesson "+order.ID, []learnsphere.FieldError{{Field: "lessons", Message: "unknown lesson"}})
			return
		}
	}
	for _, order := range input.Lessons {
		s.lessons[order.ID].SortOrder = order.SortOrder
	}
	writeJSON(w, http.StatusOK, learnsphere.Message{Message: "lessons reordered"})
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	input := learnsphere.QuizInput{}
	if !decode(w, r, &input) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	course, ok := s.courses[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "course not found", nil)
		return
	}
	quiz := &learnsphere.Quiz{ID: uuid.NewString(), CourseID: course.ID, Questions: []learnsphere.Question{}, CreatedAt: s.clock()}
	applyQuiz(quiz, &input)
	s.quizzes[quiz.ID] = quiz
	writeJSON(w, http.StatusCreated, quiz)
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	quiz, ok := s.quizzes[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "quiz not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (s *Server) handleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	input := learnsphere.QuizInput{}
	if !decode(w, r, &input) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	quiz, ok := s.quizzes[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "quiz not found", nil)
		return
	}
	applyQuiz(quiz, &input)
	writeJSON(w, http.StatusOK, quiz)
}

func applyQuiz(quiz *learnsphere.Quiz, input *learnsphere.QuizInput) {
	if input.Title != nil {
		quiz.Title = *input.Title
	}
	if input.PointsFirstTry != nil {
		quiz.PointsFirstTry = *input.PointsFirstTry
	}
	if input.PointsSecondTry != nil {
		quiz.PointsSecondTry = input.PointsSecondTry
	}
	if input.Questions != nil {
		quiz.Questions = input.Questions
	}
}

func (s *Server) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := s.quizzes[id]; !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "quiz not found", nil)
		return
	}
	delete(s.quizzes, id)
	w.WriteHeader(http.StatusNoContent)
}

func slug(title string) string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
