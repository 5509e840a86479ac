// Package fakeapi is an in-memory LearnSphere backend used by tests and local runs.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/viant/learnsphere"
)

const refreshCookie = "refresh_token"

// Seeded accounts
const (
	AdminEmail         = "admin@learnsphere.io"
	AdminPassword      = "admin123"
	InstructorEmail    = "instructor@learnsphere.io"
	InstructorPassword = "teach123"
)

type failure struct {
	status int
	times  int
}

// Server is an in-memory backend
type Server struct {
	mux        sync.Mutex
	httpServer *httptest.Server
	router     chi.Router
	signingKey []byte
	accessTTL  time.Duration
	clock      func() time.Time
	epoch      int
	users      map[string]*account
	refresh    map[string]string
	courses    map[string]*learnsphere.Course
	lessons    map[string]*learnsphere.Lesson
	quizzes    map[string]*learnsphere.Quiz
	requests   map[string]*learnsphere.CourseRequest
	applicants map[string]*learnsphere.InstructorRequest
	files      map[string]*storedFile
	reviews    map[string][]learnsphere.Review
	calls      map[string]int
	failures   map[string]*failure
	onRefresh  func()
}

type account struct {
	user     learnsphere.User
	password string
}

type storedFile struct {
	meta          learnsphere.FileMetadata
	data          []byte
	authorization string
	uploaded      bool
}

// Option configures Server
type Option func(s *Server)

// WithAccessTTL sets issued access credential lifetime
func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = ttl
	}
}

// WithClock sets the clock used to issue and validate credentials
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// URL returns the API base URL, including the /api/v1 prefix
func (s *Server) URL() string {
	return s.httpServer.URL + learnsphere.DefaultBasePath
}

// Close stops the server
func (s *Server) Close() {
	s.httpServer.Close()
}

// Calls returns how many times method path was requested, path excludes the /api/v1 prefix
func (s *Server) Calls(method, path string) int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.calls[method+" "+path]
}

// Fail makes the next times requests to method path answer status
func (s *Server) Fail(method, path string, status, times int) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.failures[method+" "+path] = &failure{status: status, times: times}
}

// OnRefresh runs hook inside every refresh call before it answers
func (s *Server) OnRefresh(hook func()) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.onRefresh = hook
}

// ExpireAccess invalidates every access credential issued so far; refresh cookies stay valid.
func (s *Server) ExpireAccess() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.epoch++
}

// RevokeRefresh invalidates every refresh cookie
func (s *Server) RevokeRefresh() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.refresh = map[string]string{}
}

// Uploaded returns stored bytes and the Authorization header seen on the storage transfer
func (s *Server) Uploaded(fileID string) (data []byte, authorization string, ok bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	file, ok := s.files[fileID]
	if !ok || !file.uploaded {
		return nil, "", false
	}
	return append([]byte(nil), file.data...), file.authorization, true
}

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, learnsphere.DefaultBasePath)
		s.mux.Lock()
		s.calls[key]++
		injected, ok := s.failures[key]
		if ok {
			injected.times--
			if injected.times <= 0 {
				delete(s.failures, key)
			}
		}
		s.mux.Unlock()
		if ok {
			writeError(w, injected.status, "INJECTED", http.StatusText(injected.status), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.track)
	r.Put("/storage/{fileId}", s.handleStorage)
	r.Route(learnsphere.DefaultBasePath, func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)
		r.Post("/auth/logout", s.handleLogout)
		r.Post("/auth/forgot-password", s.handleForgotPassword)
		r.Post("/auth/reset-password", s.handleResetPassword)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/auth/me", s.handleMe)
			r.Patch("/users/me", s.handleUpdateProfile)
			r.Patch("/users/me/password", s.handleChangePassword)
			r.Get("/users/instructors", s.handleInstructors)
			r.Get("/users/instructors/{id}", s.handleInstructor)

			r.Get("/courses", s.handleCourses)
			r.Get("/courses/backoffice", s.handleCourses)
			r.Post("/courses", s.handleCreateCourse)
			r.Get("/courses/{id}", s.handleCourse)
			r.Patch("/courses/{id}", s.handleUpdateCourse)
			r.Delete("/courses/{id}", s.handleDeleteCourse)
			r.Post("/courses/{id}/publish", s.handlePublish(true))
			r.Post("/courses/{id}/unpublish", s.handlePublish(false))
			r.Post("/courses/{id}/invite", s.handleInvite)
			r.Get("/courses/{id}/reviews", s.handleCourseReviews)
			r.Get("/courses/{id}/lessons", s.handleLessons)
			r.Post("/courses/{id}/lessons", s.handleCreateLesson)
			r.Put("/courses/{id}/lessons/reorder", s.handleReorderLessons)
			r.Patch("/lessons/{id}", s.handleUpdateLesson)
			r.Delete("/lessons/{id}", s.handleDeleteLesson)
			r.Post("/courses/{id}/quizzes", s.handleCreateQuiz)
			r.Get("/quizzes/{id}", s.handleQuiz)
			r.Patch("/quizzes/{id}", s.handleUpdateQuiz)
			r.Delete("/quizzes/{id}", s.handleDeleteQuiz)

			r.Post("/uploads/init", s.handleUploadInit)
			r.Post("/uploads/complete", s.handleUploadComplete)

			r.Get("/reports/course-progress", s.handleCourseProgress)
			r.Get("/reports/learners", s.handleLearners)
			r.Get("/reports/reviews", s.handleReportReviews)
			r.Get("/reports/dashboard", s.handleDashboard)

			r.Get("/course-requests", s.handleCourseRequests)
			r.Post("/course-requests", s.handleSubmitCourseRequest)
			r.Get("/course-requests/stats", s.handleCourseRequestStats)
			r.Get("/course-requests/{id}", s.handleCourseRequest)
			r.Patch("/course-requests/{id}/approve", s.handleDecideCourseRequest(learnsphere.CourseRequestApproved))
			r.Patch("/course-requests/{id}/reject", s.handleDecideCourseRequest(learnsphere.CourseRequestRejected))

			r.Get("/admin/instructor-requests", s.handleInstructorRequests)
			r.Post("/admin/approve-instructor/{id}", s.handleDecideInstructor(true))
			r.Post("/admin/reject-instructor/{id}", s.handleDecideInstructor(false))
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set(learnsphere.HeaderContentType, "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details []learnsphere.FieldError) {
	body := map[string]interface{}{
		"error": map[string]interface{}{"code": code, "message": message, "details": details},
	}
	writeJSON(w, status, body)
}

func decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return false
	}
	return true
}

// New starts a server seeded with an admin, an instructor and one course
func New(options ...Option) *Server {
	ret := &Server{
		signingKey: []byte("learnsphere-test-key"),
		accessTTL:  15 * time.Minute,
		clock:      time.Now,
		users:      map[string]*account{},
		refresh:    map[string]string{},
		courses:    map[string]*learnsphere.Course{},
		lessons:    map[string]*learnsphere.Lesson{},
		quizzes:    map[string]*learnsphere.Quiz{},
		requests:   map[string]*learnsphere.CourseRequest{},
		applicants: map[string]*learnsphere.InstructorRequest{},
		files:      map[string]*storedFile{},
		reviews:    map[string][]learnsphere.Review{},
		calls:      map[string]int{},
		failures:   map[string]*failure{},
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.seed()
	ret.router = ret.routes()
	ret.httpServer = httptest.NewServer(ret.router)
	return ret
}
