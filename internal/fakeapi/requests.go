package fakeapi

import (
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/viant/learnsphere"
)

func (s *Server) handleCourseRequests(w http.ResponseWriter, r *http.Request) {
	status := strings.ToUpper(r.URL.Query().Get("status"))
	s.mux.Lock()
	defer s.mux.Unlock()
	ret := []learnsphere.CourseRequest{}
	for _, request := range s.requests {
		if status != "" && string(request.Status) != status {
			continue
		}
		ret = append(ret, *request)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].CreatedAt.Before(ret[j].CreatedAt) })
	writeJSON(w, http.StatusOK, ret)
}

func (s *Server) handleCourseRequest(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	request, ok := s.requests[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "course request not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (s *Server) handleSubmitCourseRequest(w http.ResponseWriter, r *http.Request) {
	input := struct {
		CourseID string `json:"courseId"`
	}{}
	if !decode(w, r, &input) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	course, ok := s.courses[input.CourseID]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "course not found", nil)
		return
	}
	for _, request := range s.requests {
		if request.Course.ID == course.ID && request.Status == learnsphere.CourseRequestPending {
			writeError(w, http.StatusConflict, "CONFLICT", "a pending request already exists", nil)
			return
		}
	}
	request := &learnsphere.CourseRequest{
		ID:         uuid.NewString(),
		Status:     learnsphere.CourseRequestPending,
		CreatedAt:  s.clock(),
		Instructor: s.users[currentUser(r)].user,
		Course: learnsphere.CourseRequestCourse{
			ID:          course.ID,
			Title:       course.Title,
			Description: course.Description,
			Tags:        course.Tags,
			Published:   course.Published,
		},
	}
	request.Course.Count.Lessons = len(s.courseView(course).Lessons)
	s.requests[request.ID] = request
	writeJSON(w, http.StatusCreated, request)
}

func (s *Server) handleDecideCourseRequest(status learnsphere.CourseRequestStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := struct {
			Reason string `json:"reason"`
		}{}
		if !decode(w, r, &input) {
			return
		}
		s.mux.Lock()
		defer s.mux.Unlock()
		request, ok := s.requests[chi.URLParam(r, "id")]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "course request not found", nil)
			return
		}
		if request.Status != learnsphere.CourseRequestPending {
			writeError(w, http.StatusConflict, "CONFLICT", "course request already reviewed", nil)
			return
		}
		if status == learnsphere.CourseRequestRejected && strings.TrimSpace(input.Reason) == "" {
			writeError(w, http.StatusBadRequest, "VALIDATION", "reason is required", []learnsphere.FieldError{{Field: "reason", Message: "required"}})
			return
		}
		now := s.clock()
		reviewer := s.users[currentUser(r)].user
		request.Status = status
		request.RejectionReason = input.Reason
		request.ReviewedAt = &now
		request.UpdatedAt = &now
		request.ReviewedBy = &reviewer
		if status == learnsphere.CourseRequestApproved {
			if course, ok := s.courses[request.Course.ID]; ok {
				course.Published = true
				request.Course.Published = true
			}
		}
		writeJSON(w, http.StatusOK, request)
	}
}

func (s *Server) handleCourseRequestStats(w http.ResponseWriter, _ *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	stats := learnsphere.CourseRequestStats{}
	for _, request := range s.requests {
		switch request.Status {
		case learnsphere.CourseRequestPending:
			stats.Pending++
		case learnsphere.CourseRequestApproved:
			stats.Approved++
		case learnsphere.CourseRequestRejected:
			stats.Rejected++
		}
		stats.Total++
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleInstructorRequests(w http.ResponseWriter, _ *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	ret := []learnsphere.InstructorRequest{}
	for _, applicant := range s.applicants {
		ret = append(ret, *applicant)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Email < ret[j].Email })
	writeJSON(w, http.StatusOK, ret)
}

func (s *Server) handleDecideInstructor(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mux.Lock()
		defer s.mux.Unlock()
		id := chi.URLParam(r, "id")
		applicant, ok := s.applicants[id]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "instructor request not found", nil)
			return
		}
		delete(s.applicants, id)
		if !approve {
			writeJSON(w, http.StatusOK, learnsphere.Message{Message: "instructor request rejected"})
			return
		}
		s.users[id] = &account{user: learnsphere.User{ID: id, Email: applicant.Email, Name: applicant.Name, Role: learnsphere.RoleInstructor}}
		writeJSON(w, http.StatusOK, learnsphere.Message{Message: "instructor approved"})
	}
}

func (s *Server) handleInstructors(w http.ResponseWriter, _ *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	page := learnsphere.Page[learnsphere.User]{Data: []learnsphere.User{}}
	for _, acc := range s.users {
		if acc.user.Role == learnsphere.RoleInstructor {
			page.Data = append(page.Data, acc.user)
		}
	}
	sort.Slice(page.Data, func(i, j int) bool { return page.Data[i].Email < page.Data[j].Email })
	page.Paging.Limit = len(page.Data)
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleInstructor(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	acc, ok := s.users[chi.URLParam(r, "id")]
	if !ok || acc.user.Role != learnsphere.RoleInstructor {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "instructor not found", nil)
		return
	}
	detail := learnsphere.InstructorDetail{User: acc.user, Courses: []learnsphere.InstructorCourse{}}
	for _, course := range s.courses {
		if course.ResponsibleID != acc.user.ID {
			continue
		}
		detail.Courses = append(detail.Courses, learnsphere.InstructorCourse{ID: course.ID, Title: course.Title, Published: course.Published, CreatedAt: course.CreatedAt})
	}
	detail.CoursesCount = len(detail.Courses)
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCourseProgress(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.courses[courseID]; !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "course not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, learnsphere.CourseProgress{Rows: []learnsphere.ReportRow{}})
}

func (s *Server) handleLearners(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []learnsphere.LearnerDetail{})
}

func (s *Server) handleReportReviews(w http.ResponseWriter, _ *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	ret := []learnsphere.Review{}
	for _, reviews := range s.reviews {
		ret = append(ret, reviews...)
	}
	writeJSON(w, http.StatusOK, ret)
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	writeJSON(w, http.StatusOK, learnsphere.DashboardStats{TotalCourses: len(s.courses)})
}

func (s *Server) handleUploadInit(w http.ResponseWriter, r *http.Request) {
	input := learnsphere.UploadRequest{}
	if !decode(w, r, &input) {
		return
	}
	if input.Filename == "" || input.Size <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION", "filename and size are required", []learnsphere.FieldError{{Field: "filename", Message: "required"}})
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	id := uuid.NewString()
	s.files[id] = &storedFile{meta: learnsphere.FileMetadata{ID: id, Filename: input.Filename, MimeType: input.MimeType, Size: input.Size}}
	writeJSON(w, http.StatusOK, learnsphere.UploadInit{
		UploadURL: s.httpServer.URL + "/storage/" + id,
		FileID:    id,
		Method:    http.MethodPut,
	})
}

func (s *Server) handleStorage(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	file, ok := s.files[chi.URLParam(r, "fileId")]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "upload not reserved", nil)
		return
	}
	file.data = data
	file.authorization = r.Header.Get(learnsphere.HeaderAuthorization)
	file.uploaded = true
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUploadComplete(w http.ResponseWriter, r *http.Request) {
	input := struct {
		FileID string `json:"fileId"`
	}{}
	if !decode(w, r, &input) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	file, ok := s.files[input.FileID]
	if !ok || !file.uploaded {
		writeError(w, http.StatusConflict, "CONFLICT", "file was not uploaded", nil)
		return
	}
	file.meta.URL = s.httpServer.URL + "/files/" + file.meta.ID
	writeJSON(w, http.StatusOK, map[string]interface{}{"file": file.meta})
}
