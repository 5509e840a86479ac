package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/viant/learnsphere"
)

type claims struct {
	Role  string `json:"role"`
	Epoch int    `json:"epoch"`
	jwt.RegisteredClaims
}

type userKey struct{}

// IssueToken signs an access credential for userID with the server key
func (s *Server) IssueToken(userID string) (string, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.issue(userID)
}

func (s *Server) issue(userID string) (string, error) {
	now := s.clock()
	role := ""
	if acc, ok := s.users[userID]; ok {
		role = string(acc.user.Role)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:  role,
		Epoch: s.epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

func (s *Server) validate(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.clock))
	if err != nil {
		return "", err
	}
	parsedClaims, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token")
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if parsedClaims.Epoch != s.epoch {
		return "", errors.New("token revoked")
	}
	if _, ok := s.users[parsedClaims.Subject]; !ok {
		return "", errors.New("unknown subject")
	}
	return parsedClaims.Subject, nil
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(learnsphere.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credential", nil)
			return
		}
		userID, err := s.validate(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, userID)))
	})
}

func currentUser(r *http.Request) string {
	userID, _ := r.Context().Value(userKey{}).(string)
	return userID
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if !decode(w, r, &input) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	for id, acc := range s.users {
		if !strings.EqualFold(acc.user.Email, input.Email) || acc.password != input.Password {
			continue
		}
		token, err := s.issue(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
			return
		}
		session := uuid.NewString()
		s.refresh[session] = id
		http.SetCookie(w, &http.Cookie{Name: refreshCookie, Value: session, Path: "/", HttpOnly: true})
		user := acc.user
		writeJSON(w, http.StatusOK, learnsphere.LoginResult{AccessToken: token, User: &user})
		return
	}
	writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	hook := s.onRefresh
	s.mux.Unlock()
	if hook != nil {
		hook()
	}
	cookie, err := r.Cookie(refreshCookie)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing refresh cookie", nil)
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	userID, ok := s.refresh[cookie.Value]
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "refresh revoked", nil)
		return
	}
	token, err := s.issue(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookie); err == nil {
		s.mux.Lock()
		delete(s.refresh, cookie.Value)
		s.mux.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: refreshCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, learnsphere.Message{Message: "logged out"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Email   string `json:"email"`
		AppType string `json:"appType"`
	}{}
	if !decode(w, r, &input) {
		return
	}
	if input.Email == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "email is required", []learnsphere.FieldError{{Field: "email", Message: "required"}})
		return
	}
	writeJSON(w, http.StatusOK, learnsphere.Message{Message: "if the account exists, a reset link was sent"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}{}
	if !decode(w, r, &input) {
		return
	}
	if len(input.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "VALIDATION", "password too short", []learnsphere.FieldError{{Field: "newPassword", Message: "at least 6 characters"}})
		return
	}
	writeJSON(w, http.StatusOK, learnsphere.Message{Message: "password reset"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	writeJSON(w, http.StatusOK, s.users[currentUser(r)].user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	input := learnsphere.ProfileUpdate{}
	if !decode(w, r, &input) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	acc := s.users[currentUser(r)]
	if input.Name != nil {
		acc.user.Name = *input.Name
	}
	if input.Bio != nil {
		acc.user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		acc.user.AvatarURL = *input.AvatarURL
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	input := learnsphere.PasswordChange{}
	if !decode(w, r, &input) {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	acc := s.users[currentUser(r)]
	if acc.password != input.CurrentPassword {
		writeError(w, http.StatusBadRequest, "VALIDATION", "current password is incorrect", []learnsphere.FieldError{{Field: "currentPassword", Message: "incorrect"}})
		return
	}
	acc.password = input.NewPassword
	writeJSON(w, http.StatusOK, learnsphere.Message{Message: "password changed"})
}
