package handlers

import (
	"errors"
	"time"

	"encoding/json"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kateder/internal/app"
	"github.com/shrimpsizemoose/kateder/internal/metrics"
	"github.com/shrimpsizemoose/kateder/internal/models"
	"github.com/shrimpsizemoose/kateder/internal/registry"
	"github.com/shrimpsizemoose/kateder/internal/scoring"
)

type AuthHandler struct {
	service *app.Service
}

func NewAuthHandler(service *app.Service) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/login", h.HandleLogin)
	mux.HandleFunc("POST /api/v1/logout", h.HandleLogout)
	mux.HandleFunc("GET /api/v1/session", h.HandleSession)
	mux.HandleFunc("POST /api/v1/classes/{id}/enroll", h.HandleEnroll)
	mux.HandleFunc("GET /api/v1/students/{id}/grades/summary", h.HandleGradeSummary)
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			"200",
		).Observe(duration)
	}()

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.Auth.Login(r.Context(), creds.Email, creds.Password)
	if errors.Is(err, app.ErrInvalidCredentials) {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		// one generic message regardless of which field was wrong
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		logger.Error.Printf("Login failed: %v", err)
		http.Error(w, "Failed to resolve login", http.StatusInternalServerError)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	logger.Info.Printf("Login for %s as %s", session.Email, session.Role)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session": session,
	})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	if err := h.service.Auth.Logout(r.Context()); err != nil {
		logger.Error.Printf("Logout failed: %v", err)
		http.Error(w, "Failed to clear session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	session, err := h.service.Auth.Current(r.Context())
	if err != nil {
		logger.Error.Printf("Failed to read session: %v", err)
		http.Error(w, "Failed to read session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session":       session,
		"authenticated": session != nil,
	})
}

func (h *AuthHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	classID := r.PathValue("id")
	if classID == "" {
		http.Error(w, "Invalid class id", http.StatusBadRequest)
		return
	}

	student, err := decodeRecord[models.Student](r.Body)
	if err != nil {
		logger.Debug.Printf("Bad student record: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Registry.EnrollStudent(r.Context(), classID, student); err != nil {
		if errors.Is(err, registry.ErrClassNotFound) {
			http.Error(w, "Class not found", http.StatusNotFound)
			return
		}
		writeStoreError(w, "students", err)
		return
	}
	metrics.RecordOpsTotal.WithLabelValues("students", "enroll").Inc()

	student.ClassID = classID
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"record": student,
	})
}

func (h *AuthHandler) HandleGradeSummary(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	studentID := r.PathValue("id")
	if studentID == "" {
		http.Error(w, "Invalid student id", http.StatusBadRequest)
		return
	}

	grades, err := h.service.Registry.Grades.GetAll(r.Context())
	if err != nil {
		writeStoreError(w, "grades", err)
		return
	}

	summary := scoring.ForStudent(grades, studentID)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"summary": summary,
	}); err != nil {
		logger.Error.Printf("Failed to encode summary: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
