package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/finsmart/internal/api/middleware"
	"github.com/dvloznov/finsmart/internal/auth"
	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/jobs"
	"github.com/dvloznov/finsmart/internal/logger"
	"github.com/dvloznov/finsmart/internal/session"
)

// Sessions is the part of session.Manager the handlers use.
type Sessions interface {
	middleware.SessionSource
	StartGuest(ctx context.Context) (*session.Container, error)
	SignIn(ctx context.Context, email, password string) (*session.Container, error)
	Register(ctx context.Context, name, email, password string) (*session.Container, error)
	SignOut(ctx context.Context) error
}

// SessionHandler handles sign-in, registration, guest mode and sign-out.
type SessionHandler struct {
	sessions Sessions
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions Sessions) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type sessionResponse struct {
	User domain.User `json:"user"`
	Kind string      `json:"kind"`
}

func newSessionResponse(c *session.Container) sessionResponse {
	return sessionResponse{User: c.User(), Kind: session.KindName(c.Kind())}
}

// Current handles GET /api/session
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	c, err := h.sessions.Current()
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, newSessionResponse(c))
}

// StartGuest handles POST /api/session/guest
func (h *SessionHandler) StartGuest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	c, err := h.sessions.StartGuest(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to start guest session")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to start guest session")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, newSessionResponse(c))
}

// SignIn handles POST /api/session/login
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		middleware.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	c, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, newSessionResponse(c))
}

// Register handles POST /api/session/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		middleware.WriteError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	c, err := h.sessions.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, newSessionResponse(c))
}

// SignOut handles POST /api/session/logout
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context()); err != nil {
		// The session is gone either way.
		log := logger.FromContext(r.Context())
		log.Warn().Err(err).Msg("Sign-out finished with errors")
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeAuthError maps provider errors to statuses. Anything unrecognised
// is an upstream failure (provider or snapshot load).
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrEmailExists):
		middleware.WriteError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, auth.ErrWeakPassword):
		middleware.WriteError(w, http.StatusBadRequest, auth.ErrWeakPassword.Error())
	default:
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Sign-in failed")
		middleware.WriteError(w, http.StatusBadGateway, "Sign-in is unavailable, try again later")
	}
}

// JobsHandler exposes mirror job history.
type JobsHandler struct {
	store jobs.JobStore
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore) *JobsHandler {
	return &JobsHandler{store: store}
}

// GetJob handles GET /api/jobs/{id}. Jobs of other users are reported as not found.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	log := logger.FromContext(r.Context())
	c, _ := middleware.ContainerFromContext(r.Context())

	job, err := h.store.GetJob(r.Context(), jobID)
	if errors.Is(err, jobs.ErrJobNotFound) || (err == nil && job.UserID != c.User().ID) {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs. Only the signed-in user's jobs are listed.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	c, _ := middleware.ContainerFromContext(r.Context())

	query := r.URL.Query()
	filter := jobs.JobFilter{
		UserID: c.User().ID,
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	if jobsList == nil {
		jobsList = []*jobs.MirrorSnapshotJob{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
