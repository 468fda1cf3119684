package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solacehq/solace/internal/domain"
	"github.com/solacehq/solace/internal/service"
)

// Handler exposes the therapy service over JSON.
type Handler struct {
	svc    *service.TherapyService
	logger *slog.Logger
}

func NewHandler(svc *service.TherapyService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// respondError maps the domain error taxonomy to HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	default:
		h.logger.Error("internal error", "error", err, "path", c.Request.URL.Path)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type registerRequest struct {
	Username string `json:"username"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	profile, err := h.svc.Register(c.Request.Context(), Principal(c), req.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.svc.Profile(c.Request.Context(), Principal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) TouchActivity(c *gin.Context) {
	if err := h.svc.TouchActivity(c.Request.Context(), Principal(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type startSessionRequest struct {
	SessionType  string  `json:"session_type"`
	StressBefore float64 `json:"stress_before"`
}

func (h *Handler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	id, err := h.svc.StartSession(c.Request.Context(), Principal(c), req.SessionType, req.StressBefore)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

type endSessionRequest struct {
	Duration    uint32  `json:"duration"`
	StressAfter float64 `json:"stress_after"`
	Notes       string  `json:"notes"`
	Pitch       float64 `json:"pitch"`
	Tempo       float64 `json:"tempo"`
}

func (h *Handler) EndSession(c *gin.Context) {
	var req endSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	session, err := h.svc.EndSession(
		c.Request.Context(),
		Principal(c),
		c.Param("id"),
		req.Duration,
		req.StressAfter,
		req.Notes,
		req.Pitch,
		req.Tempo,
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.svc.Sessions(c.Request.Context(), Principal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *Handler) ProgressReport(c *gin.Context) {
	report, err := h.svc.ProgressReport(c.Request.Context(), Principal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) SessionSummary(c *gin.Context) {
	summary, err := h.svc.SessionSummary(c.Request.Context(), Principal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

type reflectionRequest struct {
	Thought string `json:"thought"`
}

func (h *Handler) Reflection(c *gin.Context) {
	var req reflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	reflection, err := h.svc.Reflection(c.Request.Context(), Principal(c), req.Thought)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reflection": reflection})
}

type traumaRequest struct {
	Words []string `json:"words"`
}

func (h *Handler) AssessTrauma(c *gin.Context) {
	var req traumaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	severity, err := h.svc.AssessTrauma(c.Request.Context(), Principal(c), req.Words)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"severity": severity})
}

// Stats is the unauthenticated diagnostic endpoint.
func (h *Handler) Stats(c *gin.Context) {
	users, err := h.svc.TotalUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	sessions, err := h.svc.TotalSessions(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_users":    users,
		"total_sessions": sessions,
	})
}
