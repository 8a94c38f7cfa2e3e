package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/internal/models"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
	"github.com/akademia-dev/attendance-api/pkg/response"
)

type sessionService interface {
	RecordBoundary(ctx context.Context, req dto.RecordSessionRequest) (*models.SessionLog, error)
	EnsureDefaultLogs(ctx context.Context) (*dto.EnsureDefaultLogsResult, error)
}

// SessionHandler exposes session open/close and default-log endpoints.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(service sessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Record godoc
// @Summary Open or close a section's session for a day
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.RecordSessionRequest true "Boundary to record"
// @Success 200 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Record(c *gin.Context) {
	var req dto.RecordSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	log, err := h.service.RecordBoundary(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "session recorded", "sessionLog": log})
}

// EnsureDefaults godoc
// @Summary Create or refresh system-authored session logs for today
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sessions/ensure [get]
func (h *SessionHandler) EnsureDefaults(c *gin.Context) {
	result, err := h.service.EnsureDefaultLogs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
