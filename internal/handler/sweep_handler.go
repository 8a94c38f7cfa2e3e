package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/pkg/response"
)

type sweepService interface {
	Run(ctx context.Context) (*dto.SweepResult, error)
}

// SweepHandler exposes a manual trigger for the absence sweep.
type SweepHandler struct {
	service sweepService
}

// NewSweepHandler constructs the handler.
func NewSweepHandler(service sweepService) *SweepHandler {
	return &SweepHandler{service: service}
}

// Trigger godoc
// @Summary Run one absence reconciliation pass
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/sweep [get]
func (h *SweepHandler) Trigger(c *gin.Context) {
	result, err := h.service.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
