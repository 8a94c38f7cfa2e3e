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

type attendanceService interface {
	Submit(ctx context.Context, req dto.SubmitAttendanceRequest) (*dto.SubmitAttendanceResult, error)
	Correct(ctx context.Context, req dto.CorrectAttendanceRequest) error
	ListScopeFromRequest(req dto.ListAttendanceRequest) (models.ListScope, error)
	ListStudent(ctx context.Context, scope models.StudentScope) ([]models.AttendanceHistoryRow, error)
	ListSection(ctx context.Context, scope models.SectionScope) ([]models.SectionAttendanceRow, error)
}

// AttendanceHandler exposes attendance recording and listing endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Submit godoc
// @Summary Record explicit attendance and derive absences
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.SubmitAttendanceRequest true "Attendance submission"
// @Success 200 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req dto.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// List godoc
// @Summary List attendance for a student or a section day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.ListAttendanceRequest true "Listing scope"
// @Success 200 {object} response.Envelope
// @Router /attendance/list [post]
func (h *AttendanceHandler) List(c *gin.Context) {
	var req dto.ListAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	scope, err := h.service.ListScopeFromRequest(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	switch sc := scope.(type) {
	case models.StudentScope:
		rows, err := h.service.ListStudent(c.Request.Context(), sc)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, rows)
	case models.SectionScope:
		rows, err := h.service.ListSection(c.Request.Context(), sc)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, rows)
	default:
		response.Error(c, appErrors.ErrValidation)
	}
}

// Correct godoc
// @Summary Correct the status of existing attendance records
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.CorrectAttendanceRequest true "Corrections"
// @Success 200 {object} response.Envelope
// @Router /attendance/correct [post]
func (h *AttendanceHandler) Correct(c *gin.Context) {
	var req dto.CorrectAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.service.Correct(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.MessageResponse{Message: "attendance updated"})
}
