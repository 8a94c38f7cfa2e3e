package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/internal/models"
	"github.com/akademia-dev/attendance-api/internal/service"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
	"github.com/akademia-dev/attendance-api/pkg/response"
)

type reportService interface {
	Daily(ctx context.Context, req dto.DailyReportRequest) (*models.DailyReport, error)
}

type exportService interface {
	DailyReport(ctx context.Context, date string, format service.ExportFormat) (*service.ExportDocument, error)
}

// ReportHandler exposes the daily report and its export.
type ReportHandler struct {
	reports reportService
	exports exportService
}

// NewReportHandler constructs the handler. A nil export service disables the
// export route's behaviour.
func NewReportHandler(reports reportService, exports exportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// Daily godoc
// @Summary Aggregate attendance for one date
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.DailyReportRequest true "Target date and optional projection pairs"
// @Success 200 {object} response.Envelope
// @Router /reports/daily [post]
func (h *ReportHandler) Daily(c *gin.Context) {
	var req dto.DailyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	report, err := h.reports.Daily(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Export godoc
// @Summary Download a daily report as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param date query string true "Target date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Router /reports/daily/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "report export is disabled"))
		return
	}
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date query parameter is required"))
		return
	}
	format := c.DefaultQuery("format", string(service.ExportFormatCSV))
	doc, err := h.exports.DailyReport(c.Request.Context(), date, service.ExportFormat(format))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+doc.FileName)
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
