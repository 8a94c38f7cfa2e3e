package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/internal/models"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
	"github.com/akademia-dev/attendance-api/pkg/export"
)

// ExportFormat enumerates supported report export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type dailyReporter interface {
	Daily(ctx context.Context, req dto.DailyReportRequest) (*models.DailyReport, error)
}

// ExportService renders daily reports as downloadable documents.
type ExportService struct {
	reports dailyReporter
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(reports dailyReporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports: reports,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// ExportDocument is a rendered report ready to serve.
type ExportDocument struct {
	FileName    string
	ContentType string
	Body        []byte
}

// DailyReport renders the report for a date in the requested format.
func (s *ExportService) DailyReport(ctx context.Context, date string, format ExportFormat) (*ExportDocument, error) {
	report, err := s.reports.Daily(ctx, dto.DailyReportRequest{Date: date})
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Daily attendance %s", report.Date.Format("2006-01-02")),
		Headers: []string{"Student", "Subject", "Section", "Lecturer", "Status", "Recorded At"},
	}
	for _, row := range report.Rows {
		dataset.Rows = append(dataset.Rows, []string{
			row.StudentName,
			row.SubjectName,
			strconv.Itoa(row.SectionNumber),
			row.LecturerName,
			string(row.Status),
			row.RecordedAt.Format("15:04:05"),
		})
	}

	switch ExportFormat(strings.ToLower(string(format))) {
	case ExportFormatCSV:
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportDocument{
			FileName:    fmt.Sprintf("attendance-%s.csv", report.Date.Format("2006-01-02")),
			ContentType: "text/csv",
			Body:        body,
		}, nil
	case ExportFormatPDF:
		body, err := s.pdf.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportDocument{
			FileName:    fmt.Sprintf("attendance-%s.pdf", report.Date.Format("2006-01-02")),
			ContentType: "application/pdf",
			Body:        body,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format, expected csv or pdf")
	}
}
