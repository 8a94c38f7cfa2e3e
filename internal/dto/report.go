package dto

import "github.com/akademia-dev/attendance-api/internal/models"

// DailyReportRequest asks for the aggregated report of one date. When no
// attendance exists for the date, SubjectsAndSections selects the pairs to
// project as all-absent; omitting it makes the empty date a terminal error.
type DailyReportRequest struct {
	Date                string                     `json:"date" validate:"required"`
	SubjectsAndSections []models.SubjectSectionRef `json:"subjectsAndSections" validate:"omitempty,dive"`
}
