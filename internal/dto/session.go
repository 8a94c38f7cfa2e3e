package dto

import "github.com/akademia-dev/attendance-api/internal/models"

// SessionActor identifies the lecturer recording a boundary. The identity is
// supplied by the caller and not authenticated here.
type SessionActor struct {
	UserID string `json:"user_id" validate:"required"`
}

// RecordSessionRequest opens or closes a section's session for a day. Time
// must be "start" or "end"; Date defaults to the current civil day.
type RecordSessionRequest struct {
	SubjectID string       `json:"subject_id" validate:"required"`
	Section   int          `json:"section" validate:"required"`
	User      SessionActor `json:"user" validate:"required"`
	Time      string       `json:"time" validate:"required,session_boundary"`
	Date      string       `json:"date"`
}

// EnsureDefaultLogsResult reports which sections were considered and the
// session logs in effect after the ensure pass.
type EnsureDefaultLogsResult struct {
	Message     string              `json:"message"`
	Sections    []models.Section    `json:"sections"`
	SessionLogs []models.SessionLog `json:"sessionLogs"`
}

// SweepResult summarises one absence reconciliation run.
type SweepResult struct {
	Message           string `json:"message"`
	SectionsInSession int    `json:"sectionsInSession"`
	SectionsSwept     int    `json:"sectionsSwept"`
	AbsencesFilled    int    `json:"absencesFilled"`
	SectionFailures   int    `json:"sectionFailures"`
}
