package dto

// AttendanceEntry is one submitted student status.
type AttendanceEntry struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
}

// SubmitAttendanceRequest records explicit attendance for a subject and day.
// Roster members missing from Records are absent-filled.
type SubmitAttendanceRequest struct {
	SubjectID string            `json:"subject_id" validate:"required"`
	Date      string            `json:"date" validate:"required"`
	Records   []AttendanceEntry `json:"records" validate:"required,min=1,dive"`
}

// SubmitAttendanceResult summarises a submission.
type SubmitAttendanceResult struct {
	Message      string `json:"message"`
	Recorded     int    `json:"recorded"`
	AbsentFilled int    `json:"absentFilled"`
}

// ListAttendanceRequest selects either a student history (student_id set) or
// a section roster view (subject_id, selectedSection, calendarDate set).
type ListAttendanceRequest struct {
	StudentID       string `json:"student_id"`
	SubjectID       string `json:"subject_id"`
	SelectedSection int    `json:"selectedSection"`
	CalendarDate    string `json:"calendarDate"`
}

// CorrectionEntry points an existing record at a new status.
type CorrectionEntry struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,attendance_status"`
}

// CorrectAttendanceRequest applies manual status corrections.
type CorrectAttendanceRequest struct {
	Attendance []CorrectionEntry `json:"attendance" validate:"required,min=1,dive"`
}

// MessageResponse is the minimal acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}
