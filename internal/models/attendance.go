package models

import "time"

// AttendanceStatus represents the recorded status for one student-day.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "P"
	AttendanceStatusAbsent  AttendanceStatus = "A"
	AttendanceStatusExcused AttendanceStatus = "E"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// AttendanceRecord is a single daily attendance row. At most one record
// exists per (student, subject, day); the unique key lives on the table.
type AttendanceRecord struct {
	ID         string           `db:"id" json:"id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	SubjectID  string           `db:"subject_id" json:"subject_id"`
	Day        time.Time        `db:"day" json:"day"`
	RecordedAt time.Time        `db:"recorded_at" json:"recorded_at"`
	Status     AttendanceStatus `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceHistoryRow is one entry of a student's attendance history.
type AttendanceHistoryRow struct {
	RecordID    string           `db:"id" json:"id"`
	SubjectID   string           `db:"subject_id" json:"subject_id"`
	SubjectName string           `db:"subject_name" json:"subject_name"`
	Day         time.Time        `db:"day" json:"day"`
	RecordedAt  time.Time        `db:"recorded_at" json:"recorded_at"`
	Status      AttendanceStatus `db:"status" json:"status"`
}

// SectionAttendanceRow pairs a roster member with the status recorded for a
// day, if any.
type SectionAttendanceRow struct {
	StudentID   string            `db:"student_id" json:"student_id"`
	StudentName string            `db:"student_name" json:"student_name"`
	RecordID    *string           `db:"record_id" json:"record_id,omitempty"`
	Status      *AttendanceStatus `db:"status" json:"status,omitempty"`
	RecordedAt  *time.Time        `db:"recorded_at" json:"recorded_at,omitempty"`
}

// ListScope is a closed set of attendance listing scopes. Exactly one of the
// concrete scopes applies to a request; there is no string-typed role switch.
type ListScope interface {
	listScope()
}

// StudentScope lists one student's full history.
type StudentScope struct {
	StudentID string
}

func (StudentScope) listScope() {}

// SectionScope lists a section's roster with each member's status for a day.
type SectionScope struct {
	SubjectID string
	Section   int
	Day       time.Time
}

func (SectionScope) listScope() {}
