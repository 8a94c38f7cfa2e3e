package models

import "time"

// DailyReportRow is one attendance record joined with its reporting context.
type DailyReportRow struct {
	RecordID      string           `db:"record_id" json:"record_id"`
	StudentID     string           `db:"student_id" json:"student_id"`
	StudentName   string           `db:"student_name" json:"student_name"`
	SubjectID     string           `db:"subject_id" json:"subject_id"`
	SubjectName   string           `db:"subject_name" json:"subject_name"`
	SectionNumber int              `db:"section_number" json:"section_number"`
	LecturerName  string           `db:"lecturer_name" json:"lecturer_name"`
	Status        AttendanceStatus `db:"status" json:"status"`
	RecordedAt    time.Time        `db:"recorded_at" json:"recorded_at"`
}

// SectionSummary totals one (subject, section) pair for a day. TotalStudents
// is the roster size evaluated against current student standing.
type SectionSummary struct {
	SubjectID       string `json:"subject_id"`
	SubjectName     string `json:"subject_name"`
	SectionNumber   int    `json:"section_number"`
	LecturerName    string `json:"lecturer_name"`
	TotalAttendance int    `json:"totalAttendance"`
	TotalStudents   int    `json:"totalStudents"`
}

// SubjectSectionRef names one (subject, section) pair for report projection.
type SubjectSectionRef struct {
	SubjectID      string `json:"subject_id"`
	SubjectSection int    `json:"subject_section"`
}

// DailyReport is the aggregated view for a target date. Projection marks a
// synthesized all-absent fallback rather than stored records.
type DailyReport struct {
	Date       time.Time        `json:"date"`
	Projection bool             `json:"projection"`
	Rows       []DailyReportRow `json:"result"`
	Summaries  []SectionSummary `json:"subjectsWithSectionsAndLecturers"`
}
