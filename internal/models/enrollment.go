package models

// Enrollment registers a student to a subject section for a given academic
// year and semester. Owned by enrollment management; read-only here.
type Enrollment struct {
	ID             string `db:"id" json:"id"`
	StudentID      string `db:"student_id" json:"student_id"`
	SubjectID      string `db:"subject_id" json:"subject_id"`
	SubjectSection int    `db:"subject_section" json:"subject_section"`
	Year           int    `db:"year" json:"year"`
	Semester       int    `db:"semester" json:"semester"`
}

// Student carries the academic standing used for roster eligibility.
type Student struct {
	ID              string `db:"id" json:"id"`
	FullName        string `db:"full_name" json:"full_name"`
	CurrentYear     int    `db:"current_year" json:"current_year"`
	CurrentSemester int    `db:"current_semester" json:"current_semester"`
}

// RosterMember is a student eligible for attendance in a section. Membership
// requires the student's current year/semester to equal the enrollment row's
// year/semester, so a promoted student drops off the roster even though the
// enrollment row persists.
type RosterMember struct {
	StudentID   string `db:"student_id" json:"student_id"`
	StudentName string `db:"student_name" json:"student_name"`
}
