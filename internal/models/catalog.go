package models

// Subject is the catalog entry a section belongs to. Read-only here.
type Subject struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	LecturerID string `db:"lecturer_id" json:"lecturer_id"`
}

// Lecturer identifies the teaching staff attached to a subject.
type Lecturer struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
}

// SubjectSectionContext joins a section with its subject and lecturer, the
// reporting context for one (subject, section) pair.
type SubjectSectionContext struct {
	SubjectID     string  `db:"subject_id" json:"subject_id"`
	SubjectName   string  `db:"subject_name" json:"subject_name"`
	SectionNumber int     `db:"section_number" json:"section_number"`
	Weekday       *string `db:"weekday" json:"weekday,omitempty"`
	LecturerID    string  `db:"lecturer_id" json:"lecturer_id"`
	LecturerName  string  `db:"lecturer_name" json:"lecturer_name"`
}
