package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/akademia-dev/attendance-api/internal/models"
)

// EnrollmentRepository resolves rosters from enrollment rows. Enrollment data
// is owned by enrollment management; only reads happen here.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Roster returns the students eligible for attendance in a subject section.
// Eligibility requires the student's current year and semester to equal the
// enrollment row's year and semester. Section 0 resolves every section of
// the subject.
func (r *EnrollmentRepository) Roster(ctx context.Context, subjectID string, section int) ([]models.RosterMember, error) {
	query := `SELECT s.id AS student_id, s.full_name AS student_name
FROM enrollments e
JOIN students s ON s.id = e.student_id
WHERE e.subject_id = $1
  AND ($2 = 0 OR e.subject_section = $2)
  AND s.current_year = e.year
  AND s.current_semester = e.semester
ORDER BY s.full_name`
	var members []models.RosterMember
	if err := r.db.SelectContext(ctx, &members, query, subjectID, section); err != nil {
		return nil, fmt.Errorf("resolve roster: %w", err)
	}
	return members, nil
}

// RosterSize counts eligible students for a subject section.
func (r *EnrollmentRepository) RosterSize(ctx context.Context, subjectID string, section int) (int, error) {
	query := `SELECT COUNT(*)
FROM enrollments e
JOIN students s ON s.id = e.student_id
WHERE e.subject_id = $1
  AND ($2 = 0 OR e.subject_section = $2)
  AND s.current_year = e.year
  AND s.current_semester = e.semester`
	var total int
	if err := r.db.GetContext(ctx, &total, query, subjectID, section); err != nil {
		return 0, fmt.Errorf("count roster: %w", err)
	}
	return total, nil
}
