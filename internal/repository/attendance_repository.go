package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akademia-dev/attendance-api/internal/models"
)

// AttendanceRepository persists daily attendance records. The unique key
// (student_id, subject_id, day) enforces at most one record per student per
// subject per day at the storage boundary.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `id, student_id, subject_id, day, recorded_at, status, created_at, updated_at`

// UpsertExplicit records an explicit submission. An existing record for the
// same (student, subject, day) is overwritten with the new status and
// observation time.
func (r *AttendanceRepository) UpsertExplicit(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO attendance_records (id, student_id, subject_id, day, recorded_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (student_id, subject_id, day)
DO UPDATE SET status = EXCLUDED.status,
              recorded_at = EXCLUDED.recorded_at,
              updated_at = EXCLUDED.updated_at
RETURNING %s`, attendanceColumns)
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.StudentID, record.SubjectID, record.Day, record.RecordedAt, record.Status, record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &stored, nil
}

// InsertAbsentMissing absent-fills the given students for a subject/day,
// skipping anyone already recorded. Returns how many rows were inserted.
func (r *AttendanceRepository) InsertAbsentMissing(ctx context.Context, subjectID string, day, recordedAt time.Time, studentIDs []string) (int, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}
	query := `INSERT INTO attendance_records (id, student_id, subject_id, day, recorded_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (student_id, subject_id, day) DO NOTHING
RETURNING id`
	now := time.Now().UTC()
	filled := 0
	for _, studentID := range studentIDs {
		var insertedID string
		err := r.db.QueryRowxContext(ctx, query,
			uuid.NewString(), studentID, subjectID, day, recordedAt, models.AttendanceStatusAbsent, now).Scan(&insertedID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Already recorded, never overwritten by this path.
				continue
			}
			return filled, fmt.Errorf("absent-fill attendance: %w", err)
		}
		filled++
	}
	return filled, nil
}

// UpdateStatus corrects the status of an existing record by id.
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, id string, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf(`UPDATE attendance_records
SET status = $2, updated_at = $3
WHERE id = $1
RETURNING %s`, attendanceColumns)
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query, id, status, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update attendance status: %w", err)
	}
	return &stored, nil
}

// ListByStudent returns a student's full attendance history, newest first.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceHistoryRow, error) {
	query := `SELECT ar.id, ar.subject_id, sub.name AS subject_name, ar.day, ar.recorded_at, ar.status
FROM attendance_records ar
JOIN subjects sub ON sub.id = ar.subject_id
WHERE ar.student_id = $1
ORDER BY ar.day DESC, sub.name`
	var rows []models.AttendanceHistoryRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list attendance by student: %w", err)
	}
	return rows, nil
}

// ListBySection returns the section roster with each member's recorded
// status for a day, unrecorded members included with a null status.
func (r *AttendanceRepository) ListBySection(ctx context.Context, subjectID string, section int, day time.Time) ([]models.SectionAttendanceRow, error) {
	query := `SELECT s.id AS student_id, s.full_name AS student_name, ar.id AS record_id, ar.status, ar.recorded_at
FROM enrollments e
JOIN students s ON s.id = e.student_id
LEFT JOIN attendance_records ar
  ON ar.student_id = e.student_id AND ar.subject_id = e.subject_id AND ar.day = $3
WHERE e.subject_id = $1
  AND e.subject_section = $2
  AND s.current_year = e.year
  AND s.current_semester = e.semester
ORDER BY s.full_name`
	var rows []models.SectionAttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, subjectID, section, day); err != nil {
		return nil, fmt.Errorf("list attendance by section: %w", err)
	}
	return rows, nil
}

// ListForDay returns every record for a day joined with student, subject,
// section and lecturer context.
func (r *AttendanceRepository) ListForDay(ctx context.Context, day time.Time) ([]models.DailyReportRow, error) {
	query := `SELECT ar.id AS record_id, ar.student_id, s.full_name AS student_name,
       ar.subject_id, sub.name AS subject_name, e.subject_section AS section_number,
       l.full_name AS lecturer_name, ar.status, ar.recorded_at
FROM attendance_records ar
JOIN students s ON s.id = ar.student_id
JOIN subjects sub ON sub.id = ar.subject_id
JOIN lecturers l ON l.id = sub.lecturer_id
JOIN enrollments e ON e.student_id = ar.student_id AND e.subject_id = ar.subject_id
WHERE ar.day = $1
ORDER BY sub.name, e.subject_section, s.full_name`
	var rows []models.DailyReportRow
	if err := r.db.SelectContext(ctx, &rows, query, day); err != nil {
		return nil, fmt.Errorf("list attendance for day: %w", err)
	}
	return rows, nil
}

// HasRecordsOn reports whether any attendance exists for a day.
func (r *AttendanceRepository) HasRecordsOn(ctx context.Context, day time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM attendance_records WHERE day = $1)`
	if err := r.db.GetContext(ctx, &exists, query, day); err != nil {
		return false, fmt.Errorf("check attendance exists: %w", err)
	}
	return exists, nil
}

// PresentCount counts present records for a subject section on a day.
func (r *AttendanceRepository) PresentCount(ctx context.Context, subjectID string, section int, day time.Time) (int, error) {
	query := `SELECT COUNT(*)
FROM attendance_records ar
JOIN enrollments e ON e.student_id = ar.student_id AND e.subject_id = ar.subject_id
WHERE ar.subject_id = $1 AND e.subject_section = $2 AND ar.day = $3 AND ar.status = $4`
	var total int
	if err := r.db.GetContext(ctx, &total, query, subjectID, section, day, models.AttendanceStatusPresent); err != nil {
		return 0, fmt.Errorf("count present: %w", err)
	}
	return total, nil
}
