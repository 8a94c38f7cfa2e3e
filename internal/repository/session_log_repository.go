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

// SessionLogRepository persists the actual open window per section per day.
// The (section_id, created_for) unique key enforces one log per section per
// day at the storage boundary.
type SessionLogRepository struct {
	db *sqlx.DB
}

// NewSessionLogRepository constructs the repository.
func NewSessionLogRepository(db *sqlx.DB) *SessionLogRepository {
	return &SessionLogRepository{db: db}
}

const sessionLogColumns = `id, section_id, created_for, start_time, end_time, started_by, updated_by, updated_at`

// GetForDay returns the log for a section/day, or nil when none exists.
func (r *SessionLogRepository) GetForDay(ctx context.Context, sectionID string, day time.Time) (*models.SessionLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM session_logs WHERE section_id = $1 AND created_for = $2`, sessionLogColumns)
	var log models.SessionLog
	if err := r.db.GetContext(ctx, &log, query, sectionID, day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session log: %w", err)
	}
	return &log, nil
}

// Upsert writes an authored log. Concurrent writers for the same section/day
// converge on the unique key; the last writer wins on boundary values.
func (r *SessionLogRepository) Upsert(ctx context.Context, log *models.SessionLog) (*models.SessionLog, error) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	log.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`INSERT INTO session_logs (id, section_id, created_for, start_time, end_time, started_by, updated_by, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (section_id, created_for)
DO UPDATE SET start_time = EXCLUDED.start_time,
              end_time = EXCLUDED.end_time,
              started_by = COALESCE(session_logs.started_by, EXCLUDED.started_by),
              updated_by = EXCLUDED.updated_by,
              updated_at = EXCLUDED.updated_at
RETURNING %s`, sessionLogColumns)
	var stored models.SessionLog
	if err := r.db.GetContext(ctx, &stored, query,
		log.ID, log.SectionID, log.CreatedFor, log.StartTime, log.EndTime, log.StartedBy, log.UpdatedBy, log.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert session log: %w", err)
	}
	return &stored, nil
}

// UpsertDefault writes a system-authored log from the nominal schedule. An
// existing authored log is left untouched and nil is returned for it.
func (r *SessionLogRepository) UpsertDefault(ctx context.Context, log *models.SessionLog) (*models.SessionLog, error) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	log.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`INSERT INTO session_logs (id, section_id, created_for, start_time, end_time, started_by, updated_by, updated_at)
VALUES ($1, $2, $3, $4, $5, NULL, NULL, $6)
ON CONFLICT (section_id, created_for)
DO UPDATE SET start_time = EXCLUDED.start_time,
              end_time = EXCLUDED.end_time,
              updated_at = EXCLUDED.updated_at
WHERE session_logs.started_by IS NULL
RETURNING %s`, sessionLogColumns)
	var stored models.SessionLog
	err := r.db.GetContext(ctx, &stored, query,
		log.ID, log.SectionID, log.CreatedFor, log.StartTime, log.EndTime, log.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Authored log present, nothing refreshed.
			return nil, nil
		}
		return nil, fmt.Errorf("upsert default session log: %w", err)
	}
	return &stored, nil
}

// ListActiveAt returns the logs for a day whose window contains the instant.
func (r *SessionLogRepository) ListActiveAt(ctx context.Context, day, at time.Time) ([]models.SessionLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM session_logs
WHERE created_for = $1 AND start_time <= $2 AND end_time >= $2
ORDER BY section_id`, sessionLogColumns)
	var logs []models.SessionLog
	if err := r.db.SelectContext(ctx, &logs, query, day, at); err != nil {
		return nil, fmt.Errorf("list active session logs: %w", err)
	}
	return logs, nil
}

// ListForDay returns all logs created for a day.
func (r *SessionLogRepository) ListForDay(ctx context.Context, day time.Time) ([]models.SessionLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM session_logs WHERE created_for = $1 ORDER BY section_id`, sessionLogColumns)
	var logs []models.SessionLog
	if err := r.db.SelectContext(ctx, &logs, query, day); err != nil {
		return nil, fmt.Errorf("list session logs for day: %w", err)
	}
	return logs, nil
}
