package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/akademia-dev/attendance-api/internal/models"
)

// CatalogRepository reads subject and lecturer context for reporting. The
// catalog itself is maintained elsewhere.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const contextColumns = `sec.subject_id, sub.name AS subject_name, sec.section_number, sec.weekday,
       sub.lecturer_id, l.full_name AS lecturer_name`

// ListSectionContexts returns every (subject, section) pair with its subject
// and lecturer attached.
func (r *CatalogRepository) ListSectionContexts(ctx context.Context) ([]models.SubjectSectionContext, error) {
	query := fmt.Sprintf(`SELECT %s
FROM sections sec
JOIN subjects sub ON sub.id = sec.subject_id
JOIN lecturers l ON l.id = sub.lecturer_id
ORDER BY sub.name, sec.section_number`, contextColumns)
	var contexts []models.SubjectSectionContext
	if err := r.db.SelectContext(ctx, &contexts, query); err != nil {
		return nil, fmt.Errorf("list section contexts: %w", err)
	}
	return contexts, nil
}

// GetSectionContext resolves the reporting context for one pair, or nil when
// the pair is unknown.
func (r *CatalogRepository) GetSectionContext(ctx context.Context, subjectID string, section int) (*models.SubjectSectionContext, error) {
	query := fmt.Sprintf(`SELECT %s
FROM sections sec
JOIN subjects sub ON sub.id = sec.subject_id
JOIN lecturers l ON l.id = sub.lecturer_id
WHERE sec.subject_id = $1 AND sec.section_number = $2`, contextColumns)
	var sectionCtx models.SubjectSectionContext
	if err := r.db.GetContext(ctx, &sectionCtx, query, subjectID, section); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section context: %w", err)
	}
	return &sectionCtx, nil
}
