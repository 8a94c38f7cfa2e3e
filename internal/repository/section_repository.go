package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/akademia-dev/attendance-api/internal/models"
)

// SectionRepository reads the weekly section schedule registry. The registry
// is owned by catalog management, so there are no write paths here.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs the repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

const sectionColumns = `id, subject_id, section_number, weekday, starts_at, ends_at, venue, capacity`

// GetByID returns a section by primary key, or nil when absent.
func (r *SectionRepository) GetByID(ctx context.Context, id string) (*models.Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM sections WHERE id = $1`, sectionColumns)
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section by id: %w", err)
	}
	return &section, nil
}

// GetBySubjectSection resolves a section by its natural key, or nil when
// absent.
func (r *SectionRepository) GetBySubjectSection(ctx context.Context, subjectID string, number int) (*models.Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM sections WHERE subject_id = $1 AND section_number = $2`, sectionColumns)
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, subjectID, number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section by subject/section: %w", err)
	}
	return &section, nil
}

// ListAll returns the full section registry.
func (r *SectionRepository) ListAll(ctx context.Context) ([]models.Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM sections ORDER BY subject_id, section_number`, sectionColumns)
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListByWeekday returns every section that nominally meets on the named day.
func (r *SectionRepository) ListByWeekday(ctx context.Context, weekday string) ([]models.Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM sections WHERE weekday = $1 ORDER BY subject_id, section_number`, sectionColumns)
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, weekday); err != nil {
		return nil, fmt.Errorf("list sections by weekday: %w", err)
	}
	return sections, nil
}
