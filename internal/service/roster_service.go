package service

import (
	"context"

	"github.com/akademia-dev/attendance-api/internal/models"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
)

type rosterStore interface {
	Roster(ctx context.Context, subjectID string, section int) ([]models.RosterMember, error)
	RosterSize(ctx context.Context, subjectID string, section int) (int, error)
}

// RosterService resolves the students eligible for attendance in a subject
// section. Pure read, no side effects.
type RosterService struct {
	enrollments rosterStore
}

// NewRosterService constructs the roster resolver.
func NewRosterService(enrollments rosterStore) *RosterService {
	return &RosterService{enrollments: enrollments}
}

// Resolve returns the roster for a subject section. Section 0 covers every
// section of the subject. Eligibility is evaluated against each student's
// current year and semester, not the calendar day.
func (s *RosterService) Resolve(ctx context.Context, subjectID string, section int) ([]models.RosterMember, error) {
	if subjectID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject id is required")
	}
	members, err := s.enrollments.Roster(ctx, subjectID, section)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve roster")
	}
	return members, nil
}

// Size counts the roster without materialising it.
func (s *RosterService) Size(ctx context.Context, subjectID string, section int) (int, error) {
	if subjectID == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "subject id is required")
	}
	total, err := s.enrollments.RosterSize(ctx, subjectID, section)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count roster")
	}
	return total, nil
}
