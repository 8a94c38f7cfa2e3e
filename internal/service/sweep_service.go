package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/internal/models"
	"github.com/akademia-dev/attendance-api/pkg/clock"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
)

type sessionEnsurer interface {
	EnsureDefaultLogs(ctx context.Context) (*dto.EnsureDefaultLogsResult, error)
}

type activeLogLister interface {
	ListActiveAt(ctx context.Context, day, at time.Time) ([]models.SessionLog, error)
}

type sectionResolver interface {
	GetByID(ctx context.Context, id string) (*models.Section, error)
}

type absentFiller interface {
	AbsentFill(ctx context.Context, subjectID string, section int, day, recordedAt time.Time) (int, error)
}

type sweepObserver interface {
	ObserveSweep(sectionsSwept, absencesFilled, failures int)
}

// SweepService reconciles absences for every section whose session window is
// currently open. Runs on a recurring cadence and on demand.
type SweepService struct {
	sessions sessionEnsurer
	logs     activeLogLister
	sections sectionResolver
	filler   absentFiller
	metrics  sweepObserver
	civil    *clock.Civil
	logger   *zap.Logger
}

// NewSweepService constructs the absence reconciliation sweep.
func NewSweepService(sessions sessionEnsurer, logs activeLogLister, sections sectionResolver, filler absentFiller, metrics sweepObserver, civil *clock.Civil, logger *zap.Logger) *SweepService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepService{sessions: sessions, logs: logs, sections: sections, filler: filler, metrics: metrics, civil: civil, logger: logger}
}

// Run performs one reconciliation pass. Default logs are ensured first so
// the sweep never depends on an earlier caller having done it. Per-section
// failures are logged and skipped; the next scheduled run retries them.
// Re-running never alters students already recorded.
func (s *SweepService) Run(ctx context.Context) (*dto.SweepResult, error) {
	if _, err := s.sessions.EnsureDefaultLogs(ctx); err != nil {
		// Existing logs can still be swept.
		s.logger.Sugar().Errorw("ensure default logs failed before sweep", "error", err)
	}

	now := s.civil.Now()
	today := s.civil.Today()
	weekday := s.civil.Weekday(now)

	logs, err := s.logs.ListActiveAt(ctx, today, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active sessions")
	}

	result := &dto.SweepResult{SectionsInSession: len(logs)}
	for _, log := range logs {
		filled, err := s.sweepSection(ctx, log, weekday, today, now)
		if err != nil {
			result.SectionFailures++
			s.logger.Sugar().Errorw("section sweep failed", "section_id", log.SectionID, "error", err)
			continue
		}
		if filled < 0 {
			// Stale log for a section that no longer meets today.
			continue
		}
		result.SectionsSwept++
		result.AbsencesFilled += filled
	}

	if s.metrics != nil {
		s.metrics.ObserveSweep(result.SectionsSwept, result.AbsencesFilled, result.SectionFailures)
	}
	result.Message = fmt.Sprintf("swept %d sections, filled %d absences", result.SectionsSwept, result.AbsencesFilled)
	s.logger.Sugar().Infow("absence sweep finished",
		"in_session", result.SectionsInSession, "swept", result.SectionsSwept,
		"absences_filled", result.AbsencesFilled, "failures", result.SectionFailures)
	return result, nil
}

// sweepSection returns -1 when the section is skipped without error.
func (s *SweepService) sweepSection(ctx context.Context, log models.SessionLog, weekday string, day, now time.Time) (int, error) {
	section, err := s.sections.GetByID(ctx, log.SectionID)
	if err != nil {
		return 0, err
	}
	if section == nil {
		return 0, fmt.Errorf("session log %s references unknown section %s", log.ID, log.SectionID)
	}
	// A log can outlive a schedule edit; only sections that nominally meet
	// today are in session for absence purposes.
	if !section.MeetsOn(weekday) {
		return -1, nil
	}
	return s.filler.AbsentFill(ctx, section.SubjectID, section.SectionNumber, day, now)
}
