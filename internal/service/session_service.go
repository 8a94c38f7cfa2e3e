package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/internal/models"
	"github.com/akademia-dev/attendance-api/pkg/clock"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
)

type sectionRegistry interface {
	GetByID(ctx context.Context, id string) (*models.Section, error)
	GetBySubjectSection(ctx context.Context, subjectID string, number int) (*models.Section, error)
	ListByWeekday(ctx context.Context, weekday string) ([]models.Section, error)
}

type sessionLogStore interface {
	GetForDay(ctx context.Context, sectionID string, day time.Time) (*models.SessionLog, error)
	Upsert(ctx context.Context, log *models.SessionLog) (*models.SessionLog, error)
	UpsertDefault(ctx context.Context, log *models.SessionLog) (*models.SessionLog, error)
}

// SessionService manages per-day session windows over the nominal weekly
// schedule.
type SessionService struct {
	sections  sectionRegistry
	logs      sessionLogStore
	civil     *clock.Civil
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs the session log manager.
func NewSessionService(sections sectionRegistry, logs sessionLogStore, civil *clock.Civil, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &SessionService{sections: sections, logs: logs, civil: civil, validator: validate, logger: logger}
	_ = svc.validator.RegisterValidation("session_boundary", func(fl validator.FieldLevel) bool {
		return models.SessionBoundary(fl.Field().String()).Valid()
	})
	return svc
}

// RecordBoundary opens or closes a session. Idempotent per day: repeated
// calls update the same log. The opposite boundary is clamped so the window
// stays non-empty: an end at or before the recorded start collapses to
// 23:59:59, a start at or after the recorded end collapses to 00:00:00.
func (s *SessionService) RecordBoundary(ctx context.Context, req dto.RecordSessionRequest) (*models.SessionLog, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	boundary := models.SessionBoundary(req.Time)

	day, observed, err := s.resolveDayAndObserved(req.Date)
	if err != nil {
		return nil, err
	}

	section, err := s.sections.GetBySubjectSection(ctx, req.SubjectID, req.Section)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve section")
	}
	if section == nil {
		return nil, appErrors.ErrSectionNotFound
	}

	existing, err := s.logs.GetForDay(ctx, section.ID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session log")
	}

	var startTime, endTime time.Time
	switch boundary {
	case models.BoundaryStart:
		startTime = observed
		endTime, err = s.counterpartEnd(section, existing, day)
		if err != nil {
			return nil, err
		}
		if !endTime.After(observed) {
			endTime = s.civil.EndOfDay(day)
		}
	case models.BoundaryEnd:
		endTime = observed
		startTime, err = s.counterpartStart(section, existing, day)
		if err != nil {
			return nil, err
		}
		if !startTime.Before(observed) {
			startTime = s.civil.StartOfDay(day)
		}
	}

	actor := req.User.UserID
	log := &models.SessionLog{
		SectionID:  section.ID,
		CreatedFor: day,
		StartTime:  startTime,
		EndTime:    endTime,
		StartedBy:  &actor,
		UpdatedBy:  &actor,
	}
	if existing != nil {
		log.ID = existing.ID
	}

	stored, err := s.logs.Upsert(ctx, log)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record session boundary")
	}
	s.logger.Sugar().Infow("session boundary recorded",
		"subject_id", req.SubjectID, "section", req.Section, "boundary", boundary, "day", day.Format("2006-01-02"))
	return stored, nil
}

// EnsureDefaultLogs creates a system-authored log from the nominal schedule
// for every section whose start time has passed today, and refreshes logs
// that are still system-authored. Safe to call repeatedly within a day.
func (s *SessionService) EnsureDefaultLogs(ctx context.Context) (*dto.EnsureDefaultLogsResult, error) {
	now := s.civil.Now()
	today := s.civil.Today()
	weekday := s.civil.Weekday(now)

	sections, err := s.sections.ListByWeekday(ctx, weekday)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}

	result := &dto.EnsureDefaultLogsResult{Message: "session logs ensured"}
	for i := range sections {
		section := sections[i]
		nominalStart, err := s.civil.Combine(today, section.StartsAt)
		if err != nil {
			s.logger.Sugar().Warnw("section has malformed start time", "section_id", section.ID, "starts_at", section.StartsAt)
			continue
		}
		if nominalStart.After(now) {
			continue
		}
		nominalEnd, err := s.civil.Combine(today, section.EndsAt)
		if err != nil {
			s.logger.Sugar().Warnw("section has malformed end time", "section_id", section.ID, "ends_at", section.EndsAt)
			continue
		}

		result.Sections = append(result.Sections, section)

		stored, err := s.logs.UpsertDefault(ctx, &models.SessionLog{
			SectionID:  section.ID,
			CreatedFor: today,
			StartTime:  nominalStart,
			EndTime:    nominalEnd,
		})
		if err != nil {
			s.logger.Sugar().Errorw("failed to ensure default log", "section_id", section.ID, "error", err)
			continue
		}
		if stored == nil {
			// Lecturer-authored log, left as is.
			stored, err = s.logs.GetForDay(ctx, section.ID, today)
			if err != nil || stored == nil {
				continue
			}
		}
		result.SessionLogs = append(result.SessionLogs, *stored)
	}
	return result, nil
}

func (s *SessionService) resolveDayAndObserved(rawDate string) (time.Time, time.Time, error) {
	now := s.civil.Now()
	if rawDate == "" {
		return s.civil.Today(), now, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", rawDate, s.civil.Location())
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	day := s.civil.DateOf(parsed)
	hour, minute, second := now.Clock()
	observed := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, s.civil.Location())
	return day, observed, nil
}

func (s *SessionService) counterpartEnd(section *models.Section, existing *models.SessionLog, day time.Time) (time.Time, error) {
	if existing != nil {
		return existing.EndTime, nil
	}
	end, err := s.civil.Combine(day, section.EndsAt)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "section has malformed end time")
	}
	return end, nil
}

func (s *SessionService) counterpartStart(section *models.Section, existing *models.SessionLog, day time.Time) (time.Time, error) {
	if existing != nil {
		return existing.StartTime, nil
	}
	start, err := s.civil.Combine(day, section.StartsAt)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "section has malformed start time")
	}
	return start, nil
}
