package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/internal/models"
	"github.com/akademia-dev/attendance-api/pkg/clock"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
)

type attendanceStore interface {
	UpsertExplicit(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	InsertAbsentMissing(ctx context.Context, subjectID string, day, recordedAt time.Time, studentIDs []string) (int, error)
	UpdateStatus(ctx context.Context, id string, status models.AttendanceStatus) (*models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceHistoryRow, error)
	ListBySection(ctx context.Context, subjectID string, section int, day time.Time) ([]models.SectionAttendanceRow, error)
}

type rosterResolver interface {
	Resolve(ctx context.Context, subjectID string, section int) ([]models.RosterMember, error)
}

type reportCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AttendanceService records explicit attendance, derives absences from the
// roster and serves attendance views.
type AttendanceService struct {
	records   attendanceStore
	roster    rosterResolver
	cache     reportCacheInvalidator
	civil     *clock.Civil
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance recorder.
func NewAttendanceService(records attendanceStore, roster rosterResolver, cache reportCacheInvalidator, civil *clock.Civil, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{records: records, roster: roster, cache: cache, civil: civil, validator: validate, logger: logger}
	_ = svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
	return svc
}

// Submit upserts every explicit record for the subject/day, then absent-fills
// the remaining roster members. The whole batch is validated before any
// write; a malformed record aborts the submission. Absent-fill never
// overwrites records that already exist.
func (s *AttendanceService) Submit(ctx context.Context, req dto.SubmitAttendanceRequest) (*dto.SubmitAttendanceResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	day, err := s.parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	recordedAt := s.observedOn(day)

	submitted := make(map[string]struct{}, len(req.Records))
	for _, entry := range req.Records {
		record := &models.AttendanceRecord{
			StudentID:  entry.StudentID,
			SubjectID:  req.SubjectID,
			Day:        day,
			RecordedAt: recordedAt,
			Status:     models.AttendanceStatus(entry.Status),
		}
		if _, err := s.records.UpsertExplicit(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
		}
		submitted[entry.StudentID] = struct{}{}
	}

	members, err := s.roster.Resolve(ctx, req.SubjectID, 0)
	if err != nil {
		return nil, err
	}
	missing := make([]string, 0, len(members))
	for _, member := range members {
		if _, ok := submitted[member.StudentID]; !ok {
			missing = append(missing, member.StudentID)
		}
	}
	filled, err := s.records.InsertAbsentMissing(ctx, req.SubjectID, day, recordedAt, missing)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to absent-fill roster")
	}

	s.invalidateReports(ctx, day)
	s.logger.Sugar().Infow("attendance submitted",
		"subject_id", req.SubjectID, "day", day.Format("2006-01-02"), "recorded", len(req.Records), "absent_filled", filled)

	return &dto.SubmitAttendanceResult{Message: "attendance recorded", Recorded: len(req.Records), AbsentFilled: filled}, nil
}

// Correct applies manual status corrections to existing records. No roster
// check is performed.
func (s *AttendanceService) Correct(ctx context.Context, req dto.CorrectAttendanceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid correction payload")
	}
	for _, entry := range req.Attendance {
		stored, err := s.records.UpdateStatus(ctx, entry.ID, models.AttendanceStatus(entry.Status))
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to correct attendance")
		}
		if stored == nil {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("attendance record %s not found", entry.ID))
		}
		s.invalidateReports(ctx, stored.Day)
	}
	return nil
}

// ListScopeFromRequest maps a listing payload onto its closed scope variant.
func (s *AttendanceService) ListScopeFromRequest(req dto.ListAttendanceRequest) (models.ListScope, error) {
	if req.StudentID != "" {
		return models.StudentScope{StudentID: req.StudentID}, nil
	}
	if req.SubjectID == "" || req.CalendarDate == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "either student_id or subject_id with calendarDate is required")
	}
	day, err := s.parseDay(req.CalendarDate)
	if err != nil {
		return nil, err
	}
	return models.SectionScope{SubjectID: req.SubjectID, Section: req.SelectedSection, Day: day}, nil
}

// ListStudent returns one student's attendance history.
func (s *AttendanceService) ListStudent(ctx context.Context, scope models.StudentScope) ([]models.AttendanceHistoryRow, error) {
	rows, err := s.records.ListByStudent(ctx, scope.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return rows, nil
}

// ListSection returns the roster of a section with each member's status for
// the scoped day.
func (s *AttendanceService) ListSection(ctx context.Context, scope models.SectionScope) ([]models.SectionAttendanceRow, error) {
	rows, err := s.records.ListBySection(ctx, scope.SubjectID, scope.Section, scope.Day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list section attendance")
	}
	return rows, nil
}

// AbsentFill synthesizes absences for every unrecorded roster member of a
// section. Used by the sweep; existing records are never overwritten.
func (s *AttendanceService) AbsentFill(ctx context.Context, subjectID string, section int, day, recordedAt time.Time) (int, error) {
	members, err := s.roster.Resolve(ctx, subjectID, section)
	if err != nil {
		return 0, err
	}
	ids := make([]string, len(members))
	for i, member := range members {
		ids[i] = member.StudentID
	}
	filled, err := s.records.InsertAbsentMissing(ctx, subjectID, day, recordedAt, ids)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to absent-fill roster")
	}
	if filled > 0 {
		s.invalidateReports(ctx, day)
	}
	return filled, nil
}

func (s *AttendanceService) parseDay(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", raw, s.civil.Location())
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	return s.civil.DateOf(parsed), nil
}

// observedOn keeps the current time of day on the submitted calendar day, so
// a record remembers when within the day attendance was taken.
func (s *AttendanceService) observedOn(day time.Time) time.Time {
	now := s.civil.Now()
	hour, minute, second := now.Clock()
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, s.civil.Location())
}

func (s *AttendanceService) invalidateReports(ctx context.Context, day time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, reportCachePattern(day)); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate report cache", "day", day.Format("2006-01-02"), "error", err)
	}
}
