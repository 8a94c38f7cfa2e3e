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

type reportAttendanceStore interface {
	ListForDay(ctx context.Context, day time.Time) ([]models.DailyReportRow, error)
	HasRecordsOn(ctx context.Context, day time.Time) (bool, error)
	PresentCount(ctx context.Context, subjectID string, section int, day time.Time) (int, error)
}

type sectionContextSource interface {
	ListSectionContexts(ctx context.Context) ([]models.SubjectSectionContext, error)
	GetSectionContext(ctx context.Context, subjectID string, section int) (*models.SubjectSectionContext, error)
}

type rosterSource interface {
	Resolve(ctx context.Context, subjectID string, section int) ([]models.RosterMember, error)
	Size(ctx context.Context, subjectID string, section int) (int, error)
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cacheObserver interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

// ReportService aggregates attendance, session and roster data into the
// daily report.
type ReportService struct {
	records   reportAttendanceStore
	catalog   sectionContextSource
	roster    rosterSource
	cache     reportCache
	cacheTTL  time.Duration
	metrics   cacheObserver
	civil     *clock.Civil
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs the daily report aggregator.
func NewReportService(records reportAttendanceStore, catalog sectionContextSource, roster rosterSource, cache reportCache, cacheTTL time.Duration, metrics cacheObserver, civil *clock.Civil, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		records:   records,
		catalog:   catalog,
		roster:    roster,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		civil:     civil,
		validator: validate,
		logger:    logger,
	}
}

// Daily builds the report for the target date. With stored attendance it
// returns the joined rows plus per-(subject, section) summaries. With none,
// the fallback pairs project an all-absent view; no fallback makes the empty
// date a terminal no-records error.
func (s *ReportService) Daily(ctx context.Context, req dto.DailyReportRequest) (*models.DailyReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}
	parsed, err := time.ParseInLocation("2006-01-02", req.Date, s.civil.Location())
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	day := s.civil.DateOf(parsed)

	if cached := s.fromCache(ctx, day); cached != nil {
		return cached, nil
	}

	rows, err := s.records.ListForDay(ctx, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if len(rows) == 0 {
		if len(req.SubjectsAndSections) == 0 {
			return nil, appErrors.ErrNoRecords
		}
		return s.projection(ctx, day, req.SubjectsAndSections)
	}

	summaries, err := s.summaries(ctx, day)
	if err != nil {
		return nil, err
	}

	report := &models.DailyReport{Date: day, Rows: rows, Summaries: summaries}
	s.toCache(ctx, day, report)
	return report, nil
}

// summaries totals every catalogued (subject, section) pair for the day.
// Roster sizes reflect current student standing, matching the resolver.
func (s *ReportService) summaries(ctx context.Context, day time.Time) ([]models.SectionSummary, error) {
	contexts, err := s.catalog.ListSectionContexts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section contexts")
	}
	summaries := make([]models.SectionSummary, 0, len(contexts))
	for _, sectionCtx := range contexts {
		present, err := s.records.PresentCount(ctx, sectionCtx.SubjectID, sectionCtx.SectionNumber, day)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count attendance")
		}
		size, err := s.roster.Size(ctx, sectionCtx.SubjectID, sectionCtx.SectionNumber)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.SectionSummary{
			SubjectID:       sectionCtx.SubjectID,
			SubjectName:     sectionCtx.SubjectName,
			SectionNumber:   sectionCtx.SectionNumber,
			LecturerName:    sectionCtx.LecturerName,
			TotalAttendance: present,
			TotalStudents:   size,
		})
	}
	return summaries, nil
}

// projection synthesizes an all-absent report for the listed pairs. Nothing
// is stored and the result is never cached.
func (s *ReportService) projection(ctx context.Context, day time.Time, refs []models.SubjectSectionRef) (*models.DailyReport, error) {
	report := &models.DailyReport{Date: day, Projection: true, Rows: []models.DailyReportRow{}}
	for _, ref := range refs {
		sectionCtx, err := s.catalog.GetSectionContext(ctx, ref.SubjectID, ref.SubjectSection)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section context")
		}
		if sectionCtx == nil {
			s.logger.Sugar().Warnw("projection skipped unknown pair", "subject_id", ref.SubjectID, "section", ref.SubjectSection)
			continue
		}
		members, err := s.roster.Resolve(ctx, ref.SubjectID, ref.SubjectSection)
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			report.Rows = append(report.Rows, models.DailyReportRow{
				StudentID:     member.StudentID,
				StudentName:   member.StudentName,
				SubjectID:     sectionCtx.SubjectID,
				SubjectName:   sectionCtx.SubjectName,
				SectionNumber: sectionCtx.SectionNumber,
				LecturerName:  sectionCtx.LecturerName,
				Status:        models.AttendanceStatusAbsent,
				RecordedAt:    day,
			})
		}
		report.Summaries = append(report.Summaries, models.SectionSummary{
			SubjectID:       sectionCtx.SubjectID,
			SubjectName:     sectionCtx.SubjectName,
			SectionNumber:   sectionCtx.SectionNumber,
			LecturerName:    sectionCtx.LecturerName,
			TotalAttendance: 0,
			TotalStudents:   len(members),
		})
	}
	return report, nil
}

func (s *ReportService) fromCache(ctx context.Context, day time.Time) *models.DailyReport {
	if s.cache == nil {
		return nil
	}
	start := time.Now()
	var cached models.DailyReport
	err := s.cache.Get(ctx, reportCachePattern(day), &cached)
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	}
	if err != nil {
		return nil
	}
	return &cached
}

func (s *ReportService) toCache(ctx context.Context, day time.Time, report *models.DailyReport) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, reportCachePattern(day), report, s.cacheTTL); err != nil {
		s.logger.Sugar().Warnw("failed to cache daily report", "day", day.Format("2006-01-02"), "error", err)
	}
}

// reportCachePattern is both the cache key for a day's report and the
// pattern used to invalidate it after attendance writes.
func reportCachePattern(day time.Time) string {
	return fmt.Sprintf("report:daily:%s", day.Format("2006-01-02"))
}
