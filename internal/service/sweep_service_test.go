package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/internal/models"
	"github.com/akademia-dev/attendance-api/pkg/clock"
)

type ensurerStub struct {
	called bool
	err    error
}

func (e *ensurerStub) EnsureDefaultLogs(ctx context.Context) (*dto.EnsureDefaultLogsResult, error) {
	e.called = true
	if e.err != nil {
		return nil, e.err
	}
	return &dto.EnsureDefaultLogsResult{}, nil
}

type activeLogsStub struct {
	logs []models.SessionLog
}

func (l *activeLogsStub) ListActiveAt(ctx context.Context, day, at time.Time) ([]models.SessionLog, error) {
	return l.logs, nil
}

type sectionResolverStub struct {
	byID map[string]*models.Section
}

func (s *sectionResolverStub) GetByID(ctx context.Context, id string) (*models.Section, error) {
	return s.byID[id], nil
}

type fillerStub struct {
	fills map[string]int
	errs  map[string]error
	calls []string
}

func (f *fillerStub) AbsentFill(ctx context.Context, subjectID string, section int, day, recordedAt time.Time) (int, error) {
	f.calls = append(f.calls, subjectID)
	if err := f.errs[subjectID]; err != nil {
		return 0, err
	}
	return f.fills[subjectID], nil
}

type sweepObserverStub struct {
	swept, filled, failures int
}

func (o *sweepObserverStub) ObserveSweep(sectionsSwept, absencesFilled, failures int) {
	o.swept = sectionsSwept
	o.filled = absencesFilled
	o.failures = failures
}

func sweepSection(id, subjectID, weekday string) *models.Section {
	return &models.Section{
		ID:            id,
		SubjectID:     subjectID,
		SectionNumber: 1,
		Weekday:       &weekday,
		StartsAt:      "09:00:00",
		EndsAt:        "10:00:00",
	}
}

func newSweepServiceForTest(t *testing.T, sections []*models.Section, logs []models.SessionLog) (*SweepService, *ensurerStub, *fillerStub, *sweepObserverStub) {
	t.Helper()
	byID := map[string]*models.Section{}
	for _, section := range sections {
		byID[section.ID] = section
	}
	ensurer := &ensurerStub{}
	filler := &fillerStub{fills: map[string]int{}, errs: map[string]error{}}
	observer := &sweepObserverStub{}
	civil := clock.NewCivilAt(8, civilInstant(9, 30))
	svc := NewSweepService(ensurer, &activeLogsStub{logs: logs}, &sectionResolverStub{byID: byID}, filler, observer, civil, zap.NewNop())
	return svc, ensurer, filler, observer
}

func TestSweepEnsuresDefaultsThenFills(t *testing.T) {
	sections := []*models.Section{sweepSection("sec-1", "sub-1", "Friday")}
	logs := []models.SessionLog{{ID: "log-1", SectionID: "sec-1"}}
	svc, ensurer, filler, observer := newSweepServiceForTest(t, sections, logs)
	filler.fills["sub-1"] = 3

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.True(t, ensurer.called)
	require.Equal(t, 1, result.SectionsInSession)
	require.Equal(t, 1, result.SectionsSwept)
	require.Equal(t, 3, result.AbsencesFilled)
	require.Equal(t, 0, result.SectionFailures)
	require.Equal(t, 3, observer.filled)
}

func TestSweepSkipsSectionsNotMeetingToday(t *testing.T) {
	// 2024-03-01 is a Friday; the Monday section's log is stale.
	sections := []*models.Section{
		sweepSection("sec-1", "sub-1", "Friday"),
		sweepSection("sec-2", "sub-2", "Monday"),
	}
	logs := []models.SessionLog{
		{ID: "log-1", SectionID: "sec-1"},
		{ID: "log-2", SectionID: "sec-2"},
	}
	svc, _, filler, _ := newSweepServiceForTest(t, sections, logs)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.SectionsInSession)
	require.Equal(t, 1, result.SectionsSwept)
	require.Equal(t, []string{"sub-1"}, filler.calls)
}

func TestSweepContinuesAfterSectionFailure(t *testing.T) {
	sections := []*models.Section{
		sweepSection("sec-1", "sub-1", "Friday"),
		sweepSection("sec-2", "sub-2", "Friday"),
	}
	logs := []models.SessionLog{
		{ID: "log-1", SectionID: "sec-1"},
		{ID: "log-2", SectionID: "sec-2"},
	}
	svc, _, filler, observer := newSweepServiceForTest(t, sections, logs)
	filler.errs["sub-1"] = errors.New("connection reset")
	filler.fills["sub-2"] = 2

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.SectionFailures)
	require.Equal(t, 1, result.SectionsSwept)
	require.Equal(t, 2, result.AbsencesFilled)
	require.Equal(t, 1, observer.failures)
}

func TestSweepSurvivesEnsureFailure(t *testing.T) {
	sections := []*models.Section{sweepSection("sec-1", "sub-1", "Friday")}
	logs := []models.SessionLog{{ID: "log-1", SectionID: "sec-1"}}
	svc, ensurer, filler, _ := newSweepServiceForTest(t, sections, logs)
	ensurer.err = errors.New("schedule source down")
	filler.fills["sub-1"] = 1

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.SectionsSwept)
	require.Equal(t, 1, result.AbsencesFilled)
}

func TestSweepFailsOnUnknownSection(t *testing.T) {
	logs := []models.SessionLog{{ID: "log-1", SectionID: "sec-ghost"}}
	svc, _, _, _ := newSweepServiceForTest(t, nil, logs)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.SectionFailures)
	require.Equal(t, 0, result.SectionsSwept)
}

func TestSweepIsIdempotentOnceConverged(t *testing.T) {
	sections := []*models.Section{sweepSection("sec-1", "sub-1", "Friday")}
	logs := []models.SessionLog{{ID: "log-1", SectionID: "sec-1"}}
	svc, _, filler, _ := newSweepServiceForTest(t, sections, logs)
	filler.fills["sub-1"] = 0

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, first.AbsencesFilled, second.AbsencesFilled)
	require.Equal(t, 0, second.AbsencesFilled)
}
