package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/internal/models"
	"github.com/akademia-dev/attendance-api/pkg/clock"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
)

type attendanceStoreStub struct {
	records map[string]*models.AttendanceRecord
	upserts int
	nextID  int
}

func newAttendanceStoreStub() *attendanceStoreStub {
	return &attendanceStoreStub{records: map[string]*models.AttendanceRecord{}}
}

func recordKey(studentID, subjectID string, day time.Time) string {
	return studentID + "|" + subjectID + "|" + day.Format("2006-01-02")
}

func (s *attendanceStoreStub) UpsertExplicit(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	s.upserts++
	key := recordKey(record.StudentID, record.SubjectID, record.Day)
	stored := *record
	if existing, ok := s.records[key]; ok {
		stored.ID = existing.ID
	} else {
		s.nextID++
		stored.ID = fmt.Sprintf("att-%d", s.nextID)
	}
	s.records[key] = &stored
	copied := stored
	return &copied, nil
}

func (s *attendanceStoreStub) InsertAbsentMissing(ctx context.Context, subjectID string, day, recordedAt time.Time, studentIDs []string) (int, error) {
	filled := 0
	for _, studentID := range studentIDs {
		key := recordKey(studentID, subjectID, day)
		if _, ok := s.records[key]; ok {
			continue
		}
		s.nextID++
		s.records[key] = &models.AttendanceRecord{
			ID:         fmt.Sprintf("att-%d", s.nextID),
			StudentID:  studentID,
			SubjectID:  subjectID,
			Day:        day,
			RecordedAt: recordedAt,
			Status:     models.AttendanceStatusAbsent,
		}
		filled++
	}
	return filled, nil
}

func (s *attendanceStoreStub) UpdateStatus(ctx context.Context, id string, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	for _, record := range s.records {
		if record.ID == id {
			record.Status = status
			copied := *record
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *attendanceStoreStub) ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceHistoryRow, error) {
	var rows []models.AttendanceHistoryRow
	for _, record := range s.records {
		if record.StudentID == studentID {
			rows = append(rows, models.AttendanceHistoryRow{
				RecordID:  record.ID,
				SubjectID: record.SubjectID,
				Day:       record.Day,
				Status:    record.Status,
			})
		}
	}
	return rows, nil
}

func (s *attendanceStoreStub) ListBySection(ctx context.Context, subjectID string, section int, day time.Time) ([]models.SectionAttendanceRow, error) {
	return nil, nil
}

func (s *attendanceStoreStub) statusOf(studentID, subjectID string, day time.Time) models.AttendanceStatus {
	record, ok := s.records[recordKey(studentID, subjectID, day)]
	if !ok {
		return ""
	}
	return record.Status
}

type rosterResolverStub struct {
	members []models.RosterMember
}

func (r *rosterResolverStub) Resolve(ctx context.Context, subjectID string, section int) ([]models.RosterMember, error) {
	return r.members, nil
}

type cacheInvalidatorStub struct {
	patterns []string
}

func (c *cacheInvalidatorStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	return nil
}

func newAttendanceServiceForTest(t *testing.T, members ...string) (*AttendanceService, *attendanceStoreStub, *cacheInvalidatorStub) {
	t.Helper()
	roster := &rosterResolverStub{}
	for _, id := range members {
		roster.members = append(roster.members, models.RosterMember{StudentID: id})
	}
	store := newAttendanceStoreStub()
	cache := &cacheInvalidatorStub{}
	civil := clock.NewCivilAt(8, civilInstant(10, 30))
	svc := NewAttendanceService(store, roster, cache, civil, nil, zap.NewNop())
	return svc, store, cache
}

func TestSubmitAbsentFillsRoster(t *testing.T) {
	svc, store, cache := newAttendanceServiceForTest(t, "std-1", "std-2", "std-3")

	result, err := svc.Submit(context.Background(), dto.SubmitAttendanceRequest{
		SubjectID: "sub-1",
		Date:      "2024-03-01",
		Records:   []dto.AttendanceEntry{{StudentID: "std-1", Status: "P"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Recorded)
	require.Equal(t, 2, result.AbsentFilled)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	require.Equal(t, models.AttendanceStatusPresent, store.statusOf("std-1", "sub-1", day))
	require.Equal(t, models.AttendanceStatusAbsent, store.statusOf("std-2", "sub-1", day))
	require.Equal(t, models.AttendanceStatusAbsent, store.statusOf("std-3", "sub-1", day))
	require.Len(t, cache.patterns, 1)
}

func TestSubmitValidationAbortsBeforeWrites(t *testing.T) {
	svc, store, _ := newAttendanceServiceForTest(t, "std-1", "std-2")

	_, err := svc.Submit(context.Background(), dto.SubmitAttendanceRequest{
		SubjectID: "sub-1",
		Date:      "2024-03-01",
		Records: []dto.AttendanceEntry{
			{StudentID: "std-1", Status: "P"},
			{StudentID: "std-2", Status: "present"},
		},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	require.Equal(t, 0, store.upserts)
	require.Empty(t, store.records)
}

func TestRepeatedSubmitNetsOneRecord(t *testing.T) {
	svc, store, _ := newAttendanceServiceForTest(t, "std-1")

	_, err := svc.Submit(context.Background(), dto.SubmitAttendanceRequest{
		SubjectID: "sub-1",
		Date:      "2024-03-01",
		Records:   []dto.AttendanceEntry{{StudentID: "std-1", Status: "P"}},
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), dto.SubmitAttendanceRequest{
		SubjectID: "sub-1",
		Date:      "2024-03-01",
		Records:   []dto.AttendanceEntry{{StudentID: "std-1", Status: "E"}},
	})
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	require.Equal(t, models.AttendanceStatusExcused, store.statusOf("std-1", "sub-1", day))
}

func TestAbsentFillNeverOverwrites(t *testing.T) {
	svc, store, _ := newAttendanceServiceForTest(t, "std-1", "std-2")

	_, err := svc.Submit(context.Background(), dto.SubmitAttendanceRequest{
		SubjectID: "sub-1",
		Date:      "2024-03-01",
		Records:   []dto.AttendanceEntry{{StudentID: "std-1", Status: "P"}},
	})
	require.NoError(t, err)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	filled, err := svc.AbsentFill(context.Background(), "sub-1", 0, day, day)
	require.NoError(t, err)
	require.Equal(t, 0, filled)
	require.Equal(t, models.AttendanceStatusPresent, store.statusOf("std-1", "sub-1", day))
}

func TestCorrectUnknownRecord(t *testing.T) {
	svc, _, _ := newAttendanceServiceForTest(t)

	err := svc.Correct(context.Background(), dto.CorrectAttendanceRequest{
		Attendance: []dto.CorrectionEntry{{ID: "att-missing", Status: "E"}},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCorrectUpdatesStatusAndInvalidatesCache(t *testing.T) {
	svc, store, cache := newAttendanceServiceForTest(t, "std-1")

	_, err := svc.Submit(context.Background(), dto.SubmitAttendanceRequest{
		SubjectID: "sub-1",
		Date:      "2024-03-01",
		Records:   []dto.AttendanceEntry{{StudentID: "std-1", Status: "A"}},
	})
	require.NoError(t, err)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	record := store.records[recordKey("std-1", "sub-1", day)]
	require.NotNil(t, record)

	err = svc.Correct(context.Background(), dto.CorrectAttendanceRequest{
		Attendance: []dto.CorrectionEntry{{ID: record.ID, Status: "E"}},
	})
	require.NoError(t, err)
	require.Equal(t, models.AttendanceStatusExcused, store.statusOf("std-1", "sub-1", day))
	require.Len(t, cache.patterns, 2)
}

func TestListScopeFromRequest(t *testing.T) {
	svc, _, _ := newAttendanceServiceForTest(t)

	scope, err := svc.ListScopeFromRequest(dto.ListAttendanceRequest{StudentID: "std-1"})
	require.NoError(t, err)
	require.IsType(t, models.StudentScope{}, scope)

	scope, err = svc.ListScopeFromRequest(dto.ListAttendanceRequest{
		SubjectID: "sub-1", SelectedSection: 2, CalendarDate: "2024-03-01",
	})
	require.NoError(t, err)
	sectionScope, ok := scope.(models.SectionScope)
	require.True(t, ok)
	require.Equal(t, 2, sectionScope.Section)

	_, err = svc.ListScopeFromRequest(dto.ListAttendanceRequest{SubjectID: "sub-1"})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
