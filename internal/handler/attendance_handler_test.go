package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/internal/models"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
)

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func postJSON(path, body string) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type attendanceServiceStub struct {
	submitResult *dto.SubmitAttendanceResult
	submitErr    error
	correctErr   error
	studentRows  []models.AttendanceHistoryRow
	sectionRows  []models.SectionAttendanceRow
}

func (s *attendanceServiceStub) Submit(ctx context.Context, req dto.SubmitAttendanceRequest) (*dto.SubmitAttendanceResult, error) {
	return s.submitResult, s.submitErr
}

func (s *attendanceServiceStub) Correct(ctx context.Context, req dto.CorrectAttendanceRequest) error {
	return s.correctErr
}

func (s *attendanceServiceStub) ListScopeFromRequest(req dto.ListAttendanceRequest) (models.ListScope, error) {
	if req.StudentID != "" {
		return models.StudentScope{StudentID: req.StudentID}, nil
	}
	if req.SubjectID == "" {
		return nil, appErrors.ErrValidation
	}
	return models.SectionScope{SubjectID: req.SubjectID, Section: req.SelectedSection}, nil
}

func (s *attendanceServiceStub) ListStudent(ctx context.Context, scope models.StudentScope) ([]models.AttendanceHistoryRow, error) {
	return s.studentRows, nil
}

func (s *attendanceServiceStub) ListSection(ctx context.Context, scope models.SectionScope) ([]models.SectionAttendanceRow, error) {
	return s.sectionRows, nil
}

func buildAttendanceRouter(stub *attendanceServiceStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAttendanceHandler(stub)
	router.POST("/attendance", h.Submit)
	router.POST("/attendance/list", h.List)
	router.POST("/attendance/correct", h.Correct)
	return router
}

func TestAttendanceSubmit(t *testing.T) {
	stub := &attendanceServiceStub{
		submitResult: &dto.SubmitAttendanceResult{Message: "attendance recorded", Recorded: 1, AbsentFilled: 2},
	}
	router := buildAttendanceRouter(stub)

	resp := performRequest(router, postJSON("/attendance",
		`{"subject_id":"sub-1","date":"2024-03-01","records":[{"student_id":"std-1","status":"P"}]}`))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"absentFilled":2`)
}

func TestAttendanceSubmitMalformedBody(t *testing.T) {
	router := buildAttendanceRouter(&attendanceServiceStub{})

	resp := performRequest(router, postJSON("/attendance", `{"subject_id":`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), appErrors.ErrValidation.Code)
}

func TestAttendanceSubmitServiceError(t *testing.T) {
	stub := &attendanceServiceStub{submitErr: appErrors.ErrValidation}
	router := buildAttendanceRouter(stub)

	resp := performRequest(router, postJSON("/attendance",
		`{"subject_id":"sub-1","date":"2024-03-01","records":[{"student_id":"std-1","status":"present"}]}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAttendanceListDispatchesByScope(t *testing.T) {
	stub := &attendanceServiceStub{
		studentRows: []models.AttendanceHistoryRow{{RecordID: "att-1", SubjectID: "sub-1"}},
		sectionRows: []models.SectionAttendanceRow{{StudentID: "std-1", StudentName: "Alice"}},
	}
	router := buildAttendanceRouter(stub)

	resp := performRequest(router, postJSON("/attendance/list", `{"student_id":"std-1"}`))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"att-1"`)

	resp = performRequest(router, postJSON("/attendance/list",
		`{"subject_id":"sub-1","selectedSection":2,"calendarDate":"2024-03-01"}`))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"Alice"`)

	resp = performRequest(router, postJSON("/attendance/list", `{}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAttendanceCorrect(t *testing.T) {
	router := buildAttendanceRouter(&attendanceServiceStub{})

	resp := performRequest(router, postJSON("/attendance/correct",
		`{"attendance":[{"id":"att-1","status":"E"}]}`))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "attendance updated")
}

func TestAttendanceCorrectNotFound(t *testing.T) {
	stub := &attendanceServiceStub{correctErr: appErrors.ErrNotFound}
	router := buildAttendanceRouter(stub)

	resp := performRequest(router, postJSON("/attendance/correct",
		`{"attendance":[{"id":"att-missing","status":"E"}]}`))
	require.Equal(t, http.StatusNotFound, resp.Code)
}
