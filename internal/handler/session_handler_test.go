package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/akademia-dev/attendance-api/internal/dto"
	"github.com/akademia-dev/attendance-api/internal/models"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
)

type sessionServiceStub struct {
	log       *models.SessionLog
	recordErr error
	ensure    *dto.EnsureDefaultLogsResult
	ensureErr error
	lastReq   dto.RecordSessionRequest
}

func (s *sessionServiceStub) RecordBoundary(ctx context.Context, req dto.RecordSessionRequest) (*models.SessionLog, error) {
	s.lastReq = req
	return s.log, s.recordErr
}

func (s *sessionServiceStub) EnsureDefaultLogs(ctx context.Context) (*dto.EnsureDefaultLogsResult, error) {
	return s.ensure, s.ensureErr
}

func buildSessionRouter(stub *sessionServiceStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSessionHandler(stub)
	router.POST("/sessions", h.Record)
	router.GET("/sessions/ensure", h.EnsureDefaults)
	return router
}

func TestSessionRecord(t *testing.T) {
	stub := &sessionServiceStub{
		log: &models.SessionLog{ID: "log-1", SectionID: "sec-1", CreatedFor: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	router := buildSessionRouter(stub)

	resp := performRequest(router, postJSON("/sessions",
		`{"subject_id":"sub-1","section":2,"user":{"user_id":"lect-1"},"time":"start"}`))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"log-1"`)
	require.Equal(t, "start", stub.lastReq.Time)
	require.Equal(t, "lect-1", stub.lastReq.User.UserID)
}

func TestSessionRecordBadBoundary(t *testing.T) {
	stub := &sessionServiceStub{recordErr: appErrors.Clone(appErrors.ErrValidation, "invalid session payload")}
	router := buildSessionRouter(stub)

	resp := performRequest(router, postJSON("/sessions",
		`{"subject_id":"sub-1","section":2,"user":{"user_id":"lect-1"},"time":"noon"}`))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSessionRecordUnknownSection(t *testing.T) {
	stub := &sessionServiceStub{recordErr: appErrors.ErrSectionNotFound}
	router := buildSessionRouter(stub)

	resp := performRequest(router, postJSON("/sessions",
		`{"subject_id":"sub-9","section":1,"user":{"user_id":"lect-1"},"time":"end"}`))
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Contains(t, resp.Body.String(), appErrors.ErrSectionNotFound.Code)
}

func TestSessionEnsureDefaults(t *testing.T) {
	stub := &sessionServiceStub{
		ensure: &dto.EnsureDefaultLogsResult{
			Message:     "session logs ensured",
			Sections:    []models.Section{{ID: "sec-1"}},
			SessionLogs: []models.SessionLog{{ID: "log-1", SectionID: "sec-1"}},
		},
	}
	router := buildSessionRouter(stub)

	req, _ := http.NewRequest(http.MethodGet, "/sessions/ensure", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"sessionLogs"`)
}
