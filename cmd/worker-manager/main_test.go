package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-workers/internal/common/logger"
	"career-workers/pkg/registry"

	aa "career-workers/internal/workers/assessment/advance-assessment"
	sa "career-workers/internal/workers/assessment/submit-assessment"
	cc "career-workers/internal/workers/counseling/career-chat"
	qe "career-workers/internal/workers/data-access/query-elasticsearch"
	qp "career-workers/internal/workers/data-access/query-postgresql"
	cms "career-workers/internal/workers/matching/calculate-match-score"
	rcp "career-workers/internal/workers/matching/rank-career-paths"
	san "career-workers/internal/workers/notification/send-assessment-notification"
)

func TestHealthServer(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		checks       map[string]error
		expectedCode int
		validateBody func(t *testing.T, body map[string]interface{})
	}{
		{
			name:         "health is always ok",
			path:         "/health",
			checks:       map[string]error{"postgres": errors.New("down")},
			expectedCode: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "healthy", body["status"])
			},
		},
		{
			name:         "ready when dependencies respond",
			path:         "/ready",
			checks:       map[string]error{"postgres": nil, "redis": nil},
			expectedCode: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "ready", body["status"])
				deps := body["dependencies"].(map[string]interface{})
				assert.Equal(t, "ok", deps["redis"])
			},
		},
		{
			name:         "not ready when a dependency fails",
			path:         "/ready",
			checks:       map[string]error{"postgres": nil, "elasticsearch": errors.New("connection refused")},
			expectedCode: http.StatusServiceUnavailable,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "not_ready", body["status"])
				deps := body["dependencies"].(map[string]interface{})
				assert.Equal(t, "connection refused", deps["elasticsearch"])
				assert.Equal(t, "ok", deps["postgres"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newHealthServer(0, func(ctx context.Context) map[string]error { return tt.checks })
			assert.Equal(t, ":8080", srv.Addr)

			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.validateBody(t, body)
		})
	}
}

func TestHealthServer_Metrics(t *testing.T) {
	srv := newHealthServer(9100, func(ctx context.Context) map[string]error { return nil })
	assert.Equal(t, ":9100", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewNoOpLogger()

	attempts := 0
	err := retryWithBackoff(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "flaky op")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	attempts = 0
	err = retryWithBackoff(func() error {
		attempts++
		return errors.New("still down")
	}, 2, time.Millisecond, log, "broken op")
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, err.Error(), "broken op failed after 2 attempts")
}

func TestActivityRegistry_CoversWorkers(t *testing.T) {
	reg, err := registry.LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	missing := reg.Missing(
		aa.TaskType, sa.TaskType, rcp.TaskType, cms.TaskType,
		qp.TaskType, qe.TaskType, cc.TaskType, san.TaskType,
	)
	assert.Empty(t, missing)
	assert.Len(t, reg.Activities, 8)
}

func TestCheckRegistry_ToleratesMissingFile(t *testing.T) {
	assert.NotPanics(t, func() {
		checkRegistry("", []string{"career-chat"}, logger.NewNoOpLogger())
		checkRegistry("does-not-exist.json", []string{"career-chat"}, logger.NewNoOpLogger())
	})
}
