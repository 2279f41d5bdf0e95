package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cashflow-sentinel/internal/models"
	redismocks "cashflow-sentinel/internal/redis/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubDetector struct {
	n   int
	err error
}

func (s stubDetector) RunDetection(context.Context) (int, error) { return s.n, s.err }

func newRouter(d batchDetector, stats alertStats) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, d, stats)
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestSetupRoutes_DetectionRun(t *testing.T) {
	w := serve(newRouter(stubDetector{n: 3}, nil), "POST", "/api/v1/detection/run")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["anomaliesFound"])

	w = serve(newRouter(stubDetector{err: errors.New("boom")}, nil), "POST", "/api/v1/detection/run")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSetupRoutes_AlertStats(t *testing.T) {
	w := serve(newRouter(stubDetector{}, nil), "GET", "/api/v1/alerts/stats")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	stats := new(redismocks.MockClientInterface)
	stats.On("GetAlertStats", mock.Anything).Return(map[models.Severity]int64{models.SeverityHigh: 2}, nil)
	stats.On("ResetAlertStats", mock.Anything).Return(nil)
	router := newRouter(stubDetector{}, stats)

	w = serve(router, "GET", "/api/v1/alerts/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"high":2`)

	w = serve(router, "DELETE", "/api/v1/alerts/stats")
	assert.Equal(t, http.StatusOK, w.Code)
	stats.AssertExpectations(t)

	w = serve(router, "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}
