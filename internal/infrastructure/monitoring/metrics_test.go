package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsCanBeCreatedTwice(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

func TestRecorderCounters(t *testing.T) {
	m := NewMetrics()

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.SessionExited()
	m.SpawnFailed()
	m.BytesRead(10)
	m.BytesWritten(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsClosed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsExited))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpawnFailures))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.TerminalBytes.WithLabelValues("out")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.TerminalBytes.WithLabelValues("in")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/api/terminals/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/terminals/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/terminals/:id", "204")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.SessionOpened()
	m.RecordHTTPRequest("GET", "/health", "200", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "ptyhub_sessions_active 1")
	assert.Contains(t, body, "ptyhub_http_requests_total")
	assert.Contains(t, body, "ptyhub_uptime_seconds")
}
