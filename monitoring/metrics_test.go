package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametracker/engine"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	case out.Counter != nil:
		return out.Counter.GetValue()
	}
	return 0
}

func TestRecordLibrary(t *testing.T) {
	RecordLibrary(engine.Statistics{
		TotalCount:     3,
		CompletedCount: 1,
		PendingCount:   1,
		PlayingCount:   1,
		TotalHours:     42.5,
		AverageRating:  4.5,
	})

	assert.Equal(t, 3.0, value(t, LibraryGames.WithLabelValues("total")))
	assert.Equal(t, 1.0, value(t, LibraryGames.WithLabelValues("completed")))
	assert.Equal(t, 42.5, value(t, LibraryHours))
	assert.Equal(t, 4.5, value(t, LibraryAverageRating))
}

func TestPrometheusMiddlewareLabelsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InitMetrics()
	InitMetrics()

	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/teapot", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.GET("/metrics", PrometheusHandler())

	before := value(t, HttpRequestsTotal.WithLabelValues("GET", "/teapot", "418"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, value(t, HttpRequestsTotal.WithLabelValues("GET", "/teapot", "418")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gametracker_http_requests_total")
}
