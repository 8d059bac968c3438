package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsInstrument(t *testing.T) {
	t.Parallel()

	m := NewMetrics()

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()
	server.Use(m.Instrument())
	server.GET("/books/:id", func(gctx *gin.Context) {
		gctx.Status(http.StatusForbidden)
	})
	server.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/books/1", "/books/2"} {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		require.NoError(t, err)
		server.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/books/:id", "403")))

	req, err := http.NewRequest(http.MethodGet, "/metrics", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, strings.Contains(recorder.Body.String(), "budget_http_requests_total"))
	require.Zero(t, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/metrics", "200")))
}
