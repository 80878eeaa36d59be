package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hyperflow/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics(t *testing.T) {
	metrics := telemetry.NewMetrics()

	router := gin.New()
	router.Use(HTTPMetrics(metrics))
	router.GET("/clients/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/clients/1", "/clients/2", "/nope"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	srv := httptest.NewServer(metrics.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `hyperflow_http_requests_total{method="GET",route="/clients/:id",status="200"} 2`)
	assert.Contains(t, string(body), `hyperflow_http_requests_total{method="GET",route="unknown",status="404"} 1`)
}

func TestHTTPMetrics_NilMetrics(t *testing.T) {
	router := gin.New()
	router.Use(HTTPMetrics(nil))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
