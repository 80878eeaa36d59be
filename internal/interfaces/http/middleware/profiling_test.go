package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/hr/employees/:id": "hr",
		"/api/v1/clients":          "clients",
		"/api/v2/:id/tasks":        "tasks",
		"/health":                  "health",
		"":                         "",
		"/api/v1":                  "",
		"/api/version/x":           "version",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}

func TestProfilingLabels(t *testing.T) {
	var labels map[string]string

	router := gin.New()
	router.GET("/api/v1/clients/:id", func(c *gin.Context) {
		labels = profilingLabels(c)
		c.Status(http.StatusOK)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/clients/9", nil))

	assert.Equal(t, map[string]string{
		ProfilingLabelMethod:     "GET",
		ProfilingLabelRoute:      "/api/v1/clients/:id",
		ProfilingLabelController: "clients",
	}, labels)
}

func TestProfilingWithConfig_PassesThrough(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		cfg := DefaultProfilingConfig()
		cfg.Enabled = enabled

		router := gin.New()
		router.Use(ProfilingWithConfig(cfg))
		router.GET("/api/v1/tasks", func(c *gin.Context) { c.Status(http.StatusAccepted) })
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
