package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
	"github.com/hyperflow/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()
}

type caller struct {
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newCaller() caller {
	return caller{tenantID: uuid.New(), userID: uuid.New()}
}

// asCaller simulates the JWT middleware for handler tests
func asCaller(who caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, who.tenantID.String())
		c.Set(middleware.JWTUserIDKey, who.userID.String())
		c.Next()
	}
}

func newTestRouter(who *caller) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	if who != nil {
		r.Use(asCaller(*who))
	}
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// decodeData unwraps the data field of a success envelope
func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Success bool      `json:"success"`
		Data    T         `json:"data"`
		Meta    *dto.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.True(t, env.Success, rec.Body.String())
	return env.Data
}

func decodeMeta(t *testing.T, rec *httptest.ResponseRecorder) *dto.Meta {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	return resp.Meta
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}
