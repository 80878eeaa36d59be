package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("1.4.0", nil)
	h.now = func() time.Time { return time.Date(2026, 1, 23, 13, 0, 0, 0, time.FixedZone("CET", 3600)) }
	r := newTestRouter(nil)
	r.GET("/health", h.Health)

	rec := doJSON(t, r, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "healthy", Timestamp: "2026-01-23T12:00:00Z", Version: "1.4.0"}, resp)
}

func TestSystemHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		want       ReadyResponse
	}{
		{"no database", nil, http.StatusOK, ReadyResponse{Status: "ready", Database: "ok"}},
		{"database up", pingFunc(func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			if !hasDeadline {
				return errors.New("ping without deadline")
			}
			return nil
		}), http.StatusOK, ReadyResponse{Status: "ready", Database: "ok"}},
		{"database down", pingFunc(func(context.Context) error { return errors.New("connection refused") }),
			http.StatusServiceUnavailable, ReadyResponse{Status: "unavailable", Database: "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("dev", tt.db)
			r := newTestRouter(nil)
			r.GET("/ready", h.Ready)

			rec := doJSON(t, r, http.MethodGet, "/ready", nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp)
		})
	}
}
