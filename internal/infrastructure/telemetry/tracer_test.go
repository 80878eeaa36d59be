package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, "test", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
	tp.EnableSpanProfiles()
}

func TestStartServiceSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := NewTracerProviderWithExporter(exporter, zap.NewNop())
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := StartServiceSpan(context.Background(), "finance", "summary", attribute.String("tenant_id", "t-1"))
	assert.NotEmpty(t, TraceID(ctx))
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "finance.summary", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.String("tenant_id", "t-1"))
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOn")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOff")
	assert.Contains(t, samplerFor(0.5).Description(), "TraceIDRatioBased")
}

func TestProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(config.ProfilingConfig{Enabled: false}, "hyperflow", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
}

func TestProfiler_RequiresAddress(t *testing.T) {
	_, err := NewProfiler(config.ProfilingConfig{Enabled: true}, "hyperflow", zap.NewNop())
	assert.Error(t, err)
}

func TestWithProfilingLabels(t *testing.T) {
	called := 0
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called++ })
	WithProfilingLabels(context.Background(), map[string]string{"job": "invoice_overdue"}, func(context.Context) { called++ })
	assert.Equal(t, 2, called)
}
