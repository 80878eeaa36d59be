package llm

import (
	"context"
	"time"

	"github.com/hyperflow/backend/internal/domain/insight"
	"github.com/hyperflow/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// InstrumentedClient records latency, outcome and a span per provider call
type InstrumentedClient struct {
	next     insight.LLMClient
	provider string
	metrics  *telemetry.Metrics
	logger   *zap.Logger
}

// NewInstrumentedClient wraps next
func NewInstrumentedClient(next insight.LLMClient, provider string, metrics *telemetry.Metrics, logger *zap.Logger) *InstrumentedClient {
	return &InstrumentedClient{next: next, provider: provider, metrics: metrics, logger: logger}
}

// Model returns the wrapped model name
func (c *InstrumentedClient) Model() string {
	return c.next.Model()
}

// Complete forwards to the provider
func (c *InstrumentedClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "llm", "complete",
		attribute.String("llm.provider", c.provider),
		attribute.String("llm.model", c.next.Model()),
	)
	defer span.End()

	start := time.Now()
	text, err := c.next.Complete(ctx, system, prompt)
	elapsed := time.Since(start)

	c.metrics.ObserveLLM(c.provider, c.next.Model(), err, elapsed)
	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Warn("LLM completion failed",
			zap.String("provider", c.provider),
			zap.Duration("latency", elapsed),
			zap.Error(err),
		)
		return "", err
	}
	c.logger.Debug("LLM completion",
		zap.String("provider", c.provider),
		zap.Duration("latency", elapsed),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("response_len", len(text)),
	)
	return text, nil
}
