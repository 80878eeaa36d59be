// Package assistant turns free text and business data into structured AI
// analyses. Every analysis has a deterministic fallback: a failed or
// unparsable model answer is logged and replaced, never surfaced.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hyperflow/backend/internal/domain/insight"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrAIUnavailable is surfaced by the few operations that have no fallback
var ErrAIUnavailable = shared.NewDomainError("AI_UNAVAILABLE", "The AI service is currently unavailable")

// Analysis kinds, used as the metric label and in logs
const (
	KindClientInput         = "client_input"
	KindPlatformMessages    = "platform_messages"
	KindTaskTimeline        = "task_timeline"
	KindMeetingTranscript   = "meeting_transcript"
	KindMarketingInsights   = "marketing_insights"
	KindFinancialData       = "financial_data"
	KindEmployeePerformance = "employee_performance"
	KindEmailCopy           = "email_copy"
	KindMarketTrends        = "market_trends"
	KindResume              = "resume"
)

// Recorder counts analyses; *telemetry.Metrics implements it
type Recorder interface {
	ObserveAnalysis(kind string, fallback bool)
}

// Analyzer runs prompts against an LLM and shapes the answers
type Analyzer struct {
	llm           insight.LLMClient
	recorder      Recorder
	lateThreshold time.Duration
	loc           *time.Location
	logger        *zap.Logger
}

// Option tunes an Analyzer
type Option func(*Analyzer)

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

// WithLateThreshold sets the login time-of-day after which an arrival is late
func WithLateThreshold(d time.Duration) Option {
	return func(a *Analyzer) { a.lateThreshold = d }
}

// WithLocation sets the zone used to read login times
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) { a.loc = loc }
}

// NewAnalyzer creates an Analyzer
func NewAnalyzer(llm insight.LLMClient, logger *zap.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		llm:           llm,
		lateThreshold: 9*time.Hour + 15*time.Minute,
		loc:           time.UTC,
		logger:        logger.Named("assistant"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Complete returns the raw model answer. Callers without a fallback use
// this and get ErrAIUnavailable on failure.
func (a *Analyzer) Complete(ctx context.Context, kind, system, prompt string) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "assistant", kind, attribute.String("llm.model", a.llm.Model()))
	defer span.End()

	text, err := a.llm.Complete(ctx, system, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		telemetry.RecordError(span, err)
		a.observe(kind, true)
		a.logger.Error("AI completion failed", zap.String("kind", kind), zap.Error(err))
		return "", ErrAIUnavailable
	}
	a.observe(kind, false)
	return strings.TrimSpace(text), nil
}

// CompleteJSON asks for a JSON answer and decodes it into out
func (a *Analyzer) CompleteJSON(ctx context.Context, kind, system, prompt string, out any) error {
	text, err := a.Complete(ctx, kind, system, prompt)
	if err != nil {
		return err
	}
	if err := decodeJSON(text, out); err != nil {
		a.logger.Error("AI answer is not valid JSON", zap.String("kind", kind), zap.Error(err))
		return ErrAIUnavailable
	}
	return nil
}

// ask is Complete without the metric, for analyses that count themselves once
func (a *Analyzer) ask(ctx context.Context, kind, system, prompt string) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "assistant", kind, attribute.String("llm.model", a.llm.Model()))
	defer span.End()

	text, err := a.llm.Complete(ctx, system, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty completion")
	}
	telemetry.RecordError(span, err)
	return strings.TrimSpace(text), err
}

// askJSON asks and decodes; any failure is returned for the caller to fall back
func (a *Analyzer) askJSON(ctx context.Context, kind, system, prompt string, out any) error {
	text, err := a.ask(ctx, kind, system, prompt)
	if err != nil {
		return err
	}
	return decodeJSON(text, out)
}

// fallback logs err and counts a fallback analysis
func (a *Analyzer) fallback(kind string, err error) {
	a.observe(kind, true)
	if errors.Is(err, insight.ErrLLMDisabled) {
		a.logger.Debug("AI disabled, using fallback", zap.String("kind", kind))
		return
	}
	a.logger.Error("AI analysis failed, using fallback", zap.String("kind", kind), zap.Error(err))
}

func (a *Analyzer) observe(kind string, fallback bool) {
	if a.recorder != nil {
		a.recorder.ObserveAnalysis(kind, fallback)
	}
}

func decodeJSON(text string, out any) error {
	body := insight.ExtractJSON(text)
	if body == "" {
		return errors.New("empty JSON body")
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("decode model JSON: %w", err)
	}
	return nil
}

// prettyJSON renders v for inclusion in a prompt
func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
