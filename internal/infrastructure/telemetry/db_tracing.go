package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartKey contextKey = "otel_query_start"

// DBTracingConfig configures query spans
type DBTracingConfig struct {
	DBSystem      string
	WithVariables bool // dev only, leaks query arguments into spans
	SlowThreshold time.Duration
}

// InstrumentDB registers otelgorm plus callbacks that tag slow queries and
// table names on the current span.
func InstrumentDB(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.WithVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateQuerySpan(tx, cfg.SlowThreshold) }

	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("hf_trace:before_create", before),
		cb.Query().Before("gorm:query").Register("hf_trace:before_query", before),
		cb.Update().Before("gorm:update").Register("hf_trace:before_update", before),
		cb.Delete().Before("gorm:delete").Register("hf_trace:before_delete", before),
		cb.Row().Before("gorm:row").Register("hf_trace:before_row", before),
		cb.Raw().Before("gorm:raw").Register("hf_trace:before_raw", before),
		cb.Create().After("gorm:create").Register("hf_trace:after_create", after),
		cb.Query().After("gorm:query").Register("hf_trace:after_query", after),
		cb.Update().After("gorm:update").Register("hf_trace:after_update", after),
		cb.Delete().After("gorm:delete").Register("hf_trace:after_delete", after),
		cb.Row().After("gorm:row").Register("hf_trace:after_row", after),
		cb.Raw().After("gorm:raw").Register("hf_trace:after_raw", after),
	} {
		if err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Duration("slow_threshold", cfg.SlowThreshold),
	)
	return nil
}

func annotateQuerySpan(tx *gorm.DB, slow time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))

	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		RecordError(span, tx.Error)
	}

	start, ok := ctx.Value(queryStartKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > slow {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
