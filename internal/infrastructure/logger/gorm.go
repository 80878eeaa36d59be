package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// QueryLogConfig controls what the database logger records
type QueryLogConfig struct {
	Level gormlogger.LogLevel
	// SlowThreshold of zero disables slow query warnings
	SlowThreshold time.Duration
	// MaxSQLLength truncates logged statements; zero keeps them whole
	MaxSQLLength int
}

// QueryLogger routes GORM output through zap. Statements carry the request,
// tenant and trace ids of the context they ran under, so a slow report query
// can be traced back to the dashboard call that issued it.
type QueryLogger struct {
	base *zap.Logger
	cfg  QueryLogConfig
}

// NewQueryLogger names the logger "db"
func NewQueryLogger(base *zap.Logger, cfg QueryLogConfig) *QueryLogger {
	return &QueryLogger{base: base.Named("db"), cfg: cfg}
}

func (l *QueryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cfg := l.cfg
	cfg.Level = level
	return &QueryLogger{base: l.base, cfg: cfg}
}

func (l *QueryLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Info {
		l.base.Sugar().Infof(msg, data...)
	}
}

func (l *QueryLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Warn {
		l.base.Sugar().Warnf(msg, data...)
	}
}

func (l *QueryLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Error {
		l.base.Sugar().Errorf(msg, data...)
	}
}

// Trace is called once per statement
func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	level := l.cfg.Level
	if level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	slow := l.cfg.SlowThreshold > 0 && elapsed >= l.cfg.SlowThreshold

	// not found is an expected outcome for lookups, the service layer maps it
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)

	switch {
	case failed && level >= gormlogger.Error:
	case slow && level >= gormlogger.Warn:
	case level >= gormlogger.Info:
	default:
		return
	}

	sql, rows := fc()
	fields := append(l.contextFields(ctx),
		zap.String("statement", statementKind(sql)),
		zap.String("sql", l.truncate(sql)),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	)

	switch {
	case failed && level >= gormlogger.Error:
		l.base.Error("query failed", append(fields, zap.Error(err))...)
	case slow && level >= gormlogger.Warn:
		l.base.Warn("slow query", append(fields, zap.Duration("threshold", l.cfg.SlowThreshold))...)
	default:
		l.base.Debug("query", fields...)
	}
}

func (l *QueryLogger) contextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 8)
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetTenantID(ctx); id != "" {
		fields = append(fields, zap.String("tenant_id", id))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	return fields
}

func (l *QueryLogger) truncate(sql string) string {
	if l.cfg.MaxSQLLength <= 0 || len(sql) <= l.cfg.MaxSQLLength {
		return sql
	}
	return sql[:l.cfg.MaxSQLLength] + "..."
}

// statementKind returns the leading SQL verb in lower case
func statementKind(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, " \t\n("); i > 0 {
		sql = sql[:i]
	}
	return strings.ToLower(sql)
}

// GormLevel maps the application log level. Debug logs every statement,
// error keeps failures only, anything else adds slow queries.
func GormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

var _ gormlogger.Interface = (*QueryLogger)(nil)
