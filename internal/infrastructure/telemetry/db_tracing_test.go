package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestInstrumentDB(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := NewTracerProviderWithExporter(exporter, zap.NewNop())
	defer func() { _ = tp.Shutdown(context.Background()) }()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))

	require.NoError(t, InstrumentDB(db, DBTracingConfig{DBSystem: "sqlite"}, zap.NewNop()))

	ctx, span := StartServiceSpan(context.Background(), "test", "insert")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "acme"}).Error)
	span.End()

	var found bool
	for _, s := range exporter.GetSpans() {
		for _, attr := range s.Attributes {
			if attr == attribute.String("db.sql.table", "traced_rows") {
				found = true
			}
		}
	}
	assert.True(t, found, "query span should carry the table name")
}
