package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/infrastructure/auth"
	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/hyperflow/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseFixtureDemo(t *testing.T) {
	f, err := LoadFixture("")
	require.NoError(t, err)

	assert.Equal(t, "northwind", f.Tenant.Code)
	assert.Len(t, f.Users, 5)
	assert.Len(t, f.Clients, 2)
	assert.Equal(t, "Acme Trail", f.Clients[0].Tasks[0].Brand)
	require.NotNil(t, f.Clients[0].Tasks[0].EstimatedHours)
	assert.InDelta(t, 12.0, *f.Clients[0].Tasks[0].EstimatedHours, 0.001)
	assert.Nil(t, f.Clients[1].Tasks[1].DueInDays)
	assert.Contains(t, f.Announcements[0].Content, "**HyperFlow**")
}

func TestParseFixtureRejects(t *testing.T) {
	base := `
tenant: {name: Test, code: test}
admin: {name: A, email: a@test.example, password: secret-pass}
`
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing tenant", "admin: {email: a@b.c, password: x}\n", "tenant name and code"},
		{"missing admin", "tenant: {name: T, code: t}\n", "admin email"},
		{"unknown key", base + "projects: []\n", "decode fixture"},
		{"duplicate user", base + "users:\n  - {name: B, email: A@test.example, password: x}\n", "duplicate user email"},
		{"bad rate", base + "users:\n  - {name: B, email: b@test.example, password: x, hourly_rate: lots}\n", "invalid hourly_rate"},
		{"unknown brand", base + "clients:\n  - name: C\n    tasks:\n      - {title: T, brand: Nope}\n", "brand \"Nope\""},
		{"unknown assignee", base + "clients:\n  - name: C\n    tasks:\n      - {title: T, assignee: x@test.example}\n", "unknown assignee"},
		{"bad invoice amount", base + "clients:\n  - name: C\n    invoices:\n      - {number: I-1, amount: abc}\n", "invalid amount"},
		{"bad record amount", base + "records:\n  - {type: income, amount: '', description: R}\n", "invalid amount"},
		{"leave without days", base + "leave_requests:\n  - {employee: a@test.example, type: sick, days: 0}\n", "days must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func newTestSeeder(t *testing.T) (*Seeder, *persistence.Database) {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "seed.db"),
	}, zap.NewNop(), "error")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())

	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:                 "seed-test-secret-seed-test-secret",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 2 * time.Hour,
		Issuer:                 "hyperflow-test",
		MaxRefreshCount:        3,
	})
	return NewSeeder(newServices(db, jwt, zap.NewNop()), time.UTC, zap.NewNop()), db
}

func TestSeederRun(t *testing.T) {
	seeder, db := newTestSeeder(t)
	f, err := LoadFixture("")
	require.NoError(t, err)

	ctx := context.Background()
	sum, err := seeder.Run(ctx, f)
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Users)
	assert.Equal(t, 2, sum.Clients)
	assert.Equal(t, 3, sum.Brands)
	assert.Equal(t, 5, sum.Tasks)
	assert.Equal(t, 3, sum.Invoices)
	assert.Equal(t, 3, sum.Records)
	assert.Equal(t, 2, sum.Announcements)
	assert.Equal(t, 2, sum.LeaveRequests)

	invoices, total, err := persistence.NewGormInvoiceRepository(db.DB).FindAll(ctx, sum.TenantID, finance.InvoiceFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	for _, inv := range invoices {
		assert.Equal(t, finance.InvoiceStatusPending, inv.Status)
	}

	leaves, _, err := persistence.NewGormLeaveRepository(db.DB).FindAll(ctx, sum.TenantID, hr.LeaveFilter{})
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	for _, l := range leaves {
		assert.Equal(t, hr.LeaveStatusPending, l.Status)
	}

	_, err = seeder.Run(ctx, f)
	assert.ErrorIs(t, err, ErrAlreadySeeded)
}
