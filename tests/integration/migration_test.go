package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_CreateSchema(t *testing.T) {
	tdb := NewTestDB(t)

	tables := tdb.TableNames()
	for _, want := range []string{
		"tenants", "roles", "users",
		"clients", "brands", "communication_logs",
		"tasks", "insights",
		"attendance", "leave_requests", "announcements",
		"invoices", "financial_records", "marketing_trends",
		"schema_migrations",
	} {
		assert.Contains(t, tables, want)
	}
}

func TestMigrations_DownAndUpAgain(t *testing.T) {
	tdb := NewTestDB(t)

	m := newMigrator(t, tdb.DSN)
	defer func() { _ = m.Close() }()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.EqualValues(t, 3, version)

	require.NoError(t, m.Steps(-1))
	assert.NotContains(t, tdb.TableNames(), "invoices")
	assert.Contains(t, tdb.TableNames(), "tasks")

	require.NoError(t, m.Down())
	assert.Equal(t, []string{"schema_migrations"}, tdb.TableNames())

	require.NoError(t, m.Up())
	assert.Contains(t, tdb.TableNames(), "invoices")
}
