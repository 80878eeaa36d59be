package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with every table migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// seedTenant stores a tenant with its builtin roles and returns both
func seedTenant(t *testing.T, db *gorm.DB, code string) (*identity.Tenant, []*identity.Role) {
	t.Helper()
	ctx := context.Background()

	tn, err := identity.NewTenant("Agency "+code, code)
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db).Create(ctx, tn))

	roles := identity.NewBuiltinRoles(tn.ID)
	require.NoError(t, NewGormRoleRepository(db).CreateBatch(ctx, roles))
	return tn, roles
}

func seedUser(t *testing.T, db *gorm.DB, tenantID, roleID uuid.UUID, name, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(tenantID, name, email, "s3cret-pass", roleID)
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
