// Package tenant provides multi-tenant query scoping for GORM.
//
// Every repository query of a tenant-owned table goes through one of these
// scopes, so a missing tenant ID fails the query instead of silently reading
// across agencies.
//
// Usage:
//
//	r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&clients)
//	r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&client)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a tenant-scoped query has no tenant
var ErrTenantIDRequired = errors.New("tenant_id is required for tenant-scoped queries")

// Column is the tenant discriminator column of every tenant-owned table
const Column = "tenant_id"

// Scope filters a query to one tenant. A nil tenant ID poisons the query.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(Column+" = ?", tenantID)
	}
}

// Owned filters a query to a single row owned by the tenant.
func Owned(tenantID, id uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return Scope(tenantID)(db).Where("id = ?", id)
	}
}
