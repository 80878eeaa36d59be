package persistence

import (
	"context"

	"github.com/hyperflow/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// IdentityTx runs tenant registration writes in one transaction
type IdentityTx struct {
	db *Database
}

// NewIdentityTx creates an IdentityTx
func NewIdentityTx(db *Database) *IdentityTx {
	return &IdentityTx{db: db}
}

// RunInTx hands fn repositories bound to a single transaction
func (t *IdentityTx) RunInTx(ctx context.Context, fn func(tenants identity.TenantRepository, roles identity.RoleRepository, users identity.UserRepository) error) error {
	return t.db.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(NewGormTenantRepository(tx), NewGormRoleRepository(tx), NewGormUserRepository(tx))
	})
}
