package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/models"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormRoleRepository implements identity.RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GormRoleRepository) WithTx(tx *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: tx}
}

// Create inserts a role
func (r *GormRoleRepository) Create(ctx context.Context, role *identity.Role) error {
	return translateError(r.db.WithContext(ctx).Create(models.RoleModelFromDomain(role)).Error)
}

// CreateBatch inserts several roles in one statement
func (r *GormRoleRepository) CreateBatch(ctx context.Context, roles []*identity.Role) error {
	if len(roles) == 0 {
		return nil
	}
	rows := make([]*models.RoleModel, len(roles))
	for i, role := range roles {
		rows[i] = models.RoleModelFromDomain(role)
	}
	return translateError(r.db.WithContext(ctx).Create(&rows).Error)
}

// Update saves a role
func (r *GormRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	return updateOwned(ctx, r.db, models.RoleModelFromDomain(role), role.TenantID, role.ID)
}

// FindByID finds a role of the tenant
func (r *GormRoleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a role of the tenant by name
func (r *GormRoleRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("name = ?", strings.ToLower(name)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists the tenant's roles by name
func (r *GormRoleRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]*identity.Role, error) {
	var rows []*models.RoleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	roles := make([]*identity.Role, len(rows))
	for i, m := range rows {
		roles[i] = m.ToDomain()
	}
	return roles, nil
}

// ExistsByName checks if a role name is taken in the tenant
func (r *GormRoleRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RoleModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("name = ?", strings.ToLower(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ identity.RoleRepository = (*GormRoleRepository)(nil)
