package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/models"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormClientRepository implements crm.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Create inserts a client
func (r *GormClientRepository) Create(ctx context.Context, c *crm.Client) error {
	return translateError(r.db.WithContext(ctx).Create(models.ClientModelFromDomain(c)).Error)
}

// Update saves a client
func (r *GormClientRepository) Update(ctx context.Context, c *crm.Client) error {
	return updateOwned(ctx, r.db, models.ClientModelFromDomain(c), c.TenantID, c.ID)
}

// Delete removes a client and its brands
func (r *GormClientRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenant.Scope(tenantID)).
			Where("client_id = ?", id).
			Delete(&models.BrandModel{}).Error; err != nil {
			return err
		}
		return deleteOwned(ctx, tx, &models.ClientModel{}, tenantID, id)
	})
}

// FindByID finds a client of the tenant
func (r *GormClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists clients, searching by name
func (r *GormClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*crm.Client, int64, error) {
	var rows []*models.ClientModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ClientModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(query, filter, clientSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	clients := make([]*crm.Client, len(rows))
	for i, m := range rows {
		clients[i] = m.ToDomain()
	}
	return clients, total, nil
}

// Exists checks if the tenant owns a client with id
func (r *GormClientRepository) Exists(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ClientModel{}).
		Scopes(tenant.Owned(tenantID, id)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ crm.ClientRepository = (*GormClientRepository)(nil)

// GormBrandRepository implements crm.BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// Create inserts a brand
func (r *GormBrandRepository) Create(ctx context.Context, b *crm.Brand) error {
	return translateError(r.db.WithContext(ctx).Create(models.BrandModelFromDomain(b)).Error)
}

// Update saves a brand
func (r *GormBrandRepository) Update(ctx context.Context, b *crm.Brand) error {
	return updateOwned(ctx, r.db, models.BrandModelFromDomain(b), b.TenantID, b.ID)
}

// Delete removes a brand
func (r *GormBrandRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteOwned(ctx, r.db, &models.BrandModel{}, tenantID, id)
}

// FindByID finds a brand of the tenant
func (r *GormBrandRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Brand, error) {
	var model models.BrandModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByClient lists a client's brands by name
func (r *GormBrandRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]*crm.Brand, error) {
	var rows []*models.BrandModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("client_id = ?", clientID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	brands := make([]*crm.Brand, len(rows))
	for i, m := range rows {
		brands[i] = m.ToDomain()
	}
	return brands, nil
}

var _ crm.BrandRepository = (*GormBrandRepository)(nil)

// GormCommunicationRepository implements crm.CommunicationRepository using GORM
type GormCommunicationRepository struct {
	db *gorm.DB
}

// NewGormCommunicationRepository creates a new GormCommunicationRepository
func NewGormCommunicationRepository(db *gorm.DB) *GormCommunicationRepository {
	return &GormCommunicationRepository{db: db}
}

// Create inserts a communication log entry
func (r *GormCommunicationRepository) Create(ctx context.Context, l *crm.CommunicationLog) error {
	return r.db.WithContext(ctx).Create(models.CommunicationLogModelFromDomain(l)).Error
}

// FindByClient lists a client's log newest first
func (r *GormCommunicationRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, limit int) ([]*crm.CommunicationLog, error) {
	var rows []*models.CommunicationLogModel
	query := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("client_id = ?", clientID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	logs := make([]*crm.CommunicationLog, len(rows))
	for i, m := range rows {
		logs[i] = m.ToDomain()
	}
	return logs, nil
}

var _ crm.CommunicationRepository = (*GormCommunicationRepository)(nil)
