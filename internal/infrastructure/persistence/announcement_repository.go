package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/models"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormAnnouncementRepository implements hr.AnnouncementRepository using GORM
type GormAnnouncementRepository struct {
	db *gorm.DB
}

// NewGormAnnouncementRepository creates a new GormAnnouncementRepository
func NewGormAnnouncementRepository(db *gorm.DB) *GormAnnouncementRepository {
	return &GormAnnouncementRepository{db: db}
}

// Create inserts an announcement
func (r *GormAnnouncementRepository) Create(ctx context.Context, a *hr.Announcement) error {
	return translateError(r.db.WithContext(ctx).Create(models.AnnouncementModelFromDomain(a)).Error)
}

// Update saves an announcement
func (r *GormAnnouncementRepository) Update(ctx context.Context, a *hr.Announcement) error {
	return updateOwned(ctx, r.db, models.AnnouncementModelFromDomain(a), a.TenantID, a.ID)
}

// Delete removes an announcement
func (r *GormAnnouncementRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteOwned(ctx, r.db, &models.AnnouncementModel{}, tenantID, id)
}

// FindByID finds an announcement of the tenant
func (r *GormAnnouncementRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.Announcement, error) {
	var model models.AnnouncementModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists pinned announcements first, then by the requested order
func (r *GormAnnouncementRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, category *hr.AnnouncementCategory) ([]*hr.Announcement, int64, error) {
	var rows []*models.AnnouncementModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AnnouncementModel{}).Scopes(tenant.Scope(tenantID))
	if category != nil {
		query = query.Where("category = ?", *category)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", p, p)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("is_pinned DESC")
	if err := paginate(query, filter, announcementSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*hr.Announcement, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, total, nil
}

var _ hr.AnnouncementRepository = (*GormAnnouncementRepository)(nil)
