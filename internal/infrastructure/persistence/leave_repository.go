package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/models"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormLeaveRepository implements hr.LeaveRepository using GORM
type GormLeaveRepository struct {
	db *gorm.DB
}

// NewGormLeaveRepository creates a new GormLeaveRepository
func NewGormLeaveRepository(db *gorm.DB) *GormLeaveRepository {
	return &GormLeaveRepository{db: db}
}

// Create inserts a leave request
func (r *GormLeaveRepository) Create(ctx context.Context, l *hr.LeaveRequest) error {
	return translateError(r.db.WithContext(ctx).Create(models.LeaveRequestModelFromDomain(l)).Error)
}

// Update saves a leave request
func (r *GormLeaveRepository) Update(ctx context.Context, l *hr.LeaveRequest) error {
	return updateOwned(ctx, r.db, models.LeaveRequestModelFromDomain(l), l.TenantID, l.ID)
}

// FindByID finds a leave request of the tenant
func (r *GormLeaveRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	var model models.LeaveRequestModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists leave requests with filters and pagination
func (r *GormLeaveRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter hr.LeaveFilter) ([]*hr.LeaveRequest, int64, error) {
	var rows []*models.LeaveRequestModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LeaveRequestModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(reason) LIKE ?", likePattern(filter.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(query, filter.Filter, leaveSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*hr.LeaveRequest, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, total, nil
}

var _ hr.LeaveRepository = (*GormLeaveRepository)(nil)
