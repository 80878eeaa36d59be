package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/models"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormAttendanceRepository implements hr.AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Create inserts an attendance record; a second record for the same day is ErrAlreadyExists
func (r *GormAttendanceRepository) Create(ctx context.Context, a *hr.Attendance) error {
	return translateError(r.db.WithContext(ctx).Create(models.AttendanceModelFromDomain(a)).Error)
}

// Update saves an attendance record
func (r *GormAttendanceRepository) Update(ctx context.Context, a *hr.Attendance) error {
	return updateOwned(ctx, r.db, models.AttendanceModelFromDomain(a), a.TenantID, a.ID)
}

// FindByID finds an attendance record of the tenant
func (r *GormAttendanceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.Attendance, error) {
	var model models.AttendanceModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserAndDate finds the user's record for one calendar day
func (r *GormAttendanceRepository) FindByUserAndDate(ctx context.Context, tenantID, userID uuid.UUID, workDate time.Time) (*hr.Attendance, error) {
	var model models.AttendanceModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("user_id = ? AND work_date = ?", userID, models.CalendarDate(workDate)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserBetween lists the user's records in the range, newest first
func (r *GormAttendanceRepository) FindByUserBetween(ctx context.Context, tenantID, userID uuid.UUID, dr shared.DateRange) ([]*hr.Attendance, error) {
	var rows []*models.AttendanceModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), workDateIn(dr)).
		Where("user_id = ?", userID).
		Order("work_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return attendanceToDomain(rows), nil
}

// FindBetween lists every record of the tenant in the range by date
func (r *GormAttendanceRepository) FindBetween(ctx context.Context, tenantID uuid.UUID, dr shared.DateRange) ([]*hr.Attendance, error) {
	var rows []*models.AttendanceModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), workDateIn(dr)).
		Order("work_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return attendanceToDomain(rows), nil
}

func workDateIn(dr shared.DateRange) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("work_date >= ? AND work_date <= ?", models.CalendarDate(dr.Start), models.CalendarDate(dr.End))
	}
}

func attendanceToDomain(rows []*models.AttendanceModel) []*hr.Attendance {
	out := make([]*hr.Attendance, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out
}

var _ hr.AttendanceRepository = (*GormAttendanceRepository)(nil)
