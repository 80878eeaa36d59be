package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/models"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormFinancialRecordRepository implements finance.RecordRepository using GORM
type GormFinancialRecordRepository struct {
	db *gorm.DB
}

// NewGormFinancialRecordRepository creates a new GormFinancialRecordRepository
func NewGormFinancialRecordRepository(db *gorm.DB) *GormFinancialRecordRepository {
	return &GormFinancialRecordRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GormFinancialRecordRepository) WithTx(tx *gorm.DB) *GormFinancialRecordRepository {
	return &GormFinancialRecordRepository{db: tx}
}

// Create inserts a financial record
func (r *GormFinancialRecordRepository) Create(ctx context.Context, rec *finance.FinancialRecord) error {
	return translateError(r.db.WithContext(ctx).Create(models.FinancialRecordModelFromDomain(rec)).Error)
}

// FindAll lists records, newest record date first
func (r *GormFinancialRecordRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter finance.RecordFilter) ([]*finance.FinancialRecord, int64, error) {
	var rows []*models.FinancialRecordModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FinancialRecordModel{}).Scopes(tenant.Scope(tenantID))
	if filter.RecordType != nil {
		query = query.Where("record_type = ?", *filter.RecordType)
	}
	if filter.Range != nil {
		query = query.Scopes(recordDateIn(*filter.Range))
	}
	if filter.Search != "" {
		query = query.Where("LOWER(description) LIKE ?", likePattern(filter.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(query, filter.Filter, recordSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return recordsToDomain(rows), total, nil
}

// FindBetween returns every record with record_date in the range
func (r *GormFinancialRecordRepository) FindBetween(ctx context.Context, tenantID uuid.UUID, dr shared.DateRange) ([]*finance.FinancialRecord, error) {
	var rows []*models.FinancialRecordModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), recordDateIn(dr)).
		Order("record_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return recordsToDomain(rows), nil
}

// ExistsForInvoice checks if an invoice already has a booked record
func (r *GormFinancialRecordRepository) ExistsForInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FinancialRecordModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("invoice_id = ?", invoiceID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func recordDateIn(dr shared.DateRange) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("record_date >= ? AND record_date <= ?", models.CalendarDate(dr.Start), models.CalendarDate(dr.End))
	}
}

func recordsToDomain(rows []*models.FinancialRecordModel) []*finance.FinancialRecord {
	out := make([]*finance.FinancialRecord, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out
}

var _ finance.RecordRepository = (*GormFinancialRecordRepository)(nil)
