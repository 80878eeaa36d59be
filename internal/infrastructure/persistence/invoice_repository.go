package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/models"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GormInvoiceRepository) WithTx(tx *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: tx}
}

// Create inserts an invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *finance.Invoice) error {
	return translateError(r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(inv)).Error)
}

// Update saves an invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, inv *finance.Invoice) error {
	return updateOwned(ctx, r.db, models.InvoiceModelFromDomain(inv), inv.TenantID, inv.ID)
}

// FindByID finds an invoice of the tenant
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices newest first with filters and pagination
func (r *GormInvoiceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) ([]*finance.Invoice, int64, error) {
	var rows []*models.InvoiceModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(invoice_number) LIKE ?", likePattern(filter.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(query, filter.Filter, invoiceSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return invoicesToDomain(rows), total, nil
}

// ExistsByNumber checks if an invoice number is taken in the tenant
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("invoice_number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByClient counts a client's invoices
func (r *GormInvoiceRepository) CountByClient(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count, err
}

// FindCreatedBetween returns invoices created in [from, to)
func (r *GormInvoiceRepository) FindCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*finance.Invoice, error) {
	var rows []*models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(rows), nil
}

// FindPendingDueBefore returns pending invoices of every tenant due before day.
// It is the only cross-tenant query and serves the overdue sweep.
func (r *GormInvoiceRepository) FindPendingDueBefore(ctx context.Context, day time.Time, limit int) ([]*finance.Invoice, error) {
	var rows []*models.InvoiceModel
	query := r.db.WithContext(ctx).
		Where("status = ?", finance.InvoiceStatusPending).
		Where("due_date IS NOT NULL AND due_date < ?", models.CalendarDate(day)).
		Order("due_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(rows), nil
}

func invoicesToDomain(rows []*models.InvoiceModel) []*finance.Invoice {
	out := make([]*finance.Invoice, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
