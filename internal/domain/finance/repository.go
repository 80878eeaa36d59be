package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	Status   *InvoiceStatus
	ClientID *uuid.UUID
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	Update(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]*Invoice, int64, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
	CountByClient(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error)
	// FindCreatedBetween returns invoices created in [from, to).
	FindCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*Invoice, error)
	// FindPendingDueBefore returns pending invoices of every tenant due before day.
	FindPendingDueBefore(ctx context.Context, day time.Time, limit int) ([]*Invoice, error)
}

// RecordFilter narrows financial record listings
type RecordFilter struct {
	shared.Filter
	RecordType *RecordType
	Range      *shared.DateRange
}

// RecordRepository persists financial records
type RecordRepository interface {
	Create(ctx context.Context, rec *FinancialRecord) error
	FindAll(ctx context.Context, tenantID uuid.UUID, filter RecordFilter) ([]*FinancialRecord, int64, error)
	// FindBetween returns every record with record_date in r.
	FindBetween(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) ([]*FinancialRecord, error)
	ExistsForInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (bool, error)
}
