package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// (tenant_id, invoice_number) is unique.
type InvoiceModel struct {
	TenantAggregateModel
	ClientID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	InvoiceNumber string                `gorm:"type:varchar(50);not null"`
	Amount        decimal.Decimal       `gorm:"type:decimal(14,2);not null"`
	DueDate       *time.Time            `gorm:"type:date;index"`
	Status        finance.InvoiceStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	inv := &finance.Invoice{
		ClientID:      m.ClientID,
		InvoiceNumber: m.InvoiceNumber,
		Amount:        m.Amount,
		DueDate:       m.DueDate,
		Status:        m.Status,
		PaidAt:        m.PaidAt,
	}
	inv.TenantAggregateRoot = m.TenantRoot()
	return inv
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		Status:        inv.Status,
		PaidAt:        inv.PaidAt,
	}
	if inv.DueDate != nil {
		d := CalendarDate(*inv.DueDate)
		m.DueDate = &d
	}
	m.SetTenantRoot(inv.TenantAggregateRoot)
	return m
}

// FinancialRecordModel is the persistence model for a FinancialRecord.
type FinancialRecordModel struct {
	TenantAggregateModel
	RecordType  finance.RecordType `gorm:"type:varchar(20);not null;index"`
	Amount      decimal.Decimal    `gorm:"type:decimal(14,2);not null"`
	Description string             `gorm:"type:varchar(500)"`
	RecordDate  time.Time          `gorm:"type:date;not null;index"`
	InvoiceID   *uuid.UUID         `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (FinancialRecordModel) TableName() string {
	return "financial_records"
}

// ToDomain converts the persistence model to a domain FinancialRecord.
func (m *FinancialRecordModel) ToDomain() *finance.FinancialRecord {
	r := &finance.FinancialRecord{
		RecordType:  m.RecordType,
		Amount:      m.Amount,
		Description: m.Description,
		RecordDate:  m.RecordDate,
		InvoiceID:   m.InvoiceID,
	}
	r.TenantAggregateRoot = m.TenantRoot()
	return r
}

// FinancialRecordModelFromDomain creates a persistence model from a domain FinancialRecord.
func FinancialRecordModelFromDomain(r *finance.FinancialRecord) *FinancialRecordModel {
	m := &FinancialRecordModel{
		RecordType:  r.RecordType,
		Amount:      r.Amount,
		Description: r.Description,
		RecordDate:  CalendarDate(r.RecordDate),
		InvoiceID:   r.InvoiceID,
	}
	m.SetTenantRoot(r.TenantAggregateRoot)
	return m
}
