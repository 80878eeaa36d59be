package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RecordType is income or expense
type RecordType string

const (
	RecordTypeIncome  RecordType = "income"
	RecordTypeExpense RecordType = "expense"
)

func (t RecordType) IsValid() bool {
	return t == RecordTypeIncome || t == RecordTypeExpense
}

// FinancialRecord is a single ledger line
type FinancialRecord struct {
	shared.TenantAggregateRoot
	RecordType  RecordType
	Amount      decimal.Decimal
	Description string
	RecordDate  time.Time
	InvoiceID   *uuid.UUID
}

// NewFinancialRecord creates a ledger line dated on the calendar day of recordDate
func NewFinancialRecord(tenantID uuid.UUID, recordType RecordType, amount decimal.Decimal, description string, recordDate time.Time) (*FinancialRecord, error) {
	if !recordType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECORD_TYPE", "Record type must be income or expense")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if recordDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_RECORD_DATE", "Record date is required")
	}
	return &FinancialRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RecordType:          recordType,
		Amount:              amount.Round(2),
		Description:         strings.TrimSpace(description),
		RecordDate:          shared.DateOnly(recordDate),
	}, nil
}

// NewIncomeFromInvoice books the income line of a paid invoice
func NewIncomeFromInvoice(inv *Invoice, paidAt time.Time) (*FinancialRecord, error) {
	rec, err := NewFinancialRecord(inv.TenantID, RecordTypeIncome, inv.Amount, "Payment for invoice "+inv.InvoiceNumber, paidAt)
	if err != nil {
		return nil, err
	}
	id := inv.ID
	rec.InvoiceID = &id
	return rec, nil
}
