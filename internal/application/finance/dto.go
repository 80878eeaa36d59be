package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceDTO is the API view of an invoice
type InvoiceDTO struct {
	ID            uuid.UUID       `json:"id"`
	ClientID      uuid.UUID       `json:"client_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       *string         `json:"due_date,omitempty"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToInvoiceDTO converts a domain invoice
func ToInvoiceDTO(inv *finance.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		Status:        string(inv.Status),
		PaidAt:        inv.PaidAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if inv.DueDate != nil {
		d := inv.DueDate.Format(shared.DateLayout)
		dto.DueDate = &d
	}
	return dto
}

// CreateInvoiceInput contains input for issuing an invoice
type CreateInvoiceInput struct {
	TenantID      uuid.UUID
	CreatedBy     uuid.UUID
	ClientID      uuid.UUID
	InvoiceNumber string
	Amount        decimal.Decimal
	DueDate       *time.Time
}

// RecordDTO is the API view of a financial record
type RecordDTO struct {
	ID          uuid.UUID       `json:"id"`
	RecordType  string          `json:"record_type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	RecordDate  string          `json:"record_date"`
	InvoiceID   *uuid.UUID      `json:"invoice_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToRecordDTO converts a domain record
func ToRecordDTO(r *finance.FinancialRecord) RecordDTO {
	return RecordDTO{
		ID:          r.ID,
		RecordType:  string(r.RecordType),
		Amount:      r.Amount,
		Description: r.Description,
		RecordDate:  r.RecordDate.Format(shared.DateLayout),
		InvoiceID:   r.InvoiceID,
		CreatedAt:   r.CreatedAt,
	}
}

// CreateRecordInput contains input for booking a ledger line
type CreateRecordInput struct {
	TenantID    uuid.UUID
	CreatedBy   uuid.UUID
	RecordType  finance.RecordType
	Amount      decimal.Decimal
	Description string
	RecordDate  time.Time
}

// Period is a resolved reporting window
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func periodOf(r shared.DateRange) Period {
	return Period{StartDate: r.Start.Format(shared.DateLayout), EndDate: r.End.Format(shared.DateLayout)}
}

// FinancialSummary is the profit and collection report of a window
type FinancialSummary struct {
	Period           Period                      `json:"period"`
	Summary          finance.ProfitSummary       `json:"summary"`
	Invoices         finance.InvoiceTotals       `json:"invoices"`
	MonthlyBreakdown []finance.MonthlyFigures    `json:"monthly_breakdown"`
	Analysis         assistant.FinancialAnalysis `json:"analysis"`
}

// CostReport is the team cost analysis of a window
type CostReport struct {
	Period Period `json:"period"`
	finance.CostAnalysis
}
