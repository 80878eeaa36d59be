package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the collection state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice is a bill issued to a client
type Invoice struct {
	shared.TenantAggregateRoot
	ClientID      uuid.UUID
	InvoiceNumber string
	Amount        decimal.Decimal
	DueDate       *time.Time
	Status        InvoiceStatus
	PaidAt        *time.Time
}

// NewInvoice creates a pending invoice
func NewInvoice(tenantID, clientID uuid.UUID, number string, amount decimal.Decimal, dueDate *time.Time) (*Invoice, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT_ID", "Client ID cannot be empty")
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount must be positive")
	}
	if dueDate != nil {
		d := shared.DateOnly(*dueDate)
		dueDate = &d
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		InvoiceNumber:       number,
		Amount:              amount.Round(2),
		DueDate:             dueDate,
		Status:              InvoiceStatusPending,
	}
	inv.Record(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// ChangeStatus moves the invoice to status. Paid invoices are final.
func (i *Invoice) ChangeStatus(status InvoiceStatus, now time.Time) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_INVOICE_STATUS", "Unknown invoice status: "+string(status))
	}
	if status == i.Status {
		return nil
	}
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "A paid invoice cannot change status")
	}

	old := i.Status
	i.Status = status
	if status == InvoiceStatusPaid {
		i.PaidAt = &now
	}
	i.IncrementVersion()

	i.Record(NewInvoiceStatusChangedEvent(i, old))
	if status == InvoiceStatusPaid {
		i.Record(NewInvoicePaidEvent(i))
	}
	return nil
}

// IsPastDue reports whether a pending invoice's due date lies before the
// calendar day of now. The due date is a plain day, now is read in its own zone.
func (i *Invoice) IsPastDue(now time.Time) bool {
	if i.Status != InvoiceStatusPending || i.DueDate == nil {
		return false
	}
	return i.DueDate.Format(shared.DateLayout) < now.Format(shared.DateLayout)
}

// MarkOverdue flags a pending invoice whose due date passed
func (i *Invoice) MarkOverdue(now time.Time) (bool, error) {
	if !i.IsPastDue(now) {
		return false, nil
	}
	return true, i.ChangeStatus(InvoiceStatusOverdue, now)
}
