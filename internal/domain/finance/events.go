package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const AggregateTypeInvoice = "Invoice"

const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceStatusChanged = "InvoiceStatusChanged"
	EventTypeInvoicePaid          = "InvoicePaid"
)

// InvoiceCreatedEvent is published when an invoice is issued
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID      uuid.UUID       `json:"client_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
}

func NewInvoiceCreatedEvent(i *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, i.ID, i.TenantID),
		ClientID:        i.ClientID,
		InvoiceNumber:   i.InvoiceNumber,
		Amount:          i.Amount,
	}
}

// InvoiceStatusChangedEvent is published on every status change
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus InvoiceStatus `json:"old_status"`
	NewStatus InvoiceStatus `json:"new_status"`
}

func NewInvoiceStatusChangedEvent(i *Invoice, old InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, i.ID, i.TenantID),
		OldStatus:       old,
		NewStatus:       i.Status,
	}
}

// InvoicePaidEvent is published when an invoice is paid. It books the income record.
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAt        time.Time       `json:"paid_at"`
}

func NewInvoicePaidEvent(i *Invoice) *InvoicePaidEvent {
	e := &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, i.ID, i.TenantID),
		InvoiceNumber:   i.InvoiceNumber,
		Amount:          i.Amount,
	}
	if i.PaidAt != nil {
		e.PaidAt = *i.PaidAt
	}
	return e
}
