package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoicePaidHandler handles InvoicePaidEvent
// and books the income record of the paid invoice
type InvoicePaidHandler struct {
	recordRepo finance.RecordRepository
	logger     *zap.Logger
}

// NewInvoicePaidHandler creates a new handler for invoice paid events
func NewInvoicePaidHandler(recordRepo finance.RecordRepository, logger *zap.Logger) *InvoicePaidHandler {
	return &InvoicePaidHandler{recordRepo: recordRepo, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoicePaidHandler) EventTypes() []string {
	return []string{finance.EventTypeInvoicePaid}
}

// Handle books one income record per invoice
func (h *InvoicePaidHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	paid, ok := event.(*finance.InvoicePaidEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", finance.EventTypeInvoicePaid),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			finance.EventTypeInvoicePaid, event.EventType())
	}

	invoiceID := paid.AggregateID()
	exists, err := h.recordRepo.ExistsForInvoice(ctx, paid.TenantID(), invoiceID)
	if err != nil {
		return fmt.Errorf("failed to check existing income record: %w", err)
	}
	if exists {
		h.logger.Warn("income already booked for invoice, skipping",
			zap.String("invoice_id", invoiceID.String()),
			zap.String("invoice_number", paid.InvoiceNumber),
		)
		return nil
	}

	paidAt := paid.PaidAt
	if paidAt.IsZero() {
		paidAt = paid.OccurredAt()
	}
	inv := &finance.Invoice{InvoiceNumber: paid.InvoiceNumber, Amount: paid.Amount}
	inv.ID = invoiceID
	inv.TenantID = paid.TenantID()

	rec, err := finance.NewIncomeFromInvoice(inv, paidAt)
	if err != nil {
		return fmt.Errorf("failed to build income record: %w", err)
	}
	if err := h.recordRepo.Create(ctx, rec); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		h.logger.Error("failed to save income record",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save income record: %w", err)
	}

	h.logger.Info("income booked for paid invoice",
		zap.String("record_id", rec.ID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.String("invoice_number", paid.InvoiceNumber),
		zap.String("amount", rec.Amount.String()),
	)
	return nil
}
