package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceService manages invoices
type InvoiceService struct {
	invoiceRepo finance.InvoiceRepository
	clientRepo  crm.ClientRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	clientRepo crm.ClientRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns invoices newest first
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) (*shared.Paginated[InvoiceDTO], error) {
	filter.Filter = filter.Filter.Normalize()
	invoices, total, err := s.invoiceRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]InvoiceDTO, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, ToInvoiceDTO(inv))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

var errInvoiceNumberTaken = shared.NewDomainError(shared.ErrDuplicate.Code, "Invoice number already exists")

// Create issues a pending invoice to an existing client
func (s *InvoiceService) Create(ctx context.Context, input CreateInvoiceInput) (*InvoiceDTO, error) {
	exists, err := s.clientRepo.Exists(ctx, input.TenantID, input.ClientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Client not found")
	}

	inv, err := finance.NewInvoice(input.TenantID, input.ClientID, input.InvoiceNumber, input.Amount, input.DueDate)
	if err != nil {
		return nil, err
	}
	taken, err := s.invoiceRepo.ExistsByNumber(ctx, input.TenantID, inv.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errInvoiceNumberTaken
	}
	if input.CreatedBy != uuid.Nil {
		inv.SetCreatedBy(input.CreatedBy)
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		// a concurrent create won the unique index after the check above
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errInvoiceNumberTaken
		}
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.publisher, inv); err != nil {
		s.logger.Warn("failed to publish invoice events", zap.String("invoice_id", inv.ID.String()), zap.Error(err))
	}

	s.logger.Info("invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("amount", inv.Amount.String()),
	)
	dto := ToInvoiceDTO(inv)
	return &dto, nil
}

// Get returns one invoice
func (s *InvoiceService) Get(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceDTO, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToInvoiceDTO(inv)
	return &dto, nil
}

// ChangeStatus moves an invoice to a new status. Paying books the income
// record through the InvoicePaid event.
func (s *InvoiceService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status finance.InvoiceStatus) (*InvoiceDTO, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	old := inv.Status
	if err := inv.ChangeStatus(status, s.now()); err != nil {
		return nil, err
	}
	if old == inv.Status {
		dto := ToInvoiceDTO(inv)
		return &dto, nil
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.publisher, inv); err != nil {
		s.logger.Error("failed to publish invoice status events",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("status", string(inv.Status)),
			zap.Error(err),
		)
	}

	s.logger.Info("invoice status changed",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("from", string(old)),
		zap.String("to", string(inv.Status)),
	)
	dto := ToInvoiceDTO(inv)
	return &dto, nil
}
