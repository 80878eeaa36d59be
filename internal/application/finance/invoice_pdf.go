package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/printing"
	"github.com/hyperflow/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ErrPDFUnavailable is returned when invoice PDFs cannot be rendered
var ErrPDFUnavailable = shared.NewDomainError("PDF_UNAVAILABLE", "PDF rendering is not available")

// ObjectStore is the slice of object storage the application writes to
type ObjectStore interface {
	Key(parts ...string) string
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// InvoicePDF is a rendered invoice
type InvoicePDF struct {
	Filename   string
	Content    []byte
	StorageKey string
}

// InvoicePDFService renders invoices to PDF and archives them
type InvoicePDFService struct {
	invoiceRepo finance.InvoiceRepository
	clientRepo  crm.ClientRepository
	template    *printing.InvoiceTemplate
	renderer    printing.Renderer
	store       ObjectStore
	companyName string
	logger      *zap.Logger
}

// NewInvoicePDFService creates a new PDF service
func NewInvoicePDFService(
	invoiceRepo finance.InvoiceRepository,
	clientRepo crm.ClientRepository,
	template *printing.InvoiceTemplate,
	renderer printing.Renderer,
	store ObjectStore,
	companyName string,
	logger *zap.Logger,
) *InvoicePDFService {
	return &InvoicePDFService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		template:    template,
		renderer:    renderer,
		store:       store,
		companyName: companyName,
		logger:      logger,
	}
}

// Render produces the PDF of an invoice. Archiving is best effort: a failed
// upload leaves StorageKey empty.
func (s *InvoicePDFService) Render(ctx context.Context, tenantID, id uuid.UUID) (*InvoicePDF, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, tenantID, inv.ClientID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	doc := printing.InvoiceDocument{
		CompanyName:   s.companyName,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        string(inv.Status),
		Amount:        inv.Amount,
		IssuedAt:      inv.CreatedAt,
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,
	}
	if client != nil {
		doc.ClientName = client.Name
		doc.ClientContact = client.ContactInfo
		doc.Description = client.Description
	}

	html, err := s.template.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("render invoice html: %w", err)
	}
	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		if errors.Is(err, printing.ErrRendererDisabled) {
			return nil, ErrPDFUnavailable
		}
		s.logger.Error("failed to render invoice pdf", zap.String("invoice_id", inv.ID.String()), zap.Error(err))
		return nil, err
	}

	out := &InvoicePDF{
		Filename: fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber),
		Content:  pdf,
	}
	key := s.store.Key("invoices", tenantID.String(), out.Filename)
	switch err := s.store.Upload(ctx, key, pdf, "application/pdf"); {
	case err == nil:
		out.StorageKey = key
	case errors.Is(err, storage.ErrStorageDisabled):
	default:
		s.logger.Warn("failed to archive invoice pdf", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}
