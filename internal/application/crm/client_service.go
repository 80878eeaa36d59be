package crm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var errClientNotFound = shared.NewDomainError(shared.ErrNotFound.Code, "Client not found")

// InvoiceCounter reports how many invoices reference a client
type InvoiceCounter interface {
	CountByClient(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error)
}

// ClientService manages clients
type ClientService struct {
	clientRepo crm.ClientRepository
	invoices   InvoiceCounter
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(clientRepo crm.ClientRepository, invoices InvoiceCounter, publisher shared.EventPublisher, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		invoices:   invoices,
		publisher:  publisher,
		logger:     logger,
	}
}

// List returns clients, searchable by name
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ClientDTO], error) {
	filter = filter.Normalize()
	clients, total, err := s.clientRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ClientDTO, 0, len(clients))
	for _, c := range clients {
		items = append(items, ToClientDTO(c))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Create creates a client
func (s *ClientService) Create(ctx context.Context, input CreateClientInput) (*ClientDTO, error) {
	client, err := crm.NewClient(input.TenantID, input.Name, input.Description, input.ContactInfo)
	if err != nil {
		return nil, err
	}
	if input.CreatedBy != uuid.Nil {
		client.SetCreatedBy(input.CreatedBy)
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		s.logger.Error("Failed to create client", zap.Error(err))
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.publisher, client); err != nil {
		s.logger.Warn("Failed to publish client events", zap.Error(err))
	}

	s.logger.Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.String("tenant_id", input.TenantID.String()),
	)
	dto := ToClientDTO(client)
	return &dto, nil
}

// Get returns one client
func (s *ClientService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ClientDTO, error) {
	client, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToClientDTO(client)
	return &dto, nil
}

// Update applies the provided fields
func (s *ClientService) Update(ctx context.Context, input UpdateClientInput) (*ClientDTO, error) {
	client, err := s.find(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if err := client.Update(input.ClientUpdate); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	dto := ToClientDTO(client)
	return &dto, nil
}

// Delete removes a client that has no invoices
func (s *ClientService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := s.invoices.CountByClient(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewDomainError("CLIENT_HAS_INVOICES", "Client has invoices and cannot be deleted")
	}
	if err := s.clientRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Client deleted", zap.String("client_id", id.String()))
	return nil
}

// Exists reports whether the client exists, as a not-found error otherwise
func (s *ClientService) Exists(ctx context.Context, tenantID, id uuid.UUID) error {
	ok, err := s.clientRepo.Exists(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !ok {
		return errClientNotFound
	}
	return nil
}

func (s *ClientService) find(ctx context.Context, tenantID, id uuid.UUID) (*crm.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errClientNotFound
		}
		return nil, err
	}
	return client, nil
}
