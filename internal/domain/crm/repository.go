package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// ClientRepository persists clients
type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Client, int64, error)
	Exists(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

// BrandRepository persists brands
type BrandRepository interface {
	Create(ctx context.Context, brand *Brand) error
	Update(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Brand, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]*Brand, error)
}

// CommunicationRepository persists communication logs
type CommunicationRepository interface {
	Create(ctx context.Context, log *CommunicationLog) error
	// FindByClient returns the client's logs newest first, at most limit rows when limit > 0.
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, limit int) ([]*CommunicationLog, error)
}
