package crm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BrandService manages client brands and communication logs
type BrandService struct {
	clientRepo crm.ClientRepository
	brandRepo  crm.BrandRepository
	commRepo   crm.CommunicationRepository
	logger     *zap.Logger
}

// NewBrandService creates a new brand service
func NewBrandService(clientRepo crm.ClientRepository, brandRepo crm.BrandRepository, commRepo crm.CommunicationRepository, logger *zap.Logger) *BrandService {
	return &BrandService{
		clientRepo: clientRepo,
		brandRepo:  brandRepo,
		commRepo:   commRepo,
		logger:     logger,
	}
}

// ListBrands returns the brands of a client
func (s *BrandService) ListBrands(ctx context.Context, tenantID, clientID uuid.UUID) ([]BrandDTO, error) {
	if err := s.requireClient(ctx, tenantID, clientID); err != nil {
		return nil, err
	}
	brands, err := s.brandRepo.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]BrandDTO, 0, len(brands))
	for _, b := range brands {
		out = append(out, ToBrandDTO(b))
	}
	return out, nil
}

// CreateBrand adds a brand to a client
func (s *BrandService) CreateBrand(ctx context.Context, tenantID, clientID uuid.UUID, fields crm.BrandFields) (*BrandDTO, error) {
	if err := s.requireClient(ctx, tenantID, clientID); err != nil {
		return nil, err
	}
	brand, err := crm.NewBrand(tenantID, clientID, fields)
	if err != nil {
		return nil, err
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, err
	}
	s.logger.Info("Brand created",
		zap.String("brand_id", brand.ID.String()),
		zap.String("client_id", clientID.String()),
	)
	dto := ToBrandDTO(brand)
	return &dto, nil
}

// UpdateBrand replaces a brand's fields
func (s *BrandService) UpdateBrand(ctx context.Context, tenantID, id uuid.UUID, fields crm.BrandFields) (*BrandDTO, error) {
	brand, err := s.findBrand(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := brand.Update(fields); err != nil {
		return nil, err
	}
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, err
	}
	dto := ToBrandDTO(brand)
	return &dto, nil
}

// DeleteBrand removes a brand
func (s *BrandService) DeleteBrand(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findBrand(ctx, tenantID, id); err != nil {
		return err
	}
	return s.brandRepo.Delete(ctx, tenantID, id)
}

// ListCommunications returns a client's messages newest first
func (s *BrandService) ListCommunications(ctx context.Context, tenantID, clientID uuid.UUID, limit int) ([]CommunicationDTO, error) {
	if err := s.requireClient(ctx, tenantID, clientID); err != nil {
		return nil, err
	}
	logs, err := s.commRepo.FindByClient(ctx, tenantID, clientID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]CommunicationDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, ToCommunicationDTO(l))
	}
	return out, nil
}

// LogCommunication records a message sent by senderID to a client
func (s *BrandService) LogCommunication(ctx context.Context, tenantID, clientID, senderID uuid.UUID, channel, message string) (*CommunicationDTO, error) {
	if err := s.requireClient(ctx, tenantID, clientID); err != nil {
		return nil, err
	}
	entry, err := crm.NewCommunicationLog(tenantID, &clientID, senderID, channel, message)
	if err != nil {
		return nil, err
	}
	if err := s.commRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	dto := ToCommunicationDTO(entry)
	return &dto, nil
}

func (s *BrandService) requireClient(ctx context.Context, tenantID, clientID uuid.UUID) error {
	ok, err := s.clientRepo.Exists(ctx, tenantID, clientID)
	if err != nil {
		return err
	}
	if !ok {
		return errClientNotFound
	}
	return nil
}

func (s *BrandService) findBrand(ctx context.Context, tenantID, id uuid.UUID) (*crm.Brand, error) {
	brand, err := s.brandRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Brand not found")
		}
		return nil, err
	}
	return brand, nil
}
