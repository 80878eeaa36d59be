package crm

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// Brand is one of a client's brands the agency works on
type Brand struct {
	shared.TenantAggregateRoot
	ClientID    uuid.UUID
	Name        string
	Logo        string
	Description string
	Website     string
	Industry    string
}

// BrandFields holds the editable fields of a brand
type BrandFields struct {
	Name        string
	Logo        string
	Description string
	Website     string
	Industry    string
}

// NewBrand creates a brand for the given client
func NewBrand(tenantID, clientID uuid.UUID, f BrandFields) (*Brand, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT_ID", "Client ID cannot be empty")
	}
	b := &Brand{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
	}
	if err := b.apply(f); err != nil {
		return nil, err
	}
	return b, nil
}

// Update replaces the editable fields
func (b *Brand) Update(f BrandFields) error {
	if err := b.apply(f); err != nil {
		return err
	}
	b.IncrementVersion()
	return nil
}

func (b *Brand) apply(f BrandFields) error {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_BRAND_NAME", "Brand name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_BRAND_NAME", "Brand name cannot exceed 100 characters")
	}
	website := strings.TrimSpace(f.Website)
	if website != "" {
		u, err := url.Parse(website)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return shared.NewDomainError("INVALID_WEBSITE", "Website must be an absolute http(s) URL")
		}
	}
	if len(f.Industry) > 100 {
		return shared.NewDomainError("INVALID_INDUSTRY", "Industry cannot exceed 100 characters")
	}
	b.Name = name
	b.Logo = strings.TrimSpace(f.Logo)
	b.Description = f.Description
	b.Website = website
	b.Industry = strings.TrimSpace(f.Industry)
	return nil
}
