package crm

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// Client is a customer account of the agency
type Client struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	ContactInfo string
}

// NewClient creates a new client
func NewClient(tenantID uuid.UUID, name, description, contactInfo string) (*Client, error) {
	c := &Client{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := c.apply(name, description, contactInfo); err != nil {
		return nil, err
	}
	c.Record(NewClientCreatedEvent(c))
	return c, nil
}

// ClientUpdate carries the optional fields of a partial update
type ClientUpdate struct {
	Name        *string
	Description *string
	ContactInfo *string
}

// Update applies only the provided fields
func (c *Client) Update(upd ClientUpdate) error {
	name, description, contact := c.Name, c.Description, c.ContactInfo
	if upd.Name != nil {
		name = *upd.Name
	}
	if upd.Description != nil {
		description = *upd.Description
	}
	if upd.ContactInfo != nil {
		contact = *upd.ContactInfo
	}
	if err := c.apply(name, description, contact); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *Client) apply(name, description, contactInfo string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot exceed 100 characters")
	}
	if len(contactInfo) > 255 {
		return shared.NewDomainError("INVALID_CONTACT_INFO", "Contact info cannot exceed 255 characters")
	}
	c.Name = name
	c.Description = description
	c.ContactInfo = strings.TrimSpace(contactInfo)
	return nil
}
