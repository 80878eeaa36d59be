package models

import (
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/crm"
)

// ClientModel is the persistence model for the Client aggregate.
type ClientModel struct {
	TenantAggregateModel
	Name        string `gorm:"type:varchar(100);not null;index"`
	Description string `gorm:"type:text"`
	ContactInfo string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client.
func (m *ClientModel) ToDomain() *crm.Client {
	c := &crm.Client{Name: m.Name, Description: m.Description, ContactInfo: m.ContactInfo}
	c.TenantAggregateRoot = m.TenantRoot()
	return c
}

// ClientModelFromDomain creates a persistence model from a domain Client.
func ClientModelFromDomain(c *crm.Client) *ClientModel {
	m := &ClientModel{Name: c.Name, Description: c.Description, ContactInfo: c.ContactInfo}
	m.SetTenantRoot(c.TenantAggregateRoot)
	return m
}

// BrandModel is the persistence model for the Brand aggregate.
type BrandModel struct {
	TenantAggregateModel
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Logo        string    `gorm:"type:varchar(500)"`
	Description string    `gorm:"type:text"`
	Website     string    `gorm:"type:varchar(255)"`
	Industry    string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ToDomain converts the persistence model to a domain Brand.
func (m *BrandModel) ToDomain() *crm.Brand {
	b := &crm.Brand{
		ClientID:    m.ClientID,
		Name:        m.Name,
		Logo:        m.Logo,
		Description: m.Description,
		Website:     m.Website,
		Industry:    m.Industry,
	}
	b.TenantAggregateRoot = m.TenantRoot()
	return b
}

// BrandModelFromDomain creates a persistence model from a domain Brand.
func BrandModelFromDomain(b *crm.Brand) *BrandModel {
	m := &BrandModel{
		ClientID:    b.ClientID,
		Name:        b.Name,
		Logo:        b.Logo,
		Description: b.Description,
		Website:     b.Website,
		Industry:    b.Industry,
	}
	m.SetTenantRoot(b.TenantAggregateRoot)
	return m
}

// CommunicationLogModel is the persistence model for a CommunicationLog entry.
type CommunicationLogModel struct {
	BaseModel
	TenantID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClientID *uuid.UUID `gorm:"type:uuid;index"`
	SenderID uuid.UUID  `gorm:"type:uuid;not null"`
	Channel  string     `gorm:"type:varchar(50);not null"`
	Message  string     `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (CommunicationLogModel) TableName() string {
	return "communication_logs"
}

// ToDomain converts the persistence model to a domain CommunicationLog.
func (m *CommunicationLogModel) ToDomain() *crm.CommunicationLog {
	return &crm.CommunicationLog{
		BaseEntity: m.Entity(),
		TenantID:   m.TenantID,
		ClientID:   m.ClientID,
		SenderID:   m.SenderID,
		Channel:    m.Channel,
		Message:    m.Message,
	}
}

// CommunicationLogModelFromDomain creates a persistence model from a domain CommunicationLog.
func CommunicationLogModelFromDomain(l *crm.CommunicationLog) *CommunicationLogModel {
	m := &CommunicationLogModel{
		TenantID: l.TenantID,
		ClientID: l.ClientID,
		SenderID: l.SenderID,
		Channel:  l.Channel,
		Message:  l.Message,
	}
	m.SetEntity(l.BaseEntity)
	return m
}
