package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
)

// ClientDTO is the API view of a client
type ClientDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ContactInfo string    `json:"contact_info,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToClientDTO converts a domain client
func ToClientDTO(c *crm.Client) ClientDTO {
	return ClientDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ContactInfo: c.ContactInfo,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateClientInput contains input for creating a client
type CreateClientInput struct {
	TenantID    uuid.UUID
	CreatedBy   uuid.UUID
	Name        string
	Description string
	ContactInfo string
}

// UpdateClientInput applies only the non-nil fields
type UpdateClientInput struct {
	TenantID uuid.UUID
	ID       uuid.UUID
	crm.ClientUpdate
}

// BrandDTO is the API view of a brand
type BrandDTO struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	Name        string    `json:"name"`
	Logo        string    `json:"logo,omitempty"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToBrandDTO converts a domain brand
func ToBrandDTO(b *crm.Brand) BrandDTO {
	return BrandDTO{
		ID:          b.ID,
		ClientID:    b.ClientID,
		Name:        b.Name,
		Logo:        b.Logo,
		Description: b.Description,
		Website:     b.Website,
		Industry:    b.Industry,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// CommunicationDTO is the API view of a communication log entry
type CommunicationDTO struct {
	ID        uuid.UUID  `json:"id"`
	ClientID  *uuid.UUID `json:"client_id,omitempty"`
	SenderID  uuid.UUID  `json:"sender_id"`
	Channel   string     `json:"channel"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToCommunicationDTO converts a domain log entry
func ToCommunicationDTO(l *crm.CommunicationLog) CommunicationDTO {
	return CommunicationDTO{
		ID:        l.ID,
		ClientID:  l.ClientID,
		SenderID:  l.SenderID,
		Channel:   l.Channel,
		Message:   l.Message,
		CreatedAt: l.CreatedAt,
	}
}

// Period is a resolved reporting window
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func periodOf(r shared.DateRange) Period {
	return Period{StartDate: r.Start.Format(shared.DateLayout), EndDate: r.End.Format(shared.DateLayout)}
}

// PerformanceReport is a client's task delivery report
type PerformanceReport struct {
	ClientID   uuid.UUID `json:"client_id"`
	ClientName string    `json:"client_name"`
	Period     Period    `json:"period"`
	work.PerformanceReport
}
