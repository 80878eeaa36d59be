package crm

import "github.com/hyperflow/backend/internal/domain/shared"

const AggregateTypeClient = "Client"

const EventTypeClientCreated = "ClientCreated"

// ClientCreatedEvent is published when a client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, c.ID, c.TenantID),
		Name:            c.Name,
	}
}
