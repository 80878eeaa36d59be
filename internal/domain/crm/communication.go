package crm

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// CommunicationLog is one message exchanged with a client over some channel
type CommunicationLog struct {
	shared.BaseEntity
	TenantID uuid.UUID
	ClientID *uuid.UUID
	SenderID uuid.UUID
	Channel  string
	Message  string
}

// NewCommunicationLog records a message
func NewCommunicationLog(tenantID uuid.UUID, clientID *uuid.UUID, senderID uuid.UUID, channel, message string) (*CommunicationLog, error) {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel == "" {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Channel cannot be empty")
	}
	if len(channel) > 50 {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Channel cannot exceed 50 characters")
	}
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot be empty")
	}
	return &CommunicationLog{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ClientID:   clientID,
		SenderID:   senderID,
		Channel:    channel,
		Message:    message,
	}, nil
}
