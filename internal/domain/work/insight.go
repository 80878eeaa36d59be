package work

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// Insight is AI-generated text attached to a task
type Insight struct {
	shared.BaseEntity
	TenantID uuid.UUID
	TaskID   uuid.UUID
	Content  string
	Source   string
}

// NewInsight creates an insight for a task
func NewInsight(tenantID, taskID uuid.UUID, content, source string) (*Insight, error) {
	if taskID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TASK_ID", "Task ID cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError("INVALID_INSIGHT", "Insight content cannot be empty")
	}
	if source == "" {
		source = "ai"
	}
	return &Insight{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		TaskID:     taskID,
		Content:    content,
		Source:     source,
	}, nil
}
