package work

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// TaskFilter narrows task listings
type TaskFilter struct {
	shared.Filter
	Status     *TaskStatus
	ClientID   *uuid.UUID
	AssignedTo *uuid.UUID
}

// NewTaskFilter creates a TaskFilter with default paging
func NewTaskFilter() TaskFilter {
	return TaskFilter{Filter: shared.DefaultFilter()}
}

// TaskRepository persists tasks
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter TaskFilter) ([]*Task, int64, error)
	// FindCreatedBetween returns tasks created in [from, to), optionally narrowed by client or assignee.
	FindCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time, clientID, assignedTo *uuid.UUID) ([]*Task, error)
	// FindCompletedBetween returns completed tasks whose end time lies in [from, to).
	FindCompletedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*Task, error)
}

// InsightRepository persists task insights
type InsightRepository interface {
	Create(ctx context.Context, insight *Insight) error
	FindByTask(ctx context.Context, tenantID, taskID uuid.UUID) ([]*Insight, error)
}
