package work

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

const AggregateTypeTask = "Task"

const (
	EventTypeTaskCreated       = "TaskCreated"
	EventTypeTaskStatusChanged = "TaskStatusChanged"
	EventTypeTaskCompleted     = "TaskCompleted"
)

// TaskCreatedEvent is published when a task is created
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	Title      string     `json:"title"`
	ClientID   *uuid.UUID `json:"client_id,omitempty"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
}

func NewTaskCreatedEvent(t *Task) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, AggregateTypeTask, t.ID, t.TenantID),
		Title:           t.Title,
		ClientID:        t.ClientID,
		AssignedTo:      t.AssignedTo,
	}
}

// TaskStatusChangedEvent is published on every status transition
type TaskStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus TaskStatus `json:"old_status"`
	NewStatus TaskStatus `json:"new_status"`
}

func NewTaskStatusChangedEvent(t *Task, old TaskStatus) *TaskStatusChangedEvent {
	return &TaskStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskStatusChanged, AggregateTypeTask, t.ID, t.TenantID),
		OldStatus:       old,
		NewStatus:       t.Status,
	}
}

// TaskCompletedEvent is published when a task reaches completed
type TaskCompletedEvent struct {
	shared.BaseDomainEvent
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	ActualHours *float64   `json:"actual_hours,omitempty"`
	CompletedAt time.Time  `json:"completed_at"`
}

func NewTaskCompletedEvent(t *Task) *TaskCompletedEvent {
	e := &TaskCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCompleted, AggregateTypeTask, t.ID, t.TenantID),
		AssignedTo:      t.AssignedTo,
		ActualHours:     t.ActualTime,
	}
	if t.EndTime != nil {
		e.CompletedAt = *t.EndTime
	}
	return e
}
