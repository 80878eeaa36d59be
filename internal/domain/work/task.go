package work

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// AllTaskStatuses lists the statuses in display order
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled}
}

// IsValid reports whether s is a known status
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// IsTerminal is true for completed and cancelled
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Task is a unit of client work assigned to an employee
type Task struct {
	shared.TenantAggregateRoot
	Title         string
	Description   string
	ClientID      *uuid.UUID
	BrandID       *uuid.UUID
	AssignedTo    *uuid.UUID
	Status        TaskStatus
	EstimatedTime *float64
	ActualTime    *float64
	StartTime     *time.Time
	EndTime       *time.Time
	DueDate       *time.Time
}

// TaskFields holds the editable fields of a task
type TaskFields struct {
	Title         string
	Description   string
	ClientID      *uuid.UUID
	BrandID       *uuid.UUID
	AssignedTo    *uuid.UUID
	EstimatedTime *float64
	DueDate       *time.Time
}

// NewTask creates a pending task
func NewTask(tenantID uuid.UUID, f TaskFields) (*Task, error) {
	t := &Task{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              TaskStatusPending,
	}
	if err := t.apply(f); err != nil {
		return nil, err
	}
	t.Record(NewTaskCreatedEvent(t))
	return t, nil
}

// Update replaces the editable fields
func (t *Task) Update(f TaskFields) error {
	if err := t.apply(f); err != nil {
		return err
	}
	t.IncrementVersion()
	return nil
}

func (t *Task) apply(f TaskFields) error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TASK_TITLE", "Task title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_TASK_TITLE", "Task title cannot exceed 255 characters")
	}
	if f.EstimatedTime != nil && *f.EstimatedTime < 0 {
		return shared.NewDomainError("INVALID_ESTIMATED_TIME", "Estimated time cannot be negative")
	}
	t.Title = title
	t.Description = f.Description
	t.ClientID = f.ClientID
	t.BrandID = f.BrandID
	t.AssignedTo = f.AssignedTo
	t.EstimatedTime = f.EstimatedTime
	t.DueDate = f.DueDate
	return nil
}

// ChangeStatus moves the task to status, stamping start and end times.
// Completing a started task records the elapsed hours rounded to two decimals.
func (t *Task) ChangeStatus(status TaskStatus, now time.Time) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_TASK_STATUS", "Unknown task status: "+string(status))
	}
	if status == t.Status {
		return nil
	}
	if status == TaskStatusPending && t.Status.IsTerminal() {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "A "+string(t.Status)+" task cannot be moved back to pending")
	}

	old := t.Status
	t.Status = status
	switch status {
	case TaskStatusInProgress:
		if t.StartTime == nil {
			t.StartTime = &now
		}
	case TaskStatusCompleted:
		if t.EndTime == nil {
			t.EndTime = &now
		}
		if t.StartTime != nil {
			hours := roundTo(t.EndTime.Sub(*t.StartTime).Hours(), 2)
			t.ActualTime = &hours
		}
	}
	t.IncrementVersion()

	t.Record(NewTaskStatusChangedEvent(t, old))
	if status == TaskStatusCompleted {
		t.Record(NewTaskCompletedEvent(t))
	}
	return nil
}

// IsAssignedTo reports whether userID is the assignee
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// Efficiency returns estimated/actual when both are positive
func (t *Task) Efficiency() (float64, bool) {
	if t.EstimatedTime == nil || t.ActualTime == nil || *t.EstimatedTime <= 0 || *t.ActualTime <= 0 {
		return 0, false
	}
	return *t.EstimatedTime / *t.ActualTime, true
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
