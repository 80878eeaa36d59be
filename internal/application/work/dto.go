package work

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/work"
)

// TaskDTO is the API view of a task
type TaskDTO struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	ClientID      *uuid.UUID `json:"client_id,omitempty"`
	BrandID       *uuid.UUID `json:"brand_id,omitempty"`
	AssignedTo    *uuid.UUID `json:"assigned_to,omitempty"`
	Status        string     `json:"status"`
	EstimatedTime *float64   `json:"estimated_time,omitempty"`
	ActualTime    *float64   `json:"actual_time,omitempty"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToTaskDTO converts a domain task
func ToTaskDTO(t *work.Task) TaskDTO {
	return TaskDTO{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		ClientID:      t.ClientID,
		BrandID:       t.BrandID,
		AssignedTo:    t.AssignedTo,
		Status:        string(t.Status),
		EstimatedTime: t.EstimatedTime,
		ActualTime:    t.ActualTime,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		DueDate:       t.DueDate,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTaskDTOs(tasks []*work.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskDTO(t))
	}
	return out
}

// CreateTaskInput contains input for creating a task
type CreateTaskInput struct {
	TenantID      uuid.UUID
	CreatedBy     uuid.UUID
	Title         string
	Description   string
	ClientID      *uuid.UUID
	BrandID       *uuid.UUID
	AssignedTo    *uuid.UUID
	EstimatedTime *float64
	DueDate       *time.Time
}

// UpdateTaskInput applies only the non-nil fields
type UpdateTaskInput struct {
	TenantID      uuid.UUID
	ID            uuid.UUID
	Title         *string
	Description   *string
	ClientID      *uuid.UUID
	BrandID       *uuid.UUID
	AssignedTo    *uuid.UUID
	EstimatedTime *float64
	DueDate       *time.Time
	Status        *work.TaskStatus
}

// InsightDTO is the API view of a stored insight
type InsightDTO struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// ToInsightDTO converts a domain insight
func ToInsightDTO(i *work.Insight) InsightDTO {
	return InsightDTO{ID: i.ID, TaskID: i.TaskID, Content: i.Content, Source: i.Source, CreatedAt: i.CreatedAt}
}

// PredictTimelineInput asks for an estimate, optionally stored on a task
type PredictTimelineInput struct {
	TenantID        uuid.UUID
	TaskID          *uuid.UUID
	TaskDescription string
	HistoricalData  []assistant.HistoryEntry
}

// TimelinePrediction is the estimate plus the insight it was stored as
type TimelinePrediction struct {
	assistant.TaskTimeline
	InsightID *uuid.UUID `json:"insight_id,omitempty"`
}
