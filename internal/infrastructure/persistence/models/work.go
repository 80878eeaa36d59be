package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/work"
)

// TaskModel is the persistence model for the Task aggregate.
type TaskModel struct {
	TenantAggregateModel
	Title         string          `gorm:"type:varchar(255);not null"`
	Description   string          `gorm:"type:text"`
	ClientID      *uuid.UUID      `gorm:"type:uuid;index"`
	BrandID       *uuid.UUID      `gorm:"type:uuid;index"`
	AssignedTo    *uuid.UUID      `gorm:"type:uuid;index"`
	Status        work.TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	EstimatedTime *float64
	ActualTime    *float64
	StartTime     *time.Time
	EndTime       *time.Time `gorm:"index"`
	DueDate       *time.Time
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task.
func (m *TaskModel) ToDomain() *work.Task {
	t := &work.Task{
		Title:         m.Title,
		Description:   m.Description,
		ClientID:      m.ClientID,
		BrandID:       m.BrandID,
		AssignedTo:    m.AssignedTo,
		Status:        m.Status,
		EstimatedTime: m.EstimatedTime,
		ActualTime:    m.ActualTime,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		DueDate:       m.DueDate,
	}
	t.TenantAggregateRoot = m.TenantRoot()
	return t
}

// TaskModelFromDomain creates a persistence model from a domain Task.
func TaskModelFromDomain(t *work.Task) *TaskModel {
	m := &TaskModel{
		Title:         t.Title,
		Description:   t.Description,
		ClientID:      t.ClientID,
		BrandID:       t.BrandID,
		AssignedTo:    t.AssignedTo,
		Status:        t.Status,
		EstimatedTime: t.EstimatedTime,
		ActualTime:    t.ActualTime,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		DueDate:       t.DueDate,
	}
	m.SetTenantRoot(t.TenantAggregateRoot)
	return m
}

// InsightModel is the persistence model for a task Insight.
type InsightModel struct {
	BaseModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	TaskID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Content  string    `gorm:"type:text;not null"`
	Source   string    `gorm:"type:varchar(50);not null;default:'ai'"`
}

// TableName returns the table name for GORM
func (InsightModel) TableName() string {
	return "insights"
}

// ToDomain converts the persistence model to a domain Insight.
func (m *InsightModel) ToDomain() *work.Insight {
	return &work.Insight{
		BaseEntity: m.Entity(),
		TenantID:   m.TenantID,
		TaskID:     m.TaskID,
		Content:    m.Content,
		Source:     m.Source,
	}
}

// InsightModelFromDomain creates a persistence model from a domain Insight.
func InsightModelFromDomain(i *work.Insight) *InsightModel {
	m := &InsightModel{TenantID: i.TenantID, TaskID: i.TaskID, Content: i.Content, Source: i.Source}
	m.SetEntity(i.BaseEntity)
	return m
}
