package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/work"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/models"
	"github.com/hyperflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormTaskRepository implements work.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a task
func (r *GormTaskRepository) Create(ctx context.Context, t *work.Task) error {
	return translateError(r.db.WithContext(ctx).Create(models.TaskModelFromDomain(t)).Error)
}

// Update saves a task
func (r *GormTaskRepository) Update(ctx context.Context, t *work.Task) error {
	return updateOwned(ctx, r.db, models.TaskModelFromDomain(t), t.TenantID, t.ID)
}

// Delete removes a task and its insights
func (r *GormTaskRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenant.Scope(tenantID)).
			Where("task_id = ?", id).
			Delete(&models.InsightModel{}).Error; err != nil {
			return err
		}
		return deleteOwned(ctx, tx, &models.TaskModel{}, tenantID, id)
	})
}

// FindByID finds a task of the tenant
func (r *GormTaskRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*work.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Owned(tenantID, id)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists tasks with filters and pagination
func (r *GormTaskRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter work.TaskFilter) ([]*work.Task, int64, error) {
	var rows []*models.TaskModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.TaskModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", likePattern(filter.Search))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(query, filter.Filter, taskSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return tasksToDomain(rows), total, nil
}

// FindCreatedBetween returns tasks created in [from, to)
func (r *GormTaskRepository) FindCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time, clientID, assignedTo *uuid.UUID) ([]*work.Task, error) {
	var rows []*models.TaskModel
	query := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("created_at >= ? AND created_at < ?", from, to)
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if assignedTo != nil {
		query = query.Where("assigned_to = ?", *assignedTo)
	}
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return tasksToDomain(rows), nil
}

// FindCompletedBetween returns completed tasks whose end time lies in [from, to)
func (r *GormTaskRepository) FindCompletedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*work.Task, error) {
	var rows []*models.TaskModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("status = ?", work.TaskStatusCompleted).
		Where("end_time >= ? AND end_time < ?", from, to).
		Order("end_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return tasksToDomain(rows), nil
}

func tasksToDomain(rows []*models.TaskModel) []*work.Task {
	tasks := make([]*work.Task, len(rows))
	for i, m := range rows {
		tasks[i] = m.ToDomain()
	}
	return tasks
}

var _ work.TaskRepository = (*GormTaskRepository)(nil)

// GormInsightRepository implements work.InsightRepository using GORM
type GormInsightRepository struct {
	db *gorm.DB
}

// NewGormInsightRepository creates a new GormInsightRepository
func NewGormInsightRepository(db *gorm.DB) *GormInsightRepository {
	return &GormInsightRepository{db: db}
}

// Create inserts an insight
func (r *GormInsightRepository) Create(ctx context.Context, i *work.Insight) error {
	return r.db.WithContext(ctx).Create(models.InsightModelFromDomain(i)).Error
}

// FindByTask lists a task's insights newest first
func (r *GormInsightRepository) FindByTask(ctx context.Context, tenantID, taskID uuid.UUID) ([]*work.Insight, error) {
	var rows []*models.InsightModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	insights := make([]*work.Insight, len(rows))
	for i, m := range rows {
		insights[i] = m.ToDomain()
	}
	return insights, nil
}

var _ work.InsightRepository = (*GormInsightRepository)(nil)
