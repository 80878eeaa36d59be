package work

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
	"go.uber.org/zap"
)

// InsightSourceTimeline marks insights produced by timeline prediction
const InsightSourceTimeline = "timeline_prediction"

const (
	historyWindow = 90 * 24 * time.Hour
	historyLimit  = 10
)

var errTaskNotFound = shared.NewDomainError(shared.ErrNotFound.Code, "Task not found")

// TimelinePredictor estimates task effort
type TimelinePredictor interface {
	PredictTaskTimeline(ctx context.Context, req assistant.TimelineRequest) assistant.TaskTimeline
}

// TaskService manages tasks and their insights
type TaskService struct {
	taskRepo    work.TaskRepository
	insightRepo work.InsightRepository
	clientRepo  crm.ClientRepository
	brandRepo   crm.BrandRepository
	userRepo    identity.UserRepository
	predictor   TimelinePredictor
	publisher   shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// TaskDeps groups the repositories a TaskService needs
type TaskDeps struct {
	Tasks    work.TaskRepository
	Insights work.InsightRepository
	Clients  crm.ClientRepository
	Brands   crm.BrandRepository
	Users    identity.UserRepository
}

// NewTaskService creates a new task service
func NewTaskService(deps TaskDeps, predictor TimelinePredictor, publisher shared.EventPublisher, logger *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo:    deps.Tasks,
		insightRepo: deps.Insights,
		clientRepo:  deps.Clients,
		brandRepo:   deps.Brands,
		userRepo:    deps.Users,
		predictor:   predictor,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns tasks newest first
func (s *TaskService) List(ctx context.Context, tenantID uuid.UUID, filter work.TaskFilter) (*shared.Paginated[TaskDTO], error) {
	filter.Filter = filter.Filter.Normalize()
	tasks, total, err := s.taskRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toTaskDTOs(tasks), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Create creates a pending task. Referenced client, brand and assignee must exist.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*TaskDTO, error) {
	if err := s.checkRefs(ctx, input.TenantID, input.ClientID, input.BrandID, input.AssignedTo); err != nil {
		return nil, err
	}

	task, err := work.NewTask(input.TenantID, work.TaskFields{
		Title:         input.Title,
		Description:   input.Description,
		ClientID:      input.ClientID,
		BrandID:       input.BrandID,
		AssignedTo:    input.AssignedTo,
		EstimatedTime: input.EstimatedTime,
		DueDate:       input.DueDate,
	})
	if err != nil {
		return nil, err
	}
	if input.CreatedBy != uuid.Nil {
		task.SetCreatedBy(input.CreatedBy)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Error("Failed to create task", zap.Error(err))
		return nil, err
	}
	s.publish(ctx, task)

	s.logger.Info("Task created",
		zap.String("task_id", task.ID.String()),
		zap.String("tenant_id", input.TenantID.String()),
	)
	dto := ToTaskDTO(task)
	return &dto, nil
}

// Get returns one task
func (s *TaskService) Get(ctx context.Context, tenantID, id uuid.UUID) (*TaskDTO, error) {
	task, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToTaskDTO(task)
	return &dto, nil
}

// Update applies the provided fields and, when given, a status change
func (s *TaskService) Update(ctx context.Context, input UpdateTaskInput) (*TaskDTO, error) {
	task, err := s.find(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	fields := work.TaskFields{
		Title:         task.Title,
		Description:   task.Description,
		ClientID:      task.ClientID,
		BrandID:       task.BrandID,
		AssignedTo:    task.AssignedTo,
		EstimatedTime: task.EstimatedTime,
		DueDate:       task.DueDate,
	}
	if input.Title != nil {
		fields.Title = *input.Title
	}
	if input.Description != nil {
		fields.Description = *input.Description
	}
	if input.ClientID != nil {
		fields.ClientID = input.ClientID
	}
	if input.BrandID != nil {
		fields.BrandID = input.BrandID
	}
	if input.AssignedTo != nil {
		fields.AssignedTo = input.AssignedTo
	}
	if input.EstimatedTime != nil {
		fields.EstimatedTime = input.EstimatedTime
	}
	if input.DueDate != nil {
		fields.DueDate = input.DueDate
	}
	if err := s.checkRefs(ctx, input.TenantID, input.ClientID, input.BrandID, input.AssignedTo); err != nil {
		return nil, err
	}
	if err := task.Update(fields); err != nil {
		return nil, err
	}
	if input.Status != nil {
		if err := task.ChangeStatus(*input.Status, s.now()); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.publish(ctx, task)

	dto := ToTaskDTO(task)
	return &dto, nil
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Task deleted", zap.String("task_id", id.String()))
	return nil
}

// ChangeStatus moves a task to status
func (s *TaskService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status work.TaskStatus) (*TaskDTO, error) {
	task, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, task, status)
}

// ListAssigned returns the tasks assigned to userID
func (s *TaskService) ListAssigned(ctx context.Context, tenantID, userID uuid.UUID, filter work.TaskFilter) (*shared.Paginated[TaskDTO], error) {
	filter.AssignedTo = &userID
	return s.List(ctx, tenantID, filter)
}

// GetAssigned returns a task only when it is assigned to userID
func (s *TaskService) GetAssigned(ctx context.Context, tenantID, userID, id uuid.UUID) (*TaskDTO, error) {
	task, err := s.findAssigned(ctx, tenantID, userID, id)
	if err != nil {
		return nil, err
	}
	dto := ToTaskDTO(task)
	return &dto, nil
}

// ChangeAssignedStatus lets an employee move one of their own tasks
func (s *TaskService) ChangeAssignedStatus(ctx context.Context, tenantID, userID, id uuid.UUID, status work.TaskStatus) (*TaskDTO, error) {
	task, err := s.findAssigned(ctx, tenantID, userID, id)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, task, status)
}

// Insights returns the stored insights of a task
func (s *TaskService) Insights(ctx context.Context, tenantID, taskID uuid.UUID) ([]InsightDTO, error) {
	if _, err := s.find(ctx, tenantID, taskID); err != nil {
		return nil, err
	}
	insights, err := s.insightRepo.FindByTask(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	out := make([]InsightDTO, 0, len(insights))
	for _, i := range insights {
		out = append(out, ToInsightDTO(i))
	}
	return out, nil
}

// PredictTimeline estimates the effort of a task. With a task ID the
// estimate is stored as an insight on that task. Without historical data the
// tenant's recently completed tasks are used as reference.
func (s *TaskService) PredictTimeline(ctx context.Context, input PredictTimelineInput) (*TimelinePrediction, error) {
	var task *work.Task
	if input.TaskID != nil {
		var err error
		if task, err = s.find(ctx, input.TenantID, *input.TaskID); err != nil {
			return nil, err
		}
	}

	description := strings.TrimSpace(input.TaskDescription)
	if description == "" && task != nil {
		description = strings.TrimSpace(task.Title + "\n" + task.Description)
	}
	if description == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "task_description is required")
	}

	history := input.HistoricalData
	if len(history) == 0 {
		history = s.recentHistory(ctx, input.TenantID)
	}

	result := &TimelinePrediction{
		TaskTimeline: s.predictor.PredictTaskTimeline(ctx, assistant.TimelineRequest{
			TaskDescription: description,
			HistoricalData:  history,
		}),
	}
	if task == nil {
		return result, nil
	}

	content, err := json.Marshal(result.TaskTimeline)
	if err != nil {
		return nil, err
	}
	in, err := work.NewInsight(input.TenantID, task.ID, string(content), InsightSourceTimeline)
	if err != nil {
		return nil, err
	}
	if err := s.insightRepo.Create(ctx, in); err != nil {
		s.logger.Error("Failed to store timeline insight", zap.String("task_id", task.ID.String()), zap.Error(err))
		return nil, err
	}
	result.InsightID = &in.ID
	return result, nil
}

func (s *TaskService) recentHistory(ctx context.Context, tenantID uuid.UUID) []assistant.HistoryEntry {
	now := s.now()
	tasks, err := s.taskRepo.FindCompletedBetween(ctx, tenantID, now.Add(-historyWindow), now)
	if err != nil {
		s.logger.Warn("Failed to load task history", zap.Error(err))
		return nil
	}
	history := make([]assistant.HistoryEntry, 0, historyLimit)
	for _, t := range tasks {
		if len(history) == historyLimit {
			break
		}
		history = append(history, assistant.HistoryEntry{
			Title:         t.Title,
			EstimatedTime: t.EstimatedTime,
			ActualTime:    t.ActualTime,
		})
	}
	return history
}

func (s *TaskService) changeStatus(ctx context.Context, task *work.Task, status work.TaskStatus) (*TaskDTO, error) {
	old := task.Status
	if err := task.ChangeStatus(status, s.now()); err != nil {
		return nil, err
	}
	if old != task.Status {
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return nil, err
		}
		s.publish(ctx, task)
		s.logger.Info("Task status changed",
			zap.String("task_id", task.ID.String()),
			zap.String("from", string(old)),
			zap.String("to", string(task.Status)),
		)
	}
	dto := ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) find(ctx context.Context, tenantID, id uuid.UUID) (*work.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) findAssigned(ctx context.Context, tenantID, userID, id uuid.UUID) (*work.Task, error) {
	task, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !task.IsAssignedTo(userID) {
		return nil, errTaskNotFound
	}
	return task, nil
}

func (s *TaskService) checkRefs(ctx context.Context, tenantID uuid.UUID, clientID, brandID, assignedTo *uuid.UUID) error {
	if clientID != nil {
		ok, err := s.clientRepo.Exists(ctx, tenantID, *clientID)
		if err != nil {
			return err
		}
		if !ok {
			return shared.NewDomainError(shared.ErrNotFound.Code, "Client not found")
		}
	}
	if brandID != nil {
		if _, err := s.brandRepo.FindByID(ctx, tenantID, *brandID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.ErrNotFound.Code, "Brand not found")
			}
			return err
		}
	}
	if assignedTo != nil {
		if _, err := s.userRepo.FindByID(ctx, tenantID, *assignedTo); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.ErrNotFound.Code, "Assignee not found")
			}
			return err
		}
	}
	return nil
}

func (s *TaskService) publish(ctx context.Context, task *work.Task) {
	if err := shared.PublishPending(ctx, s.publisher, task); err != nil {
		s.logger.Warn("Failed to publish task events", zap.String("task_id", task.ID.String()), zap.Error(err))
	}
}
