package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/work"
	"github.com/hyperflow/backend/internal/domain/shared"
	domainWork "github.com/hyperflow/backend/internal/domain/work"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
)

// TaskService is the task use case set shared by the manager, client and
// self-service endpoints
type TaskService interface {
	List(ctx context.Context, tenantID uuid.UUID, filter domainWork.TaskFilter) (*shared.Paginated[work.TaskDTO], error)
	Create(ctx context.Context, input work.CreateTaskInput) (*work.TaskDTO, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*work.TaskDTO, error)
	Update(ctx context.Context, input work.UpdateTaskInput) (*work.TaskDTO, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListAssigned(ctx context.Context, tenantID, userID uuid.UUID, filter domainWork.TaskFilter) (*shared.Paginated[work.TaskDTO], error)
	GetAssigned(ctx context.Context, tenantID, userID, id uuid.UUID) (*work.TaskDTO, error)
	ChangeAssignedStatus(ctx context.Context, tenantID, userID, id uuid.UUID, status domainWork.TaskStatus) (*work.TaskDTO, error)
	Insights(ctx context.Context, tenantID, taskID uuid.UUID) ([]work.InsightDTO, error)
}

// CreateTaskRequest is the body of POST /tasks and POST /clients/:id/tasks
type CreateTaskRequest struct {
	Title         string     `json:"title" binding:"required,max=255"`
	Description   string     `json:"description"`
	ClientID      *uuid.UUID `json:"client_id"`
	BrandID       *uuid.UUID `json:"brand_id"`
	AssignedTo    *uuid.UUID `json:"assigned_to"`
	EstimatedTime *float64   `json:"estimated_time" binding:"omitempty,min=0"`
	DueDate       string     `json:"due_date" binding:"omitempty,datetime=2006-01-02" example:"2026-01-31"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id; omitted fields are unchanged
type UpdateTaskRequest struct {
	Title         *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description   *string    `json:"description"`
	ClientID      *uuid.UUID `json:"client_id"`
	BrandID       *uuid.UUID `json:"brand_id"`
	AssignedTo    *uuid.UUID `json:"assigned_to"`
	EstimatedTime *float64   `json:"estimated_time" binding:"omitempty,min=0"`
	DueDate       string     `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Status        string     `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
}

// TaskStatusRequest is the body of the status change endpoints
type TaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress completed cancelled"`
}

// TaskListQuery holds the filters of the task lists
type TaskListQuery struct {
	dto.ListRequest
	Status     string `form:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	ClientID   string `form:"client_id" binding:"omitempty,uuid"`
	AssignedTo string `form:"assigned_to" binding:"omitempty,uuid"`
}

// taskFilter binds TaskListQuery
func (h *BaseHandler) taskFilter(c *gin.Context) (domainWork.TaskFilter, bool) {
	var q TaskListQuery
	if !h.bindQuery(c, &q) {
		return domainWork.TaskFilter{}, false
	}
	filter := domainWork.TaskFilter{Filter: listFilter(q.ListRequest)}
	if q.Status != "" {
		status := domainWork.TaskStatus(q.Status)
		filter.Status = &status
	}
	if q.ClientID != "" {
		id := uuid.MustParse(q.ClientID)
		filter.ClientID = &id
	}
	if q.AssignedTo != "" {
		id := uuid.MustParse(q.AssignedTo)
		filter.AssignedTo = &id
	}
	return filter, true
}

// createTaskInput converts the request; clientID, when set, wins over the body
func createTaskInput(tenantID, userID uuid.UUID, req CreateTaskRequest, clientID *uuid.UUID) (work.CreateTaskInput, error) {
	due, err := parseDate(req.DueDate, "due_date")
	if err != nil {
		return work.CreateTaskInput{}, err
	}
	input := work.CreateTaskInput{
		TenantID:      tenantID,
		CreatedBy:     userID,
		Title:         req.Title,
		Description:   req.Description,
		ClientID:      req.ClientID,
		BrandID:       req.BrandID,
		AssignedTo:    req.AssignedTo,
		EstimatedTime: req.EstimatedTime,
		DueDate:       due,
	}
	if clientID != nil {
		input.ClientID = clientID
	}
	return input, nil
}

// TaskHandler handles task HTTP requests for managers
type TaskHandler struct {
	BaseHandler
	taskService TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List godoc
// @ID           listTasks
// @Summary      List tasks
// @Description  Newest first
// @Tags         tasks
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Task status" Enums(pending, in_progress, completed, cancelled)
// @Param        client_id query string false "Client ID"
// @Param        assigned_to query string false "Assignee user ID"
// @Success      200 {object} APIResponse[[]work.TaskDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.taskFilter(c)
	if !ok {
		return
	}

	page, err := h.taskService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// Create godoc
// @ID           createTask
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body CreateTaskRequest true "Task"
// @Success      201 {object} APIResponse[work.TaskDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input, err := createTaskInput(tenantID, userID, req, nil)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, task)
}

// Get godoc
// @ID           getTask
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} APIResponse[work.TaskDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Update godoc
// @ID           updateTask
// @Summary      Update a task
// @Description  A status in the body follows the same transition rules as the status endpoints
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body UpdateTaskRequest true "Fields to change"
// @Success      200 {object} APIResponse[work.TaskDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}
	due, err := parseDate(req.DueDate, "due_date")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	input := work.UpdateTaskInput{
		TenantID:      tenantID,
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		ClientID:      req.ClientID,
		BrandID:       req.BrandID,
		AssignedTo:    req.AssignedTo,
		EstimatedTime: req.EstimatedTime,
		DueDate:       due,
	}
	if req.Status != "" {
		status := domainWork.TaskStatus(req.Status)
		input.Status = &status
	}

	task, err := h.taskService.Update(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Delete godoc
// @ID           deleteTask
// @Summary      Delete a task
// @Tags         tasks
// @Param        id path string true "Task ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Insights godoc
// @ID           listTaskInsights
// @Summary      Stored AI insights of a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} APIResponse[[]work.InsightDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/insights [get]
func (h *TaskHandler) Insights(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	insights, err := h.taskService.Insights(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, insights)
}
