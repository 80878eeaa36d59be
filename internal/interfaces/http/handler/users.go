package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/identity"
	domainIdentity "github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// UserService manages the staff accounts of a tenant
type UserService interface {
	Create(ctx context.Context, input identity.CreateUserInput) (*identity.UserDTO, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.UserDTO, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domainIdentity.UserFilter) (*shared.Paginated[identity.UserDTO], error)
	Update(ctx context.Context, input identity.UpdateUserInput) (*identity.UserDTO, error)
	Activate(ctx context.Context, tenantID, id uuid.UUID) (*identity.UserDTO, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*identity.UserDTO, error)
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Name       string           `json:"name" binding:"required,max=100"`
	Email      string           `json:"email" binding:"required,email,max=255"`
	Password   string           `json:"password" binding:"required,min=8,max=128"`
	RoleID     *uuid.UUID       `json:"role_id"`
	Position   string           `json:"position" binding:"max=100"`
	Department string           `json:"department" binding:"max=100"`
	HourlyRate *decimal.Decimal `json:"hourly_rate" swaggertype:"number"`
}

// UpdateUserRequest is the body of PUT /users/:id; omitted fields are unchanged
type UpdateUserRequest struct {
	Name       *string          `json:"name" binding:"omitempty,max=100"`
	Email      *string          `json:"email" binding:"omitempty,email,max=255"`
	RoleID     *uuid.UUID       `json:"role_id"`
	Position   *string          `json:"position" binding:"omitempty,max=100"`
	Department *string          `json:"department" binding:"omitempty,max=100"`
	HourlyRate *decimal.Decimal `json:"hourly_rate" swaggertype:"number"`
}

// UserListQuery holds the filters of GET /users
type UserListQuery struct {
	dto.ListRequest
	Status     string `form:"status" binding:"omitempty,oneof=active inactive"`
	RoleID     string `form:"role_id" binding:"omitempty,uuid"`
	Department string `form:"department"`
}

// UserHandler handles user management HTTP requests
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create godoc
// @ID           createUser
// @Summary      Create a user
// @Description  Create a staff account; without role_id the employee role is assigned
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User details"
// @Success      201 {object} APIResponse[identity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), identity.CreateUserInput{
		TenantID:   tenantID,
		CreatedBy:  userID,
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		RoleID:     req.RoleID,
		Position:   req.Position,
		Department: req.Department,
		HourlyRate: req.HourlyRate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name or email"
// @Param        status query string false "active or inactive"
// @Param        role_id query string false "Role ID"
// @Param        department query string false "Department"
// @Success      200 {object} APIResponse[[]identity.UserDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.userFilter(c)
	if !ok {
		return
	}

	page, err := h.userService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// userFilter binds the shared user list query used by /users and /hr/employees
func (h *BaseHandler) userFilter(c *gin.Context) (domainIdentity.UserFilter, bool) {
	var q UserListQuery
	if !h.bindQuery(c, &q) {
		return domainIdentity.UserFilter{}, false
	}
	filter := domainIdentity.UserFilter{Filter: listFilter(q.ListRequest), Department: q.Department}
	if q.Status != "" {
		status := domainIdentity.UserStatus(q.Status)
		filter.Status = &status
	}
	if q.RoleID != "" {
		roleID := uuid.MustParse(q.RoleID)
		filter.RoleID = &roleID
	}
	return filter, true
}

// GetByID godoc
// @ID           getUser
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[identity.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update godoc
// @ID           updateUser
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body UpdateUserRequest true "Fields to change"
// @Success      200 {object} APIResponse[identity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), identity.UpdateUserInput{
		TenantID:   tenantID,
		ID:         id,
		Name:       req.Name,
		Email:      req.Email,
		RoleID:     req.RoleID,
		Position:   req.Position,
		Department: req.Department,
		HourlyRate: req.HourlyRate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Activate godoc
// @ID           activateUser
// @Summary      Activate a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[identity.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.userService.Activate)
}

// Deactivate godoc
// @ID           deactivateUser
// @Summary      Deactivate a user
// @Description  Inactive users cannot log in
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[identity.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.userService.Deactivate)
}

func (h *UserHandler) changeStatus(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) (*identity.UserDTO, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	user, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
