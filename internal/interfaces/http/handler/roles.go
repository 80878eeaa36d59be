package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/identity"
)

// RoleService lists and creates tenant roles
type RoleService interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]identity.RoleDTO, error)
	Create(ctx context.Context, input identity.CreateRoleInput) (*identity.RoleDTO, error)
}

// CreateRoleRequest is the body of POST /roles
type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=50"`
	Description string `json:"description" binding:"max=255"`
}

// RoleHandler handles role HTTP requests
type RoleHandler struct {
	BaseHandler
	roleService RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// List godoc
// @ID           listRoles
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200 {object} APIResponse[[]identity.RoleDTO]
// @Security     BearerAuth
// @Router       /roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	roles, err := h.roleService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, roles)
}

// Create godoc
// @ID           createRole
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        request body CreateRoleRequest true "Role"
// @Success      201 {object} APIResponse[identity.RoleDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CreateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), identity.CreateRoleInput{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, role)
}
