package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleService handles role management operations
type RoleService struct {
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(roleRepo identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{roleRepo: roleRepo, logger: logger}
}

// List returns every role of the tenant
func (s *RoleService) List(ctx context.Context, tenantID uuid.UUID) ([]RoleDTO, error) {
	roles, err := s.roleRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	result := make([]RoleDTO, 0, len(roles))
	for _, r := range roles {
		result = append(result, ToRoleDTO(r))
	}
	return result, nil
}

// Create creates a custom role
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*RoleDTO, error) {
	name := strings.ToLower(strings.TrimSpace(input.Name))
	exists, err := s.roleRepo.ExistsByName(ctx, input.TenantID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Role name already exists")
	}

	role, err := identity.NewRole(input.TenantID, name, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		s.logger.Error("Failed to create role", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Role created",
		zap.String("role_id", role.ID.String()),
		zap.String("name", role.Name),
		zap.String("tenant_id", input.TenantID.String()),
	)
	dto := ToRoleDTO(role)
	return &dto, nil
}
