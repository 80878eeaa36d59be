package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	publisher shared.EventPublisher
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates a new user. Without a role the user gets the employee role.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Email is already registered")
	}

	var role *identity.Role
	if input.RoleID != nil {
		role, err = s.roleRepo.FindByID(ctx, input.TenantID, *input.RoleID)
	} else {
		role, err = s.roleRepo.FindByName(ctx, input.TenantID, identity.RoleEmployee)
	}
	if err != nil {
		return nil, shared.NewDomainError("ROLE_NOT_FOUND", "Role not found")
	}

	user, err := identity.NewUser(input.TenantID, input.Name, input.Email, input.Password, role.ID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(user.Name, input.Position, input.Department, input.HourlyRate); err != nil {
		return nil, err
	}
	if input.CreatedBy != uuid.Nil {
		user.SetCreatedBy(input.CreatedBy)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.publisher, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", role.Name),
	)
	dto := ToUserDTO(user, role.Name)
	return &dto, nil
}

// GetByID returns one user of the tenant
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user, s.lookupRoleName(ctx, user))
	return &dto, nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) (*shared.Paginated[UserDTO], error) {
	filter.Filter = filter.Filter.Normalize()
	users, total, err := s.userRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	names, err := s.roleNames(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items := make([]UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserDTO(u, names[u.RoleID]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update applies the provided fields
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Email is already registered")
		}
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}

	name, position, department, rate := user.Name, user.Position, user.Department, user.HourlyRate
	if input.Name != nil {
		name = *input.Name
	}
	if input.Position != nil {
		position = *input.Position
	}
	if input.Department != nil {
		department = *input.Department
	}
	if input.HourlyRate != nil {
		rate = input.HourlyRate
	}
	if err := user.UpdateProfile(name, position, department, rate); err != nil {
		return nil, err
	}

	if input.RoleID != nil && *input.RoleID != user.RoleID {
		role, err := s.roleRepo.FindByID(ctx, input.TenantID, *input.RoleID)
		if err != nil {
			return nil, shared.NewDomainError("ROLE_NOT_FOUND", "Role not found")
		}
		if err := user.AssignRole(role); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User updated", zap.String("user_id", user.ID.String()))

	dto := ToUserDTO(user, s.lookupRoleName(ctx, user))
	return &dto, nil
}

// Activate re-enables a user
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	return s.changeStatus(ctx, tenantID, id, (*identity.User).Activate)
}

// Deactivate blocks a user from logging in
func (s *UserService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	return s.changeStatus(ctx, tenantID, id, (*identity.User).Deactivate)
}

func (s *UserService) changeStatus(ctx context.Context, tenantID, id uuid.UUID, apply func(*identity.User) error) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.publisher, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
	s.logger.Info("User status changed",
		zap.String("user_id", user.ID.String()),
		zap.String("status", string(user.Status)),
	)
	dto := ToUserDTO(user, s.lookupRoleName(ctx, user))
	return &dto, nil
}

func (s *UserService) lookupRoleName(ctx context.Context, user *identity.User) string {
	role, err := s.roleRepo.FindByID(ctx, user.TenantID, user.RoleID)
	if err != nil {
		return ""
	}
	return role.Name
}

func (s *UserService) roleNames(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]string, error) {
	roles, err := s.roleRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}
	return names, nil
}
