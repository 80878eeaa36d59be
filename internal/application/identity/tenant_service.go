package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// RegistrationTx runs fn with repositories bound to one transaction
type RegistrationTx interface {
	RunInTx(ctx context.Context, fn func(tenants identity.TenantRepository, roles identity.RoleRepository, users identity.UserRepository) error) error
}

// TenantService registers agencies and reads tenant data
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	tx         RegistrationTx
	jwtService *auth.JWTService
	publisher  shared.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	tx RegistrationTx,
	jwtService *auth.JWTService,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		tx:         tx,
		jwtService: jwtService,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates a tenant with its built-in roles and an admin user, then
// logs the admin in
func (s *TenantService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	tenant, err := identity.NewTenant(input.TenantName, input.TenantCode)
	if err != nil {
		return nil, err
	}

	codeTaken, err := s.tenantRepo.ExistsByCode(ctx, tenant.Code)
	if err != nil {
		return nil, err
	}
	if codeTaken {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Tenant code is already taken")
	}
	emailTaken, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Email is already registered")
	}

	roles := identity.NewBuiltinRoles(tenant.ID)
	var admin *identity.User
	err = s.tx.RunInTx(ctx, func(tenants identity.TenantRepository, roleRepo identity.RoleRepository, users identity.UserRepository) error {
		if err := tenants.Create(ctx, tenant); err != nil {
			return err
		}
		if err := roleRepo.CreateBatch(ctx, roles); err != nil {
			return err
		}
		adminRole := findRole(roles, identity.RoleAdmin)
		user, err := identity.NewUser(tenant.ID, input.Name, input.Email, input.Password, adminRole.ID)
		if err != nil {
			return err
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		admin = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, agg := range []shared.AggregateRoot{tenant, admin} {
		if err := shared.PublishPending(ctx, s.publisher, agg); err != nil {
			s.logger.Warn("failed to publish registration events", zap.Error(err))
		}
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{
		TenantID: tenant.ID,
		UserID:   admin.ID,
		Email:    admin.Email,
		Role:     identity.RoleAdmin,
	})
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("agency registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("tenant_code", tenant.Code),
		zap.String("admin_id", admin.ID.String()),
	)
	return loginResult(pair, admin, identity.RoleAdmin), nil
}

// Get returns one tenant
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToTenantDTO(tenant)
	return &dto, nil
}

func findRole(roles []*identity.Role, name string) *identity.Role {
	for _, r := range roles {
		if r.Name == name {
			return r
		}
	}
	return roles[0]
}
