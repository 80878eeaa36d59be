package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// TenantRepository persists tenants
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// RoleRepository persists roles
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	CreateBatch(ctx context.Context, roles []*Role) error
	Update(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Role, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Role, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]*Role, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
}

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	// FindByEmail looks up a login email across tenants; emails are globally unique.
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter UserFilter) ([]*User, int64, error)
	// FindAllActive returns every active user of the tenant, unpaginated.
	FindAllActive(ctx context.Context, tenantID uuid.UUID) ([]*User, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter
	Status     *UserStatus
	RoleID     *uuid.UUID
	Department string
}

// NewUserFilter creates a UserFilter with default paging
func NewUserFilter() UserFilter {
	return UserFilter{Filter: shared.DefaultFilter()}
}
