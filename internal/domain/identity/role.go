package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// Built-in role names. They are seeded for every tenant on registration.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleHR       = "hr"
	RoleFinance  = "finance"
	RoleEmployee = "employee"
)

var builtinRoleDescriptions = map[string]string{
	RoleAdmin:    "Full access including user and role administration",
	RoleManager:  "Manages clients, tasks and marketing",
	RoleHR:       "Manages employees, attendance, leave and announcements",
	RoleFinance:  "Manages invoices, financial records and reports",
	RoleEmployee: "Self-service attendance, tasks and leave",
}

// BuiltinRoleNames returns the built-in role names in a stable order
func BuiltinRoleNames() []string {
	return []string{RoleAdmin, RoleManager, RoleHR, RoleFinance, RoleEmployee}
}

// Role is a named permission bundle within a tenant
type Role struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	IsSystem    bool
}

// NewRole creates a custom role
func NewRole(tenantID uuid.UUID, name, description string) (*Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 50 {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 50 characters")
	}
	if len(description) > 255 {
		return nil, shared.NewDomainError("INVALID_ROLE_DESCRIPTION", "Role description cannot exceed 255 characters")
	}
	return &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         strings.TrimSpace(description),
	}, nil
}

// NewBuiltinRoles creates the system roles for a freshly registered tenant
func NewBuiltinRoles(tenantID uuid.UUID) []*Role {
	roles := make([]*Role, 0, len(builtinRoleDescriptions))
	for _, name := range BuiltinRoleNames() {
		r, _ := NewRole(tenantID, name, builtinRoleDescriptions[name])
		r.IsSystem = true
		roles = append(roles, r)
	}
	return roles
}

// Update changes the description. System role names are fixed.
func (r *Role) Update(description string) error {
	if len(description) > 255 {
		return shared.NewDomainError("INVALID_ROLE_DESCRIPTION", "Role description cannot exceed 255 characters")
	}
	r.Description = strings.TrimSpace(description)
	r.IncrementVersion()
	return nil
}
