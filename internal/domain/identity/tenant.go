package identity

import (
	"regexp"
	"strings"

	"github.com/hyperflow/backend/internal/domain/shared"
)

// TenantStatus represents the status of an agency tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

var tenantCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,48}[a-z0-9]$`)

// Tenant is one agency. Every other aggregate is owned by exactly one tenant.
type Tenant struct {
	shared.BaseAggregateRoot
	Name   string
	Code   string
	Status TenantStatus
}

// NewTenant creates an active tenant with a lowercase slug code
func NewTenant(name, code string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot exceed 200 characters")
	}
	code = strings.ToLower(strings.TrimSpace(code))
	if !tenantCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code must be 3-50 lowercase letters, digits or hyphens")
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Status:            TenantStatusActive,
	}
	t.Record(NewTenantCreatedEvent(t))
	return t, nil
}

// Suspend blocks every login of the tenant
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	t.Status = TenantStatusSuspended
	t.IncrementVersion()
	return nil
}

// Activate re-enables a suspended tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.Status = TenantStatusActive
	t.IncrementVersion()
	return nil
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
