package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// RegisterInput contains the input for registering an agency
type RegisterInput struct {
	TenantName string
	TenantCode string
	Name       string
	Email      string
	Password   string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	TokenType             string    `json:"token_type"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_expires_at"`
	User                  UserInfo  `json:"user"`
}

// UserInfo is the short user view embedded in auth responses
type UserInfo struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	TokenType             string    `json:"token_type"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_expires_at"`
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	TokenJTI string
	// TokenTTL is the remaining lifetime of the access token
	TokenTTL time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UserDTO is the full user view
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	TenantID    uuid.UUID        `json:"tenant_id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	RoleID      uuid.UUID        `json:"role_id"`
	Role        string           `json:"role"`
	Position    string           `json:"position,omitempty"`
	Department  string           `json:"department,omitempty"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate,omitempty"`
	Status      string           `json:"status"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ToUserDTO converts a domain user; roleName may be empty when unknown
func ToUserDTO(u *identity.User, roleName string) UserDTO {
	return UserDTO{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Name:        u.Name,
		Email:       u.Email,
		RoleID:      u.RoleID,
		Role:        roleName,
		Position:    u.Position,
		Department:  u.Department,
		HourlyRate:  u.HourlyRate,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// CurrentUserResult is the caller's profile with their tenant
type CurrentUserResult struct {
	User   UserDTO   `json:"user"`
	Tenant TenantDTO `json:"tenant"`
}

// TenantDTO is the API view of a tenant
type TenantDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Code   string    `json:"code"`
	Status string    `json:"status"`
}

// ToTenantDTO converts a domain tenant
func ToTenantDTO(t *identity.Tenant) TenantDTO {
	return TenantDTO{ID: t.ID, Name: t.Name, Code: t.Code, Status: string(t.Status)}
}

// RoleDTO is the API view of a role
type RoleDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToRoleDTO converts a domain role
func ToRoleDTO(r *identity.Role) RoleDTO {
	return RoleDTO{ID: r.ID, Name: r.Name, Description: r.Description, IsSystem: r.IsSystem, CreatedAt: r.CreatedAt}
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	TenantID   uuid.UUID
	CreatedBy  uuid.UUID
	Name       string
	Email      string
	Password   string
	RoleID     *uuid.UUID
	Position   string
	Department string
	HourlyRate *decimal.Decimal
}

// UpdateUserInput contains input for updating a user; nil fields are left unchanged
type UpdateUserInput struct {
	TenantID   uuid.UUID
	ID         uuid.UUID
	Name       *string
	Email      *string
	RoleID     *uuid.UUID
	Position   *string
	Department *string
	HourlyRate *decimal.Decimal
}

// CreateRoleInput contains input for creating a custom role
type CreateRoleInput struct {
	TenantID    uuid.UUID
	Name        string
	Description string
}
