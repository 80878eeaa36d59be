package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// TenantModel is the persistence model for the Tenant aggregate.
type TenantModel struct {
	AggregateModel
	Name   string                `gorm:"type:varchar(200);not null"`
	Code   string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant.
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: m.Aggregate(),
		Name:   m.Name,
		Code:   m.Code,
		Status: m.Status,
	}
}

// TenantModelFromDomain creates a persistence model from a domain Tenant.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{Name: t.Name, Code: t.Code, Status: t.Status}
	m.SetAggregate(t.BaseAggregateRoot)
	return m
}

// RoleModel is the persistence model for the Role aggregate.
type RoleModel struct {
	TenantAggregateModel
	Name        string `gorm:"type:varchar(50);not null;index"`
	Description string `gorm:"type:varchar(255)"`
	IsSystem    bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role.
func (m *RoleModel) ToDomain() *identity.Role {
	r := &identity.Role{
		Name:        m.Name,
		Description: m.Description,
		IsSystem:    m.IsSystem,
	}
	r.TenantAggregateRoot = m.TenantRoot()
	return r
}

// RoleModelFromDomain creates a persistence model from a domain Role.
func RoleModelFromDomain(r *identity.Role) *RoleModel {
	m := &RoleModel{Name: r.Name, Description: r.Description, IsSystem: r.IsSystem}
	m.SetTenantRoot(r.TenantAggregateRoot)
	return m
}

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	TenantAggregateModel
	Name           string              `gorm:"type:varchar(100);not null"`
	Email          string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	RoleID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position       string              `gorm:"type:varchar(100)"`
	Department     string              `gorm:"type:varchar(100);index"`
	HourlyRate     *decimal.Decimal    `gorm:"type:decimal(12,2)"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Name:           m.Name,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		RoleID:         m.RoleID,
		Position:       m.Position,
		Department:     m.Department,
		HourlyRate:     m.HourlyRate,
		Status:         m.Status,
		LastLoginAt:    m.LastLoginAt,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
	u.TenantAggregateRoot = m.TenantRoot()
	return u
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.SetTenantRoot(u.TenantAggregateRoot)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.RoleID = u.RoleID
	m.Position = u.Position
	m.Department = u.Department
	m.HourlyRate = u.HourlyRate
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain creates a persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
