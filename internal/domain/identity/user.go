package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Lockout policy applied on repeated login failures
const (
	MaxFailedAttempts = 5
	LockoutDuration   = 15 * time.Minute
)

// bcryptCost is a var so tests can lower it
var bcryptCost = bcrypt.DefaultCost

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an agency staff member. Employees, HR, finance and admins are all users.
type User struct {
	shared.TenantAggregateRoot
	Name           string
	Email          string
	PasswordHash   string
	RoleID         uuid.UUID
	Position       string
	Department     string
	HourlyRate     *decimal.Decimal
	Status         UserStatus
	LastLoginAt    *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(tenantID uuid.UUID, name, email, password string, roleID uuid.UUID) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if roleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ROLE_ID", "Role ID cannot be empty")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Email:               email,
		PasswordHash:        hash,
		RoleID:              roleID,
		Status:              UserStatusActive,
	}
	u.Record(NewUserCreatedEvent(u))
	return u, nil
}

// UpdateProfile replaces the descriptive fields of the user
func (u *User) UpdateProfile(name, position, department string, hourlyRate *decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(position) > 100 || len(department) > 100 {
		return shared.NewDomainError("INVALID_PROFILE", "Position and department cannot exceed 100 characters")
	}
	if hourlyRate != nil && hourlyRate.IsNegative() {
		return shared.NewDomainError("INVALID_HOURLY_RATE", "Hourly rate cannot be negative")
	}
	u.Name = name
	u.Position = strings.TrimSpace(position)
	u.Department = strings.TrimSpace(department)
	u.HourlyRate = hourlyRate
	u.IncrementVersion()
	return nil
}

// SetEmail changes the login email
func (u *User) SetEmail(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	u.Email = normalized
	u.IncrementVersion()
	return nil
}

// AssignRole moves the user to another role of the same tenant
func (u *User) AssignRole(role *Role) error {
	if role == nil || role.ID == uuid.Nil {
		return shared.NewDomainError("INVALID_ROLE_ID", "Role ID cannot be empty")
	}
	if role.TenantID != u.TenantID {
		return shared.NewDomainError("ROLE_TENANT_MISMATCH", "Role belongs to another tenant")
	}
	u.RoleID = role.ID
	u.IncrementVersion()
	return nil
}

// ChangePassword verifies the old password before setting the new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword replaces the password hash without checking the old password
func (u *User) SetPassword(newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.IncrementVersion()
	u.Record(NewUserPasswordChangedEvent(u))
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Activate re-enables a deactivated user and clears any lockout
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.IncrementVersion()
	return nil
}

// Deactivate blocks the user from logging in
func (u *User) Deactivate() error {
	if u.Status == UserStatusInactive {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	u.Status = UserStatusInactive
	u.IncrementVersion()
	u.Record(NewUserDeactivatedEvent(u))
	return nil
}

// RecordLoginSuccess resets the failure counter
func (u *User) RecordLoginSuccess(now time.Time) {
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.IncrementVersion()
}

// RecordLoginFailure counts a failed attempt and returns true when the account got locked
func (u *User) RecordLoginFailure(now time.Time) bool {
	u.FailedAttempts++
	u.IncrementVersion()
	if u.FailedAttempts >= MaxFailedAttempts {
		until := now.Add(LockoutDuration)
		u.LockedUntil = &until
		u.FailedAttempts = 0
		return true
	}
	return false
}

// IsLocked reports whether a lockout is still in force at now
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// EffectiveHourlyRate returns the user's rate or fallback when none is set
func (u *User) EffectiveHourlyRate(fallback decimal.Decimal) decimal.Decimal {
	if u.HourlyRate != nil && u.HourlyRate.IsPositive() {
		return *u.HourlyRate
	}
	return fallback
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}

// ValidatePassword enforces the password length policy
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
