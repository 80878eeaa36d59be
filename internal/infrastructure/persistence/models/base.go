package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// BaseModel is the id and audit columns shared by every table
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) Entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) SetEntity(e shared.BaseEntity) {
	*m = BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// AggregateModel adds the version column aggregates bump on every change
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// Aggregate rebuilds the root without pending events
func (m *AggregateModel) Aggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.Entity(), Version: m.Version}
}

func (m *AggregateModel) SetAggregate(a shared.BaseAggregateRoot) {
	m.SetEntity(a.BaseEntity)
	m.Version = a.Version
}

// TenantAggregateModel is the column set of every tenant-owned table. The
// tenant_id index backs the tenant scope every query applies.
type TenantAggregateModel struct {
	AggregateModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

func (m *TenantAggregateModel) TenantRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: m.Aggregate(),
		TenantID:          m.TenantID,
		CreatedBy:         m.CreatedBy,
	}
}

func (m *TenantAggregateModel) SetTenantRoot(t shared.TenantAggregateRoot) {
	m.SetAggregate(t.BaseAggregateRoot)
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
}

// CalendarDate maps t to UTC midnight of its own calendar day, so DATE columns
// keep the day the caller meant regardless of session time zone.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AllModels lists every persistence model, in dependency order, for AutoMigrate in tests.
func AllModels() []interface{} {
	return []interface{}{
		&TenantModel{},
		&RoleModel{},
		&UserModel{},
		&ClientModel{},
		&BrandModel{},
		&CommunicationLogModel{},
		&TaskModel{},
		&InsightModel{},
		&AttendanceModel{},
		&LeaveRequestModel{},
		&AnnouncementModel{},
		&InvoiceModel{},
		&FinancialRecordModel{},
		&MarketingTrendModel{},
	}
}
