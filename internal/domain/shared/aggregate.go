package shared

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is anything that raises domain events. Events stay pending
// until the repository write succeeds, then the service pulls and publishes them.
type AggregateRoot interface {
	PullEvents() []DomainEvent
}

// BaseAggregateRoot adds a version counter and the pending event buffer
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	pending []DomainEvent
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// IncrementVersion marks a state change: bumps Version and UpdatedAt
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.UpdatedAt = time.Now()
}

// Record queues event for publication
func (a *BaseAggregateRoot) Record(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// PendingEvents returns the queue without draining it
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return a.pending
}

// ClearDomainEvents drops the queue, e.g. when the write was rolled back
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.pending = nil
}

// PullEvents drains the queue
func (a *BaseAggregateRoot) PullEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}

// TenantAggregateRoot is an aggregate owned by one agency
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID
	CreatedBy *uuid.UUID
}

func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), TenantID: tenantID}
}

// SetCreatedBy records the user that created the aggregate
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}
