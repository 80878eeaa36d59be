package hr

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

const AggregateTypeLeaveRequest = "LeaveRequest"

const (
	EventTypeLeaveRequested = "LeaveRequested"
	EventTypeLeaveDecided   = "LeaveDecided"
)

// LeaveRequestedEvent is published when an employee files a request
type LeaveRequestedEvent struct {
	shared.BaseDomainEvent
	EmployeeID uuid.UUID `json:"employee_id"`
	LeaveType  LeaveType `json:"leave_type"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Days       int       `json:"days"`
}

func NewLeaveRequestedEvent(r *LeaveRequest) *LeaveRequestedEvent {
	return &LeaveRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaveRequested, AggregateTypeLeaveRequest, r.ID, r.TenantID),
		EmployeeID:      r.EmployeeID,
		LeaveType:       r.LeaveType,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Days:            r.Days,
	}
}

// LeaveDecidedEvent is published on approval or rejection
type LeaveDecidedEvent struct {
	shared.BaseDomainEvent
	EmployeeID uuid.UUID   `json:"employee_id"`
	Status     LeaveStatus `json:"status"`
	ApproverID uuid.UUID   `json:"approver_id"`
}

func NewLeaveDecidedEvent(r *LeaveRequest) *LeaveDecidedEvent {
	e := &LeaveDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaveDecided, AggregateTypeLeaveRequest, r.ID, r.TenantID),
		EmployeeID:      r.EmployeeID,
		Status:          r.Status,
	}
	if r.ApproverID != nil {
		e.ApproverID = *r.ApproverID
	}
	return e
}
