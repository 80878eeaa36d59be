package hr

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// LeaveType classifies a leave request
type LeaveType string

const (
	LeaveTypeAnnual   LeaveType = "annual"
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypeWFH      LeaveType = "wfh"
	LeaveTypeHalfDay  LeaveType = "half_day"
	LeaveTypePersonal LeaveType = "personal"
	LeaveTypeOther    LeaveType = "other"
)

func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypeWFH, LeaveTypeHalfDay, LeaveTypePersonal, LeaveTypeOther:
		return true
	}
	return false
}

// LeaveStatus is the approval state
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

func (s LeaveStatus) IsValid() bool {
	return s == LeaveStatusPending || s == LeaveStatusApproved || s == LeaveStatusRejected
}

// LeaveRequest is an employee's request for time off
type LeaveRequest struct {
	shared.TenantAggregateRoot
	EmployeeID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Days       int
	LeaveType  LeaveType
	Reason     string
	Status     LeaveStatus
	ApproverID *uuid.UUID
	Notes      string
	DecidedAt  *time.Time
}

// NewLeaveRequest creates a pending request covering start..end inclusive
func NewLeaveRequest(tenantID, employeeID uuid.UUID, start, end time.Time, leaveType LeaveType, reason string) (*LeaveRequest, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE_ID", "Employee ID cannot be empty")
	}
	if !leaveType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LEAVE_TYPE", "Unknown leave type: "+string(leaveType))
	}
	start, end = shared.DateOnly(start), shared.DateOnly(end)
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_LEAVE_DATES", "End date cannot be before start date")
	}
	if len(reason) > 1000 {
		return nil, shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 1000 characters")
	}

	r := &LeaveRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeID:          employeeID,
		StartDate:           start,
		EndDate:             end,
		Days:                shared.DateRange{Start: start, End: end}.Days(),
		LeaveType:           leaveType,
		Reason:              strings.TrimSpace(reason),
		Status:              LeaveStatusPending,
	}
	r.Record(NewLeaveRequestedEvent(r))
	return r, nil
}

// Approve accepts a pending request
func (r *LeaveRequest) Approve(approverID uuid.UUID, notes string, now time.Time) error {
	return r.decide(LeaveStatusApproved, approverID, notes, now)
}

// Reject declines a pending request
func (r *LeaveRequest) Reject(approverID uuid.UUID, notes string, now time.Time) error {
	return r.decide(LeaveStatusRejected, approverID, notes, now)
}

func (r *LeaveRequest) decide(status LeaveStatus, approverID uuid.UUID, notes string, now time.Time) error {
	if r.Status != LeaveStatusPending {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only pending leave requests can be "+string(status))
	}
	r.Status = status
	r.ApproverID = &approverID
	r.Notes = strings.TrimSpace(notes)
	r.DecidedAt = &now
	r.IncrementVersion()
	r.Record(NewLeaveDecidedEvent(r))
	return nil
}
