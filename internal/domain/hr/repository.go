package hr

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// AttendanceRepository persists attendance records
type AttendanceRepository interface {
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Attendance, error)
	// FindByUserAndDate returns the user's record for the calendar day, or shared.ErrNotFound.
	FindByUserAndDate(ctx context.Context, tenantID, userID uuid.UUID, workDate time.Time) (*Attendance, error)
	// FindByUserBetween returns the user's records with work_date in r, newest first.
	FindByUserBetween(ctx context.Context, tenantID, userID uuid.UUID, r shared.DateRange) ([]*Attendance, error)
	// FindBetween returns every record of the tenant with work_date in r.
	FindBetween(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) ([]*Attendance, error)
}

// LeaveFilter narrows leave listings
type LeaveFilter struct {
	shared.Filter
	Status     *LeaveStatus
	EmployeeID *uuid.UUID
}

// LeaveRepository persists leave requests
type LeaveRepository interface {
	Create(ctx context.Context, r *LeaveRequest) error
	Update(ctx context.Context, r *LeaveRequest) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*LeaveRequest, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter LeaveFilter) ([]*LeaveRequest, int64, error)
}

// AnnouncementRepository persists announcements
type AnnouncementRepository interface {
	Create(ctx context.Context, a *Announcement) error
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Announcement, error)
	// FindAll lists pinned announcements first, then newest first.
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, category *AnnouncementCategory) ([]*Announcement, int64, error)
}
