package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/hr"
)

// AttendanceModel is the persistence model for an Attendance record.
// (tenant_id, user_id, work_date) is unique.
type AttendanceModel struct {
	TenantAggregateModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_user_day,priority:1"`
	WorkDate   time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_day,priority:2"`
	LoginTime  *time.Time
	LogoutTime *time.Time
}

// TableName returns the table name for GORM
func (AttendanceModel) TableName() string {
	return "attendance"
}

// ToDomain converts the persistence model to a domain Attendance.
func (m *AttendanceModel) ToDomain() *hr.Attendance {
	a := &hr.Attendance{
		UserID:     m.UserID,
		WorkDate:   m.WorkDate,
		LoginTime:  m.LoginTime,
		LogoutTime: m.LogoutTime,
	}
	a.TenantAggregateRoot = m.TenantRoot()
	return a
}

// AttendanceModelFromDomain creates a persistence model from a domain Attendance.
func AttendanceModelFromDomain(a *hr.Attendance) *AttendanceModel {
	m := &AttendanceModel{
		UserID:     a.UserID,
		WorkDate:   CalendarDate(a.WorkDate),
		LoginTime:  a.LoginTime,
		LogoutTime: a.LogoutTime,
	}
	m.SetTenantRoot(a.TenantAggregateRoot)
	return m
}

// LeaveRequestModel is the persistence model for a LeaveRequest.
type LeaveRequestModel struct {
	TenantAggregateModel
	EmployeeID uuid.UUID      `gorm:"type:uuid;not null;index"`
	StartDate  time.Time      `gorm:"type:date;not null"`
	EndDate    time.Time      `gorm:"type:date;not null"`
	Days       int            `gorm:"not null"`
	LeaveType  hr.LeaveType   `gorm:"type:varchar(20);not null"`
	Reason     string         `gorm:"type:text"`
	Status     hr.LeaveStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ApproverID *uuid.UUID     `gorm:"type:uuid"`
	Notes      string         `gorm:"type:text"`
	DecidedAt  *time.Time
}

// TableName returns the table name for GORM
func (LeaveRequestModel) TableName() string {
	return "leave_requests"
}

// ToDomain converts the persistence model to a domain LeaveRequest.
func (m *LeaveRequestModel) ToDomain() *hr.LeaveRequest {
	r := &hr.LeaveRequest{
		EmployeeID: m.EmployeeID,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Days:       m.Days,
		LeaveType:  m.LeaveType,
		Reason:     m.Reason,
		Status:     m.Status,
		ApproverID: m.ApproverID,
		Notes:      m.Notes,
		DecidedAt:  m.DecidedAt,
	}
	r.TenantAggregateRoot = m.TenantRoot()
	return r
}

// LeaveRequestModelFromDomain creates a persistence model from a domain LeaveRequest.
func LeaveRequestModelFromDomain(r *hr.LeaveRequest) *LeaveRequestModel {
	m := &LeaveRequestModel{
		EmployeeID: r.EmployeeID,
		StartDate:  CalendarDate(r.StartDate),
		EndDate:    CalendarDate(r.EndDate),
		Days:       r.Days,
		LeaveType:  r.LeaveType,
		Reason:     r.Reason,
		Status:     r.Status,
		ApproverID: r.ApproverID,
		Notes:      r.Notes,
		DecidedAt:  r.DecidedAt,
	}
	m.SetTenantRoot(r.TenantAggregateRoot)
	return m
}

// AnnouncementModel is the persistence model for an Announcement.
type AnnouncementModel struct {
	TenantAggregateModel
	Title         string                  `gorm:"type:varchar(200);not null"`
	Content       string                  `gorm:"type:text;not null"`
	Category      hr.AnnouncementCategory `gorm:"type:varchar(20);not null;default:'general'"`
	IsPinned      bool                    `gorm:"not null;default:false"`
	AuthorID      uuid.UUID               `gorm:"type:uuid;not null"`
	AttachmentURL string                  `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AnnouncementModel) TableName() string {
	return "announcements"
}

// ToDomain converts the persistence model to a domain Announcement.
func (m *AnnouncementModel) ToDomain() *hr.Announcement {
	a := &hr.Announcement{
		Title:         m.Title,
		Content:       m.Content,
		Category:      m.Category,
		IsPinned:      m.IsPinned,
		AuthorID:      m.AuthorID,
		AttachmentURL: m.AttachmentURL,
	}
	a.TenantAggregateRoot = m.TenantRoot()
	return a
}

// AnnouncementModelFromDomain creates a persistence model from a domain Announcement.
func AnnouncementModelFromDomain(a *hr.Announcement) *AnnouncementModel {
	m := &AnnouncementModel{
		Title:         a.Title,
		Content:       a.Content,
		Category:      a.Category,
		IsPinned:      a.IsPinned,
		AuthorID:      a.AuthorID,
		AttachmentURL: a.AttachmentURL,
	}
	m.SetTenantRoot(a.TenantAggregateRoot)
	return m
}
