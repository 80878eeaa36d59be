package hr

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// AttendanceDTO is the API view of an attendance record
type AttendanceDTO struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	WorkDate    string     `json:"work_date"`
	LoginTime   *time.Time `json:"login_time,omitempty"`
	LogoutTime  *time.Time `json:"logout_time,omitempty"`
	HoursWorked *float64   `json:"hours_worked,omitempty"`
}

// ToAttendanceDTO converts a domain attendance record
func ToAttendanceDTO(a *hr.Attendance) AttendanceDTO {
	dto := AttendanceDTO{
		ID:         a.ID,
		UserID:     a.UserID,
		WorkDate:   a.WorkDate.Format(shared.DateLayout),
		LoginTime:  a.LoginTime,
		LogoutTime: a.LogoutTime,
	}
	if h, ok := a.HoursWorked(); ok {
		dto.HoursWorked = &h
	}
	return dto
}

func toAttendanceDTOs(records []*hr.Attendance) []AttendanceDTO {
	out := make([]AttendanceDTO, 0, len(records))
	for _, r := range records {
		out = append(out, ToAttendanceDTO(r))
	}
	return out
}

// LeaveDTO is the API view of a leave request
type LeaveDTO struct {
	ID         uuid.UUID  `json:"id"`
	EmployeeID uuid.UUID  `json:"employee_id"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Days       int        `json:"days"`
	LeaveType  string     `json:"leave_type"`
	Reason     string     `json:"reason,omitempty"`
	Status     string     `json:"status"`
	ApproverID *uuid.UUID `json:"approver_id,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToLeaveDTO converts a domain leave request
func ToLeaveDTO(r *hr.LeaveRequest) LeaveDTO {
	return LeaveDTO{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		StartDate:  r.StartDate.Format(shared.DateLayout),
		EndDate:    r.EndDate.Format(shared.DateLayout),
		Days:       r.Days,
		LeaveType:  string(r.LeaveType),
		Reason:     r.Reason,
		Status:     string(r.Status),
		ApproverID: r.ApproverID,
		Notes:      r.Notes,
		DecidedAt:  r.DecidedAt,
		CreatedAt:  r.CreatedAt,
	}
}

// CreateLeaveInput contains input for filing a leave request
type CreateLeaveInput struct {
	TenantID   uuid.UUID
	EmployeeID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	LeaveType  hr.LeaveType
	Reason     string
}

// AnnouncementDTO is the API view of an announcement. ContentHTML is the
// rendered markdown.
type AnnouncementDTO struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ContentHTML   string    `json:"content_html"`
	Category      string    `json:"category"`
	IsPinned      bool      `json:"is_pinned"`
	AuthorID      uuid.UUID `json:"author_id"`
	AttachmentURL string    `json:"attachment_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EmployeeRef identifies the employee a report is about
type EmployeeRef struct {
	ID    uuid.UUID `json:"user_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Period is a resolved reporting window
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func periodOf(r shared.DateRange) Period {
	return Period{StartDate: r.Start.Format(shared.DateLayout), EndDate: r.End.Format(shared.DateLayout)}
}

// PerformanceReview is an employee's performance analysis over a window
type PerformanceReview struct {
	Employee  EmployeeRef `json:"employee"`
	DateRange Period      `json:"date_range"`
	assistant.EmployeePerformance
}

// AttendanceStatsReport is the tenant attendance report of a window
type AttendanceStatsReport struct {
	Period Period `json:"period"`
	hr.AttendanceStats
}

// ResumeInput is an uploaded resume
type ResumeInput struct {
	TenantID    uuid.UUID
	Position    string
	Filename    string
	ContentType string
	Data        []byte
}

// ResumeMetadata describes the analyzed upload
type ResumeMetadata struct {
	Position       string    `json:"position"`
	ResumeFilename string    `json:"resume_filename"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
	StorageKey     string    `json:"storage_key,omitempty"`
}

// ResumeAnalysis is the model's structured assessment of a resume
type ResumeAnalysis struct {
	KeySkills          []string       `json:"key_skills"`
	YearsExperience    float64        `json:"years_experience"`
	Education          string         `json:"education"`
	RelevantExperience []string       `json:"relevant_experience"`
	SkillsMatchScore   float64        `json:"skills_match_score"`
	Strengths          []string       `json:"strengths"`
	Gaps               []string       `json:"gaps"`
	Recommendation     string         `json:"recommendation"`
	Metadata           ResumeMetadata `json:"metadata"`
}
