package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/hr"
	identityapp "github.com/hyperflow/backend/internal/application/identity"
	"github.com/hyperflow/backend/internal/application/work"
	domainHR "github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	domainWork "github.com/hyperflow/backend/internal/domain/work"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
)

// DefaultResumeMaxBytes caps resume uploads when no limit is configured
const DefaultResumeMaxBytes int64 = 5 << 20

// EmployeeService is the HR view of the staff
type EmployeeService interface {
	List(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) (*shared.Paginated[identityapp.UserDTO], error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*identityapp.UserDTO, error)
	Attendance(ctx context.Context, tenantID, id uuid.UUID, r shared.DateRange) ([]hr.AttendanceDTO, error)
	Tasks(ctx context.Context, tenantID, id uuid.UUID, filter domainWork.TaskFilter) (*shared.Paginated[work.TaskDTO], error)
	AnalyzePerformance(ctx context.Context, tenantID, id uuid.UUID, r shared.DateRange) (*hr.PerformanceReview, error)
}

// AnnouncementService manages company announcements
type AnnouncementService interface {
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, category *domainHR.AnnouncementCategory) (*shared.Paginated[hr.AnnouncementDTO], error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*hr.AnnouncementDTO, error)
	Create(ctx context.Context, tenantID, authorID uuid.UUID, fields domainHR.AnnouncementFields) (*hr.AnnouncementDTO, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, fields domainHR.AnnouncementFields) (*hr.AnnouncementDTO, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ResumeAnalyzer assesses uploaded resumes
type ResumeAnalyzer interface {
	AnalyzeResume(ctx context.Context, input hr.ResumeInput) (*hr.ResumeAnalysis, error)
}

// LeaveDecisionRequest is the optional body of approve and reject
type LeaveDecisionRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// AnnouncementRequest is the body of the announcement create and update endpoints
type AnnouncementRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	Content       string `json:"content" binding:"required"`
	Category      string `json:"category" binding:"omitempty,oneof=general hr company event"`
	IsPinned      bool   `json:"is_pinned"`
	AttachmentURL string `json:"attachment_url" binding:"omitempty,url,max=500"`
}

func (r AnnouncementRequest) fields() domainHR.AnnouncementFields {
	category := domainHR.AnnouncementGeneral
	if r.Category != "" {
		category = domainHR.AnnouncementCategory(r.Category)
	}
	return domainHR.AnnouncementFields{
		Title:         r.Title,
		Content:       r.Content,
		Category:      category,
		IsPinned:      r.IsPinned,
		AttachmentURL: r.AttachmentURL,
	}
}

// AnnouncementListQuery holds the filters of GET /hr/announcements
type AnnouncementListQuery struct {
	dto.ListRequest
	Category string `form:"category" binding:"omitempty,oneof=general hr company event"`
}

// PerformanceQuery selects the employee of POST /hr/analyze-performance
type PerformanceQuery struct {
	UserID string `form:"user_id" binding:"required,uuid"`
}

// HRHandler serves the /hr endpoints
type HRHandler struct {
	BaseHandler
	employees     EmployeeService
	attendance    AttendanceService
	leave         LeaveService
	announcements AnnouncementService
	recruitment   ResumeAnalyzer
	maxResume     int64
	loc           *time.Location
}

// HRHandlerConfig holds the limits of HRHandler
type HRHandlerConfig struct {
	ResumeMaxBytes int64
	Location       *time.Location
}

// NewHRHandler creates a new HR handler
func NewHRHandler(
	employees EmployeeService,
	attendance AttendanceService,
	leave LeaveService,
	announcements AnnouncementService,
	recruitment ResumeAnalyzer,
	cfg HRHandlerConfig,
) *HRHandler {
	if cfg.ResumeMaxBytes <= 0 {
		cfg.ResumeMaxBytes = DefaultResumeMaxBytes
	}
	return &HRHandler{
		employees:     employees,
		attendance:    attendance,
		leave:         leave,
		announcements: announcements,
		recruitment:   recruitment,
		maxResume:     cfg.ResumeMaxBytes,
		loc:           cfg.Location,
	}
}

// ListEmployees godoc
// @ID           listEmployees
// @Summary      List employees
// @Tags         hr
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name or email"
// @Param        department query string false "Department"
// @Success      200 {object} APIResponse[[]identity.UserDTO]
// @Security     BearerAuth
// @Router       /hr/employees [get]
func (h *HRHandler) ListEmployees(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.userFilter(c)
	if !ok {
		return
	}

	page, err := h.employees.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetEmployee godoc
// @ID           getEmployee
// @Summary      Get an employee
// @Tags         hr
// @Produce      json
// @Param        id path string true "Employee user ID"
// @Success      200 {object} APIResponse[identity.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/employees/{id} [get]
func (h *HRHandler) GetEmployee(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	employee, err := h.employees.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// EmployeeAttendance godoc
// @ID           employeeAttendance
// @Summary      Attendance of an employee
// @Description  Defaults to the last 30 days
// @Tags         hr
// @Produce      json
// @Param        id path string true "Employee user ID"
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Success      200 {object} APIResponse[[]hr.AttendanceDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/employees/{id}/attendance [get]
func (h *HRHandler) EmployeeAttendance(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	r, ok := h.dateRange(c, defaultAttendanceDays, h.loc)
	if !ok {
		return
	}

	records, err := h.employees.Attendance(c.Request.Context(), tenantID, id, r)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// EmployeeTasks godoc
// @ID           employeeTasks
// @Summary      Tasks assigned to an employee
// @Tags         hr
// @Produce      json
// @Param        id path string true "Employee user ID"
// @Param        status query string false "Task status" Enums(pending, in_progress, completed, cancelled)
// @Success      200 {object} APIResponse[[]work.TaskDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/employees/{id}/tasks [get]
func (h *HRHandler) EmployeeTasks(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	filter, ok := h.taskFilter(c)
	if !ok {
		return
	}

	page, err := h.employees.Tasks(c.Request.Context(), tenantID, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// AnalyzePerformance godoc
// @ID           analyzeEmployeePerformance
// @Summary      Performance review of an employee
// @Description  Attendance and tasks within the window; defaults to the last 30 days
// @Tags         hr
// @Produce      json
// @Param        user_id query string true "Employee user ID"
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Success      200 {object} APIResponse[hr.PerformanceReview]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/analyze-performance [post]
func (h *HRHandler) AnalyzePerformance(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q PerformanceQuery
	if !h.bindQuery(c, &q) {
		return
	}
	r, ok := h.dateRange(c, defaultAttendanceDays, h.loc)
	if !ok {
		return
	}

	review, err := h.employees.AnalyzePerformance(c.Request.Context(), tenantID, uuid.MustParse(q.UserID), r)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// AnalyzeResume godoc
// @ID           analyzeResume
// @Summary      Assess a resume for a position
// @Description  Plain-text resumes only. The file is archived to object storage when configured.
// @Tags         hr
// @Accept       multipart/form-data
// @Produce      json
// @Param        position formData string true "Position applied for"
// @Param        resume formData file true "Resume"
// @Success      200 {object} APIResponse[hr.ResumeAnalysis]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/resume-analysis [post]
func (h *HRHandler) AnalyzeResume(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	position := c.PostForm("position")
	if position == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRequired, "position is required")
		return
	}
	file, err := c.FormFile("resume")
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRequired, "resume file is required")
		return
	}
	if file.Size > h.maxResume {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Resume file is too large")
		return
	}

	f, err := file.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxResume+1))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if int64(len(data)) > h.maxResume {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Resume file is too large")
		return
	}

	analysis, err := h.recruitment.AnalyzeResume(c.Request.Context(), hr.ResumeInput{
		TenantID:    tenantID,
		Position:    position,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, analysis)
}

// AttendanceStats godoc
// @ID           attendanceStats
// @Summary      Daily attendance statistics
// @Description  Defaults to the last 30 days
// @Tags         hr
// @Produce      json
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Success      200 {object} APIResponse[hr.AttendanceStatsReport]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/attendance-stats [get]
func (h *HRHandler) AttendanceStats(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	r, ok := h.dateRange(c, defaultAttendanceDays, h.loc)
	if !ok {
		return
	}

	stats, err := h.attendance.Stats(c.Request.Context(), tenantID, r)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ListLeaveRequests godoc
// @ID           listLeaveRequests
// @Summary      Leave requests of all employees
// @Tags         hr
// @Produce      json
// @Param        status query string false "Leave status" Enums(pending, approved, rejected)
// @Success      200 {object} APIResponse[[]hr.LeaveDTO]
// @Security     BearerAuth
// @Router       /hr/leave-requests [get]
func (h *HRHandler) ListLeaveRequests(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.leaveFilter(c)
	if !ok {
		return
	}

	page, err := h.leave.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// ApproveLeave godoc
// @ID           approveLeave
// @Summary      Approve a pending leave request
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave request ID"
// @Param        request body LeaveDecisionRequest false "Notes"
// @Success      200 {object} APIResponse[hr.LeaveDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/leave-requests/{id}/approve [post]
func (h *HRHandler) ApproveLeave(c *gin.Context) {
	h.decideLeave(c, h.leave.Approve)
}

// RejectLeave godoc
// @ID           rejectLeave
// @Summary      Reject a pending leave request
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave request ID"
// @Param        request body LeaveDecisionRequest false "Notes"
// @Success      200 {object} APIResponse[hr.LeaveDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/leave-requests/{id}/reject [post]
func (h *HRHandler) RejectLeave(c *gin.Context) {
	h.decideLeave(c, h.leave.Reject)
}

func (h *HRHandler) decideLeave(c *gin.Context, decide func(ctx context.Context, tenantID, id, approverID uuid.UUID, notes string) (*hr.LeaveDTO, error)) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req LeaveDecisionRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	leave, err := decide(c.Request.Context(), tenantID, id, userID, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leave)
}

// ListAnnouncements godoc
// @ID           listAnnouncements
// @Summary      List announcements
// @Description  Pinned first, then newest first; content_html is the rendered markdown
// @Tags         announcements
// @Produce      json
// @Param        category query string false "Category" Enums(general, hr, company, event)
// @Success      200 {object} APIResponse[[]hr.AnnouncementDTO]
// @Security     BearerAuth
// @Router       /hr/announcements [get]
func (h *HRHandler) ListAnnouncements(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q AnnouncementListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	var category *domainHR.AnnouncementCategory
	if q.Category != "" {
		cat := domainHR.AnnouncementCategory(q.Category)
		category = &cat
	}

	page, err := h.announcements.List(c.Request.Context(), tenantID, listFilter(q.ListRequest), category)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetAnnouncement godoc
// @ID           getAnnouncement
// @Summary      Get an announcement
// @Tags         announcements
// @Produce      json
// @Param        id path string true "Announcement ID"
// @Success      200 {object} APIResponse[hr.AnnouncementDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/announcements/{id} [get]
func (h *HRHandler) GetAnnouncement(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	a, err := h.announcements.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// CreateAnnouncement godoc
// @ID           createAnnouncement
// @Summary      Publish an announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Param        request body AnnouncementRequest true "Announcement"
// @Success      201 {object} APIResponse[hr.AnnouncementDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/announcements [post]
func (h *HRHandler) CreateAnnouncement(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req AnnouncementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.announcements.Create(c.Request.Context(), tenantID, userID, req.fields())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, a)
}

// UpdateAnnouncement godoc
// @ID           updateAnnouncement
// @Summary      Update an announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Param        id path string true "Announcement ID"
// @Param        request body AnnouncementRequest true "Announcement"
// @Success      200 {object} APIResponse[hr.AnnouncementDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/announcements/{id} [put]
func (h *HRHandler) UpdateAnnouncement(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req AnnouncementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.announcements.Update(c.Request.Context(), tenantID, id, req.fields())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// DeleteAnnouncement godoc
// @ID           deleteAnnouncement
// @Summary      Delete an announcement
// @Tags         announcements
// @Param        id path string true "Announcement ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/announcements/{id} [delete]
func (h *HRHandler) DeleteAnnouncement(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	if err := h.announcements.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
