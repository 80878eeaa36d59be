package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/hr"
	domainHR "github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/shared"
	domainWork "github.com/hyperflow/backend/internal/domain/work"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
)

const defaultAttendanceDays = 30

// AttendanceService records work days
type AttendanceService interface {
	Login(ctx context.Context, tenantID, userID uuid.UUID) (*hr.AttendanceDTO, error)
	Logout(ctx context.Context, tenantID, userID, attendanceID uuid.UUID) (*hr.AttendanceDTO, error)
	Today(ctx context.Context, tenantID, userID uuid.UUID) (*hr.AttendanceDTO, error)
	History(ctx context.Context, tenantID, userID uuid.UUID, r shared.DateRange) ([]hr.AttendanceDTO, error)
	Stats(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) (*hr.AttendanceStatsReport, error)
}

// LeaveService files and decides leave requests
type LeaveService interface {
	Create(ctx context.Context, input hr.CreateLeaveInput) (*hr.LeaveDTO, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domainHR.LeaveFilter) (*shared.Paginated[hr.LeaveDTO], error)
	ListOwn(ctx context.Context, tenantID, employeeID uuid.UUID, filter domainHR.LeaveFilter) (*shared.Paginated[hr.LeaveDTO], error)
	Approve(ctx context.Context, tenantID, id, approverID uuid.UUID, notes string) (*hr.LeaveDTO, error)
	Reject(ctx context.Context, tenantID, id, approverID uuid.UUID, notes string) (*hr.LeaveDTO, error)
}

// AttendanceLogoutRequest is the body of POST /employee/attendance/logout
type AttendanceLogoutRequest struct {
	AttendanceID uuid.UUID `json:"attendance_id" binding:"required"`
}

// CreateLeaveRequest is the body of POST /employee/leave-requests
type CreateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02" example:"2026-03-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02" example:"2026-03-04"`
	LeaveType string `json:"leave_type" binding:"required,oneof=annual sick wfh half_day personal other"`
	Reason    string `json:"reason" binding:"max=1000"`
}

// LeaveListQuery holds the filters of the leave lists
type LeaveListQuery struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

func (h *BaseHandler) leaveFilter(c *gin.Context) (domainHR.LeaveFilter, bool) {
	var q LeaveListQuery
	if !h.bindQuery(c, &q) {
		return domainHR.LeaveFilter{}, false
	}
	filter := domainHR.LeaveFilter{Filter: listFilter(q.ListRequest)}
	if q.Status != "" {
		status := domainHR.LeaveStatus(q.Status)
		filter.Status = &status
	}
	return filter, true
}

// EmployeeHandler serves the self-service endpoints of the logged-in employee
type EmployeeHandler struct {
	BaseHandler
	attendance AttendanceService
	tasks      TaskService
	leave      LeaveService
	loc        *time.Location
}

// NewEmployeeHandler creates a new self-service handler
func NewEmployeeHandler(attendance AttendanceService, tasks TaskService, leave LeaveService, loc *time.Location) *EmployeeHandler {
	return &EmployeeHandler{attendance: attendance, tasks: tasks, leave: leave, loc: loc}
}

// AttendanceLogin godoc
// @ID           attendanceLogin
// @Summary      Start today's work day
// @Tags         employee
// @Produce      json
// @Success      200 {object} APIResponse[hr.AttendanceDTO]
// @Failure      400 {object} ErrorResponse "Already logged in for today"
// @Security     BearerAuth
// @Router       /employee/attendance/login [post]
func (h *EmployeeHandler) AttendanceLogin(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}

	record, err := h.attendance.Login(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// AttendanceLogout godoc
// @ID           attendanceLogout
// @Summary      End a work day
// @Tags         employee
// @Accept       json
// @Produce      json
// @Param        request body AttendanceLogoutRequest true "Attendance record"
// @Success      200 {object} APIResponse[hr.AttendanceDTO]
// @Failure      400 {object} ErrorResponse "Already logged out"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employee/attendance/logout [post]
func (h *EmployeeHandler) AttendanceLogout(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req AttendanceLogoutRequest
	if !h.bindJSON(c, &req) {
		return
	}

	record, err := h.attendance.Logout(c.Request.Context(), tenantID, userID, req.AttendanceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// AttendanceToday godoc
// @ID           attendanceToday
// @Summary      Today's attendance record
// @Description  data is null before the first login of the day
// @Tags         employee
// @Produce      json
// @Success      200 {object} APIResponse[hr.AttendanceDTO]
// @Security     BearerAuth
// @Router       /employee/attendance/today [get]
func (h *EmployeeHandler) AttendanceToday(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}

	record, err := h.attendance.Today(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// AttendanceHistory godoc
// @ID           attendanceHistory
// @Summary      Own attendance history
// @Description  Newest first; defaults to the last 30 days
// @Tags         employee
// @Produce      json
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Success      200 {object} APIResponse[[]hr.AttendanceDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employee/attendance/history [get]
func (h *EmployeeHandler) AttendanceHistory(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	r, ok := h.dateRange(c, defaultAttendanceDays, h.loc)
	if !ok {
		return
	}

	records, err := h.attendance.History(c.Request.Context(), tenantID, userID, r)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// ListTasks godoc
// @ID           listOwnTasks
// @Summary      Tasks assigned to me
// @Tags         employee
// @Produce      json
// @Param        status query string false "Task status" Enums(pending, in_progress, completed, cancelled)
// @Success      200 {object} APIResponse[[]work.TaskDTO]
// @Security     BearerAuth
// @Router       /employee/tasks [get]
func (h *EmployeeHandler) ListTasks(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	filter, ok := h.taskFilter(c)
	if !ok {
		return
	}

	page, err := h.tasks.ListAssigned(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetTask godoc
// @ID           getOwnTask
// @Summary      One of my tasks
// @Tags         employee
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} APIResponse[work.TaskDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employee/tasks/{id} [get]
func (h *EmployeeHandler) GetTask(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetAssigned(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// UpdateTaskStatus godoc
// @ID           updateOwnTaskStatus
// @Summary      Move one of my tasks
// @Tags         employee
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body TaskStatusRequest true "New status"
// @Success      200 {object} APIResponse[work.TaskDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employee/tasks/{id}/status [put]
func (h *EmployeeHandler) UpdateTaskStatus(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req TaskStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.ChangeAssignedStatus(c.Request.Context(), tenantID, userID, id, domainWork.TaskStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// ListLeaveRequests godoc
// @ID           listOwnLeaveRequests
// @Summary      My leave requests
// @Tags         employee
// @Produce      json
// @Param        status query string false "Leave status" Enums(pending, approved, rejected)
// @Success      200 {object} APIResponse[[]hr.LeaveDTO]
// @Security     BearerAuth
// @Router       /employee/leave-requests [get]
func (h *EmployeeHandler) ListLeaveRequests(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	filter, ok := h.leaveFilter(c)
	if !ok {
		return
	}

	page, err := h.leave.ListOwn(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// CreateLeaveRequest godoc
// @ID           createLeaveRequest
// @Summary      Request leave
// @Tags         employee
// @Accept       json
// @Produce      json
// @Param        request body CreateLeaveRequest true "Leave"
// @Success      201 {object} APIResponse[hr.LeaveDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employee/leave-requests [post]
func (h *EmployeeHandler) CreateLeaveRequest(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req CreateLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	leave, err := h.leave.Create(c.Request.Context(), hr.CreateLeaveInput{
		TenantID:   tenantID,
		EmployeeID: userID,
		StartDate:  *start,
		EndDate:    *end,
		LeaveType:  domainHR.LeaveType(req.LeaveType),
		Reason:     req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, leave)
}
