package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/hr"
	"github.com/hyperflow/backend/internal/application/work"
	domainHR "github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/shared"
	domainWork "github.com/hyperflow/backend/internal/domain/work"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type employeeFixture struct {
	who        caller
	attendance *mockAttendanceService
	tasks      *mockTaskService
	leave      *mockLeaveService
	router     *gin.Engine
}

func newEmployeeFixture() *employeeFixture {
	f := &employeeFixture{
		who:        newCaller(),
		attendance: new(mockAttendanceService),
		tasks:      new(mockTaskService),
		leave:      new(mockLeaveService),
	}
	h := NewEmployeeHandler(f.attendance, f.tasks, f.leave, time.UTC)
	r := newTestRouter(&f.who)
	r.POST("/employee/attendance/login", h.AttendanceLogin)
	r.POST("/employee/attendance/logout", h.AttendanceLogout)
	r.GET("/employee/attendance/today", h.AttendanceToday)
	r.GET("/employee/attendance/history", h.AttendanceHistory)
	r.GET("/employee/tasks", h.ListTasks)
	r.GET("/employee/tasks/:id", h.GetTask)
	r.PUT("/employee/tasks/:id/status", h.UpdateTaskStatus)
	r.GET("/employee/leave-requests", h.ListLeaveRequests)
	r.POST("/employee/leave-requests", h.CreateLeaveRequest)
	f.router = r
	return f
}

func TestEmployeeHandler_Attendance(t *testing.T) {
	f := newEmployeeFixture()
	recordID := uuid.New()
	hours := 7.5

	f.attendance.On("Login", mock.Anything, f.who.tenantID, f.who.userID).
		Return(&hr.AttendanceDTO{ID: recordID, WorkDate: "2026-03-02"}, nil).Once()
	f.attendance.On("Login", mock.Anything, f.who.tenantID, f.who.userID).
		Return(nil, shared.NewDomainError("ALREADY_LOGGED_IN", "Already logged in today")).Once()
	f.attendance.On("Logout", mock.Anything, f.who.tenantID, f.who.userID, recordID).
		Return(&hr.AttendanceDTO{ID: recordID, HoursWorked: &hours}, nil)
	f.attendance.On("Today", mock.Anything, f.who.tenantID, f.who.userID).Return(nil, nil)

	rec := doJSON(t, f.router, http.MethodPost, "/employee/attendance/login", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, recordID, decodeData[hr.AttendanceDTO](t, rec).ID)

	rec = doJSON(t, f.router, http.MethodPost, "/employee/attendance/login", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ALREADY_LOGGED_IN", decodeError(t, rec).Code)

	rec = doJSON(t, f.router, http.MethodPost, "/employee/attendance/logout", AttendanceLogoutRequest{AttendanceID: recordID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.InDelta(t, 7.5, *decodeData[hr.AttendanceDTO](t, rec).HoursWorked, 0.001)

	rec = doJSON(t, f.router, http.MethodPost, "/employee/attendance/logout", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, f.router, http.MethodGet, "/employee/attendance/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeData[*hr.AttendanceDTO](t, rec))
}

func TestEmployeeHandler_AttendanceHistoryDefaultsToThirtyDays(t *testing.T) {
	f := newEmployeeFixture()
	f.attendance.On("History", mock.Anything, f.who.tenantID, f.who.userID, mock.MatchedBy(func(r shared.DateRange) bool {
		return r.Days() == defaultAttendanceDays+1
	})).Return([]hr.AttendanceDTO{{WorkDate: "2026-03-01"}}, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/employee/attendance/history", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeData[[]hr.AttendanceDTO](t, rec), 1)
	f.attendance.AssertExpectations(t)
}

func TestEmployeeHandler_Tasks(t *testing.T) {
	f := newEmployeeFixture()
	id := uuid.New()

	f.tasks.On("ListAssigned", mock.Anything, f.who.tenantID, f.who.userID, mock.Anything).
		Return(&shared.Paginated[work.TaskDTO]{Items: []work.TaskDTO{{ID: id}}, Total: 1, Page: 1, PageSize: 20}, nil)
	f.tasks.On("GetAssigned", mock.Anything, f.who.tenantID, f.who.userID, id).Return(&work.TaskDTO{ID: id}, nil)
	f.tasks.On("ChangeAssignedStatus", mock.Anything, f.who.tenantID, f.who.userID, id, domainWork.TaskStatus("in_progress")).
		Return(&work.TaskDTO{ID: id, Status: "in_progress"}, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/employee/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]work.TaskDTO](t, rec), 1)

	rec = doJSON(t, f.router, http.MethodGet, "/employee/tasks/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, f.router, http.MethodPut, "/employee/tasks/"+id.String()+"/status", TaskStatusRequest{Status: "in_progress"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "in_progress", decodeData[work.TaskDTO](t, rec).Status)

	rec = doJSON(t, f.router, http.MethodPut, "/employee/tasks/"+id.String()+"/status", TaskStatusRequest{Status: "done"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployeeHandler_LeaveRequests(t *testing.T) {
	f := newEmployeeFixture()

	f.leave.On("Create", mock.Anything, hr.CreateLeaveInput{
		TenantID:   f.who.tenantID,
		EmployeeID: f.who.userID,
		StartDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		LeaveType:  domainHR.LeaveType("annual"),
		Reason:     "Family trip",
	}).Return(&hr.LeaveDTO{Days: 3, Status: "pending"}, nil)
	f.leave.On("ListOwn", mock.Anything, f.who.tenantID, f.who.userID, mock.MatchedBy(func(fl domainHR.LeaveFilter) bool {
		return fl.Status != nil && *fl.Status == domainHR.LeaveStatus("approved")
	})).Return(&shared.Paginated[hr.LeaveDTO]{Items: []hr.LeaveDTO{}, Page: 1, PageSize: 20}, nil)

	rec := doJSON(t, f.router, http.MethodPost, "/employee/leave-requests", CreateLeaveRequest{
		StartDate: "2026-03-02", EndDate: "2026-03-04", LeaveType: "annual", Reason: "Family trip",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decodeData[hr.LeaveDTO](t, rec).Days)

	rec = doJSON(t, f.router, http.MethodGet, "/employee/leave-requests?status=approved", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decodeData[[]hr.LeaveDTO](t, rec))

	rec = doJSON(t, f.router, http.MethodPost, "/employee/leave-requests", CreateLeaveRequest{
		StartDate: "2026-03-02", EndDate: "2026-03-04", LeaveType: "sabbatical",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.leave.AssertNumberOfCalls(t, "Create", 1)
}
