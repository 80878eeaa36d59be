package hr

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmployeeService_AnalyzePerformance(t *testing.T) {
	users := new(MockUserRepository)
	attendance := new(MockAttendanceRepository)
	tasks := new(MockTaskRepository)
	analyzer := &stubPerformanceAnalyzer{}
	svc := NewEmployeeService(users, nil, attendance, tasks, analyzer, zap.NewNop())

	ctx := context.Background()
	tenantID := uuid.New()
	user, err := identity.NewUser(tenantID, "Dana Reyes", "dana@example.com", "correct-horse-battery", uuid.New())
	require.NoError(t, err)
	r := shared.DateRange{Start: testNow.AddDate(0, 0, -30), End: shared.DateOnly(testNow)}

	record, _ := hr.NewAttendance(tenantID, user.ID, testNow)
	require.NoError(t, record.Login(testNow))
	task, err := work.NewTask(tenantID, work.TaskFields{Title: "Landing page", AssignedTo: &user.ID})
	require.NoError(t, err)

	users.On("FindByID", mock.Anything, tenantID, user.ID).Return(user, nil)
	attendance.On("FindByUserBetween", mock.Anything, tenantID, user.ID, r).Return([]*hr.Attendance{record}, nil)
	tasks.On("FindCreatedBetween", mock.Anything, tenantID, r.Start, r.EndExclusive(), (*uuid.UUID)(nil), &user.ID).
		Return([]*work.Task{task}, nil)

	review, err := svc.AnalyzePerformance(ctx, tenantID, user.ID, r)
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", review.Employee.Name)
	assert.Equal(t, []string{"Reliable"}, review.Strengths)
	assert.Equal(t, r.End.Format(shared.DateLayout), review.DateRange.EndDate)
	assert.Equal(t, "Dana Reyes", analyzer.last.EmployeeName)
	assert.Len(t, analyzer.last.Attendance, 1)
	require.Len(t, analyzer.last.Tasks, 1)
	assert.Equal(t, "pending", analyzer.last.Tasks[0].Status)
}

func TestEmployeeService_AnalyzePerformanceUnknown(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewEmployeeService(users, nil, nil, nil, &stubPerformanceAnalyzer{}, zap.NewNop())
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()
	users.On("FindByID", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := svc.AnalyzePerformance(ctx, tenantID, id, shared.DateRange{Start: testNow, End: testNow})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestEmployeeService_AnalyzePerformanceLoadFailure(t *testing.T) {
	users := new(MockUserRepository)
	attendance := new(MockAttendanceRepository)
	tasks := new(MockTaskRepository)
	svc := NewEmployeeService(users, nil, attendance, tasks, &stubPerformanceAnalyzer{}, zap.NewNop())
	tenantID := uuid.New()
	user, _ := identity.NewUser(tenantID, "Dana Reyes", "dana@example.com", "correct-horse-battery", uuid.New())
	r := shared.DateRange{Start: testNow.Add(-24 * time.Hour), End: testNow}

	users.On("FindByID", mock.Anything, tenantID, user.ID).Return(user, nil)
	attendance.On("FindByUserBetween", mock.Anything, tenantID, user.ID, r).Return([]*hr.Attendance(nil), assert.AnError)
	tasks.On("FindCreatedBetween", mock.Anything, tenantID, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*work.Task{}, nil).Maybe()

	_, err := svc.AnalyzePerformance(context.Background(), tenantID, user.ID, r)
	assert.ErrorIs(t, err, assert.AnError)
}
