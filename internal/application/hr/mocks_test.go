package hr

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
	"github.com/stretchr/testify/mock"
)

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Create(ctx context.Context, a *hr.Attendance) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAttendanceRepository) Update(ctx context.Context, a *hr.Attendance) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAttendanceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.Attendance, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) FindByUserAndDate(ctx context.Context, tenantID, userID uuid.UUID, workDate time.Time) (*hr.Attendance, error) {
	args := m.Called(ctx, tenantID, userID, workDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) FindByUserBetween(ctx context.Context, tenantID, userID uuid.UUID, r shared.DateRange) ([]*hr.Attendance, error) {
	args := m.Called(ctx, tenantID, userID, r)
	return args.Get(0).([]*hr.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) FindBetween(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) ([]*hr.Attendance, error) {
	args := m.Called(ctx, tenantID, r)
	return args.Get(0).([]*hr.Attendance), args.Error(1)
}

type MockLeaveRepository struct {
	mock.Mock
}

func (m *MockLeaveRepository) Create(ctx context.Context, r *hr.LeaveRequest) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockLeaveRepository) Update(ctx context.Context, r *hr.LeaveRequest) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockLeaveRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter hr.LeaveFilter) ([]*hr.LeaveRequest, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*hr.LeaveRequest), args.Get(1).(int64), args.Error(2)
}

type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) Create(ctx context.Context, a *hr.Announcement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAnnouncementRepository) Update(ctx context.Context, a *hr.Announcement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAnnouncementRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockAnnouncementRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.Announcement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, category *hr.AnnouncementCategory) ([]*hr.Announcement, int64, error) {
	args := m.Called(ctx, tenantID, filter, category)
	return args.Get(0).([]*hr.Announcement), args.Get(1).(int64), args.Error(2)
}

// MockUserRepository implements the user reads the hr services use
type MockUserRepository struct {
	mock.Mock
	identity.UserRepository
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTaskRepository implements the task reads the hr services use
type MockTaskRepository struct {
	mock.Mock
	work.TaskRepository
}

func (m *MockTaskRepository) FindCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time, clientID, assignedTo *uuid.UUID) ([]*work.Task, error) {
	args := m.Called(ctx, tenantID, from, to, clientID, assignedTo)
	return args.Get(0).([]*work.Task), args.Error(1)
}

type stubPerformanceAnalyzer struct {
	last assistant.EmployeePerformanceRequest
}

func (s *stubPerformanceAnalyzer) AnalyzeEmployeePerformance(_ context.Context, req assistant.EmployeePerformanceRequest) assistant.EmployeePerformance {
	s.last = req
	return assistant.EmployeePerformance{Strengths: []string{"Reliable"}}
}

type stubCompleter struct {
	payload string
	err     error
	prompt  string
}

func (s *stubCompleter) CompleteJSON(_ context.Context, _ string, _ string, prompt string, out any) error {
	s.prompt = prompt
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.payload), out)
}

type memoryStore struct {
	objects map[string][]byte
	err     error
}

func (m *memoryStore) Key(parts ...string) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += "/"
		}
		key += p
	}
	return key
}

func (m *memoryStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	if m.err != nil {
		return m.err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return nil
}
