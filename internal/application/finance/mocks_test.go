package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of finance.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *finance.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, inv *finance.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) ([]*finance.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*finance.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) CountByClient(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*finance.Invoice, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).([]*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindPendingDueBefore(ctx context.Context, day time.Time, limit int) ([]*finance.Invoice, error) {
	args := m.Called(ctx, day, limit)
	return args.Get(0).([]*finance.Invoice), args.Error(1)
}

// MockRecordRepository is a mock implementation of finance.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Create(ctx context.Context, rec *finance.FinancialRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockRecordRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter finance.RecordFilter) ([]*finance.FinancialRecord, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*finance.FinancialRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecordRepository) FindBetween(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) ([]*finance.FinancialRecord, error) {
	args := m.Called(ctx, tenantID, r)
	return args.Get(0).([]*finance.FinancialRecord), args.Error(1)
}

func (m *MockRecordRepository) ExistsForInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	return args.Bool(0), args.Error(1)
}

// MockClientRepository is a mock implementation of crm.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, c *crm.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepository) Update(ctx context.Context, c *crm.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*crm.Client, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*crm.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) Exists(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindAllActive(ctx context.Context, tenantID uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockRoleRepository is a mock implementation of identity.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, r *identity.Role) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRoleRepository) CreateBatch(ctx context.Context, roles []*identity.Role) error {
	return m.Called(ctx, roles).Error(0)
}

func (m *MockRoleRepository) Update(ctx context.Context, r *identity.Role) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRoleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Role, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*identity.Role, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]*identity.Role, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Bool(0), args.Error(1)
}

// MockAttendanceRepository is a mock implementation of hr.AttendanceRepository
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

// MockTaskRepository is a mock implementation of work.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *work.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *work.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*work.Task, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*work.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter work.TaskFilter) ([]*work.Task, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*work.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) FindCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time, clientID, assignedTo *uuid.UUID) ([]*work.Task, error) {
	args := m.Called(ctx, tenantID, from, to, clientID, assignedTo)
	return args.Get(0).([]*work.Task), args.Error(1)
}

func (m *MockTaskRepository) FindCompletedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*work.Task, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).([]*work.Task), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type stubAnalyzer struct {
	entries []assistant.FinancialEntry
}

func (s *stubAnalyzer) AnalyzeFinancialData(_ context.Context, entries []assistant.FinancialEntry) assistant.FinancialAnalysis {
	s.entries = entries
	return assistant.FallbackFinancialAnalysis()
}
