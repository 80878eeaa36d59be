package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
	"github.com/stretchr/testify/mock"
)

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

type MockCommunicationRepository struct {
	mock.Mock
}

func (m *MockCommunicationRepository) Create(ctx context.Context, l *crm.CommunicationLog) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockCommunicationRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, limit int) ([]*crm.CommunicationLog, error) {
	args := m.Called(ctx, tenantID, clientID, limit)
	return args.Get(0).([]*crm.CommunicationLog), args.Error(1)
}

type MockBrandRepository struct {
	mock.Mock
}

func (m *MockBrandRepository) Create(ctx context.Context, b *crm.Brand) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBrandRepository) Update(ctx context.Context, b *crm.Brand) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBrandRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockBrandRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Brand, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Brand), args.Error(1)
}

func (m *MockBrandRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]*crm.Brand, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).([]*crm.Brand), args.Error(1)
}

// MockTaskRepository only implements the reads the crm services use
type MockTaskRepository struct {
	mock.Mock
	work.TaskRepository
}

func (m *MockTaskRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter work.TaskFilter) ([]*work.Task, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*work.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) FindCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time, clientID, assignedTo *uuid.UUID) ([]*work.Task, error) {
	args := m.Called(ctx, tenantID, from, to, clientID, assignedTo)
	return args.Get(0).([]*work.Task), args.Error(1)
}

type MockInvoiceCounter struct {
	mock.Mock
}

func (m *MockInvoiceCounter) CountByClient(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).(int64), args.Error(1)
}

type stubAnalyzer struct {
	last assistant.ClientInputRequest
}

func (a *stubAnalyzer) AnalyzeClientInput(_ context.Context, req assistant.ClientInputRequest) assistant.ClientInputAnalysis {
	a.last = req
	return assistant.ClientInputAnalysis{Sentiment: "neutral", PriorityLevel: "medium"}
}
