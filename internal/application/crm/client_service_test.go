package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	client, err := crm.NewClient(tenantID, "Acme", "Old description", "hello@acme.test")
	require.NoError(t, err)

	repo := new(MockClientRepository)
	svc := NewClientService(repo, new(MockInvoiceCounter), nil, zap.NewNop())
	repo.On("FindByID", ctx, tenantID, client.ID).Return(client, nil)
	repo.On("Update", ctx, client).Return(nil)

	name := "Acme Corp"
	dto, err := svc.Update(ctx, UpdateClientInput{TenantID: tenantID, ID: client.ID, ClientUpdate: crm.ClientUpdate{Name: &name}})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", dto.Name)
	assert.Equal(t, "Old description", dto.Description)
	assert.Equal(t, "hello@acme.test", dto.ContactInfo)
}

func TestClientService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	client, _ := crm.NewClient(tenantID, "Acme", "", "")

	t.Run("client with invoices is kept", func(t *testing.T) {
		repo := new(MockClientRepository)
		invoices := new(MockInvoiceCounter)
		svc := NewClientService(repo, invoices, nil, zap.NewNop())
		repo.On("FindByID", ctx, tenantID, client.ID).Return(client, nil)
		invoices.On("CountByClient", ctx, tenantID, client.ID).Return(int64(2), nil)

		err := svc.Delete(ctx, tenantID, client.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CLIENT_HAS_INVOICES", domainErr.Code)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown client", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo, new(MockInvoiceCounter), nil, zap.NewNop())
		repo.On("FindByID", ctx, tenantID, client.ID).Return(nil, shared.ErrNotFound)

		err := svc.Delete(ctx, tenantID, client.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("success", func(t *testing.T) {
		repo := new(MockClientRepository)
		invoices := new(MockInvoiceCounter)
		svc := NewClientService(repo, invoices, nil, zap.NewNop())
		repo.On("FindByID", ctx, tenantID, client.ID).Return(client, nil)
		invoices.On("CountByClient", ctx, tenantID, client.ID).Return(int64(0), nil)
		repo.On("Delete", ctx, tenantID, client.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, client.ID))
		repo.AssertExpectations(t)
	})
}

func TestBrandService_LogCommunication(t *testing.T) {
	ctx := context.Background()
	tenantID, clientID, sender := uuid.New(), uuid.New(), uuid.New()

	clients := new(MockClientRepository)
	comms := new(MockCommunicationRepository)
	svc := NewBrandService(clients, new(MockBrandRepository), comms, zap.NewNop())
	clients.On("Exists", ctx, tenantID, clientID).Return(true, nil)
	comms.On("Create", ctx, mock.AnythingOfType("*crm.CommunicationLog")).Return(nil)

	dto, err := svc.LogCommunication(ctx, tenantID, clientID, sender, "Email", "Kickoff notes")
	require.NoError(t, err)
	assert.Equal(t, "email", dto.Channel)
	assert.Equal(t, sender, dto.SenderID)
	assert.Equal(t, &clientID, dto.ClientID)
}

func TestBrandService_CreateBrandRequiresClient(t *testing.T) {
	ctx := context.Background()
	tenantID, clientID := uuid.New(), uuid.New()
	clients := new(MockClientRepository)
	brands := new(MockBrandRepository)
	svc := NewBrandService(clients, brands, new(MockCommunicationRepository), zap.NewNop())
	clients.On("Exists", ctx, tenantID, clientID).Return(false, nil)

	_, err := svc.CreateBrand(ctx, tenantID, clientID, crm.BrandFields{Name: "Acme Kids"})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	brands.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInsightService_AnalyzeInputAttachesHistory(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	client, _ := crm.NewClient(tenantID, "Acme", "", "")
	task, _ := work.NewTask(tenantID, work.TaskFields{Title: "Logo refresh", Description: "New palette", ClientID: &client.ID})
	log, _ := crm.NewCommunicationLog(tenantID, &client.ID, uuid.New(), "slack", "Can we go bolder?")

	clients := new(MockClientRepository)
	comms := new(MockCommunicationRepository)
	tasks := new(MockTaskRepository)
	analyzer := &stubAnalyzer{}
	svc := NewInsightService(clients, comms, tasks, analyzer, zap.NewNop())

	clients.On("FindByID", mock.Anything, tenantID, client.ID).Return(client, nil)
	tasks.On("FindAll", mock.Anything, tenantID, mock.MatchedBy(func(f work.TaskFilter) bool {
		return f.ClientID != nil && *f.ClientID == client.ID
	})).Return([]*work.Task{task}, int64(1), nil)
	comms.On("FindByClient", mock.Anything, tenantID, client.ID, historyMessages).Return([]*crm.CommunicationLog{log}, nil)

	result, err := svc.AnalyzeInput(ctx, tenantID, "Need the new logo urgently", &client.ID)
	require.NoError(t, err)
	assert.Equal(t, "medium", result.PriorityLevel)
	require.NotNil(t, analyzer.last.History)
	require.Len(t, analyzer.last.History.Tasks, 1)
	assert.Equal(t, "Logo refresh", analyzer.last.History.Tasks[0].Title)
	assert.Equal(t, "pending", analyzer.last.History.Tasks[0].Status)
	require.Len(t, analyzer.last.History.Communications, 1)
	assert.Equal(t, "slack", analyzer.last.History.Communications[0].Channel)

	// without a client no history is loaded
	_, err = svc.AnalyzeInput(ctx, tenantID, "Just text", nil)
	require.NoError(t, err)
	assert.Nil(t, analyzer.last.History)
}

func TestInsightService_PerformanceReport(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	client, _ := crm.NewClient(tenantID, "Acme", "", "")
	start := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	done, _ := work.NewTask(tenantID, work.TaskFields{Title: "Done", ClientID: &client.ID})
	est := 2.0
	done.EstimatedTime = &est
	require.NoError(t, done.ChangeStatus(work.TaskStatusInProgress, start))
	require.NoError(t, done.ChangeStatus(work.TaskStatusCompleted, start.Add(4*time.Hour)))
	open, _ := work.NewTask(tenantID, work.TaskFields{Title: "Open", ClientID: &client.ID})

	r := shared.DateRange{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)}
	clients := new(MockClientRepository)
	tasks := new(MockTaskRepository)
	svc := NewInsightService(clients, new(MockCommunicationRepository), tasks, &stubAnalyzer{}, zap.NewNop())
	clients.On("FindByID", ctx, tenantID, client.ID).Return(client, nil)
	tasks.On("FindCreatedBetween", ctx, tenantID, r.Start, r.EndExclusive(), &client.ID, (*uuid.UUID)(nil)).
		Return([]*work.Task{done, open}, nil)

	report, err := svc.PerformanceReport(ctx, tenantID, client.ID, r)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", report.Period.StartDate)
	assert.Equal(t, "2024-03-31", report.Period.EndDate)
	assert.Equal(t, 2, report.TotalTasks)
	assert.Equal(t, 1, report.CompletedTasks)
	assert.Equal(t, 50.0, report.CompletionRate)
	assert.Equal(t, 4.0, report.AvgCompletionTimeHours)
	assert.Equal(t, 50.0, report.EfficiencyPercentage)
	assert.Equal(t, 1, report.StatusBreakdown[work.TaskStatusPending])
}
