package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/application/crm"
	"github.com/hyperflow/backend/internal/application/work"
	domainCRM "github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/shared"
	domainWork "github.com/hyperflow/backend/internal/domain/work"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type clientFixture struct {
	who      caller
	clients  *mockClientService
	brands   *mockBrandService
	tasks    *mockTaskService
	insights *mockClientInsights
	router   *gin.Engine
}

func newClientFixture() *clientFixture {
	f := &clientFixture{
		who:      newCaller(),
		clients:  new(mockClientService),
		brands:   new(mockBrandService),
		tasks:    new(mockTaskService),
		insights: new(mockClientInsights),
	}
	h := NewClientHandler(f.clients, f.brands, f.tasks, f.insights, time.UTC)
	r := newTestRouter(&f.who)
	r.GET("/clients", h.List)
	r.POST("/clients", h.Create)
	r.GET("/clients/:id", h.Get)
	r.PUT("/clients/:id", h.Update)
	r.DELETE("/clients/:id", h.Delete)
	r.GET("/clients/:id/tasks", h.ListTasks)
	r.POST("/clients/:id/tasks", h.CreateTask)
	r.GET("/clients/:id/brands", h.ListBrands)
	r.POST("/clients/:id/brands", h.CreateBrand)
	r.PUT("/brands/:id", h.UpdateBrand)
	r.DELETE("/brands/:id", h.DeleteBrand)
	r.GET("/clients/:id/communications", h.ListCommunications)
	r.POST("/clients/:id/communications", h.LogCommunication)
	r.POST("/clients/analyze-input", h.AnalyzeInput)
	r.GET("/clients/:id/reports/performance", h.PerformanceReport)
	f.router = r
	return f
}

func TestClientHandler_CRUD(t *testing.T) {
	f := newClientFixture()
	id := uuid.New()

	f.clients.On("Create", mock.Anything, crm.CreateClientInput{
		TenantID: f.who.tenantID, CreatedBy: f.who.userID, Name: "Acme", ContactInfo: "ops@acme.test",
	}).Return(&crm.ClientDTO{ID: id, Name: "Acme"}, nil)
	f.clients.On("List", mock.Anything, f.who.tenantID, mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Search == "acme"
	})).Return(&shared.Paginated[crm.ClientDTO]{Items: []crm.ClientDTO{{ID: id, Name: "Acme"}}, Total: 1, Page: 1, PageSize: 20}, nil)
	f.clients.On("Update", mock.Anything, mock.MatchedBy(func(in crm.UpdateClientInput) bool {
		return in.ID == id && in.Name != nil && *in.Name == "Acme Corp" && in.Description == nil
	})).Return(&crm.ClientDTO{ID: id, Name: "Acme Corp"}, nil)
	f.clients.On("Delete", mock.Anything, f.who.tenantID, id).
		Return(shared.NewDomainError("CLIENT_HAS_INVOICES", "Client has invoices"))

	rec := doJSON(t, f.router, http.MethodPost, "/clients", CreateClientRequest{Name: "Acme", ContactInfo: "ops@acme.test"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, f.router, http.MethodGet, "/clients?search=acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", decodeData[[]crm.ClientDTO](t, rec)[0].Name)

	rec = doJSON(t, f.router, http.MethodPut, "/clients/"+id.String(), `{"name":"Acme Corp"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Acme Corp", decodeData[crm.ClientDTO](t, rec).Name)

	rec = doJSON(t, f.router, http.MethodDelete, "/clients/"+id.String(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CLIENT_HAS_INVOICES", decodeError(t, rec).Code)

	rec = doJSON(t, f.router, http.MethodPost, "/clients", `{"contact_info":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientHandler_Tasks(t *testing.T) {
	f := newClientFixture()
	id, other := uuid.New(), uuid.New()

	f.clients.On("Exists", mock.Anything, f.who.tenantID, id).Return(nil)
	f.clients.On("Exists", mock.Anything, f.who.tenantID, other).Return(shared.ErrNotFound)
	f.tasks.On("List", mock.Anything, f.who.tenantID, mock.MatchedBy(func(fl domainWork.TaskFilter) bool {
		return fl.ClientID != nil && *fl.ClientID == id
	})).Return(&shared.Paginated[work.TaskDTO]{Items: []work.TaskDTO{{Title: "Logo"}}, Total: 1, Page: 1, PageSize: 20}, nil)
	f.tasks.On("Create", mock.Anything, mock.MatchedBy(func(in work.CreateTaskInput) bool {
		return in.ClientID != nil && *in.ClientID == id && in.CreatedBy == f.who.userID
	})).Return(&work.TaskDTO{Title: "Logo", ClientID: &id}, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/clients/"+id.String()+"/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeData[[]work.TaskDTO](t, rec), 1)

	bodyClient := uuid.New()
	rec = doJSON(t, f.router, http.MethodPost, "/clients/"+id.String()+"/tasks", CreateTaskRequest{Title: "Logo", ClientID: &bodyClient})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, id, *decodeData[work.TaskDTO](t, rec).ClientID)

	rec = doJSON(t, f.router, http.MethodGet, "/clients/"+other.String()+"/tasks", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, f.router, http.MethodPost, "/clients/"+other.String()+"/tasks", CreateTaskRequest{Title: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	f.tasks.AssertNumberOfCalls(t, "Create", 1)
}

func TestClientHandler_Brands(t *testing.T) {
	f := newClientFixture()
	clientID, brandID := uuid.New(), uuid.New()

	fields := domainCRM.BrandFields{Name: "Acme Kids", Website: "https://kids.acme.test", Industry: "Retail"}
	f.brands.On("CreateBrand", mock.Anything, f.who.tenantID, clientID, fields).
		Return(&crm.BrandDTO{ID: brandID, ClientID: clientID, Name: "Acme Kids"}, nil)
	f.brands.On("ListBrands", mock.Anything, f.who.tenantID, clientID).Return([]crm.BrandDTO{{ID: brandID}}, nil)
	f.brands.On("UpdateBrand", mock.Anything, f.who.tenantID, brandID, mock.MatchedBy(func(bf domainCRM.BrandFields) bool {
		return bf.Name == "Acme Junior"
	})).Return(&crm.BrandDTO{ID: brandID, Name: "Acme Junior"}, nil)
	f.brands.On("DeleteBrand", mock.Anything, f.who.tenantID, brandID).Return(nil)

	rec := doJSON(t, f.router, http.MethodPost, "/clients/"+clientID.String()+"/brands",
		BrandRequest{Name: "Acme Kids", Website: "https://kids.acme.test", Industry: "Retail"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, f.router, http.MethodGet, "/clients/"+clientID.String()+"/brands", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]crm.BrandDTO](t, rec), 1)

	rec = doJSON(t, f.router, http.MethodPut, "/brands/"+brandID.String(), BrandRequest{Name: "Acme Junior"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, f.router, http.MethodDelete, "/brands/"+brandID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, f.router, http.MethodPost, "/clients/"+clientID.String()+"/brands", BrandRequest{Name: "x", Website: "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientHandler_Communications(t *testing.T) {
	f := newClientFixture()
	id := uuid.New()

	f.brands.On("ListCommunications", mock.Anything, f.who.tenantID, id, defaultCommunicationPage).
		Return([]crm.CommunicationDTO{{Channel: "email"}}, nil).Once()
	f.brands.On("ListCommunications", mock.Anything, f.who.tenantID, id, 5).
		Return([]crm.CommunicationDTO{}, nil).Once()
	f.brands.On("LogCommunication", mock.Anything, f.who.tenantID, id, f.who.userID, "slack", "Kickoff moved").
		Return(&crm.CommunicationDTO{Channel: "slack", Message: "Kickoff moved"}, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/clients/"+id.String()+"/communications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "email", decodeData[[]crm.CommunicationDTO](t, rec)[0].Channel)

	rec = doJSON(t, f.router, http.MethodGet, "/clients/"+id.String()+"/communications?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, f.router, http.MethodGet, "/clients/"+id.String()+"/communications?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, f.router, http.MethodPost, "/clients/"+id.String()+"/communications", CommunicationRequest{Channel: "slack", Message: "Kickoff moved"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	f.brands.AssertExpectations(t)
}

func TestClientHandler_Insights(t *testing.T) {
	f := newClientFixture()
	id := uuid.New()

	f.insights.On("AnalyzeInput", mock.Anything, f.who.tenantID, "We need a spring campaign ASAP", (*uuid.UUID)(nil)).
		Return(&assistant.ClientInputAnalysis{Sentiment: "neutral", PriorityLevel: "high"}, nil)
	f.insights.On("PerformanceReport", mock.Anything, f.who.tenantID, id, mock.MatchedBy(func(r shared.DateRange) bool {
		return r.Start.Format(shared.DateLayout) == "2026-01-01" && r.End.Format(shared.DateLayout) == "2026-03-31"
	})).Return(&crm.PerformanceReport{ClientID: id, ClientName: "Acme", Period: crm.Period{StartDate: "2026-01-01", EndDate: "2026-03-31"}}, nil)

	rec := doJSON(t, f.router, http.MethodPost, "/clients/analyze-input", AnalyzeInputRequest{Text: "We need a spring campaign ASAP"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "high", decodeData[assistant.ClientInputAnalysis](t, rec).PriorityLevel)

	rec = doJSON(t, f.router, http.MethodGet, "/clients/"+id.String()+"/reports/performance?start_date=2026-01-01&end_date=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Acme", decodeData[crm.PerformanceReport](t, rec).ClientName)
}
