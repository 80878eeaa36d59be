package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/application/crm"
	domainCRM "github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
)

const (
	defaultClientReportDays  = 90
	defaultCommunicationPage = 50
)

// ClientService manages clients
type ClientService interface {
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[crm.ClientDTO], error)
	Create(ctx context.Context, input crm.CreateClientInput) (*crm.ClientDTO, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*crm.ClientDTO, error)
	Update(ctx context.Context, input crm.UpdateClientInput) (*crm.ClientDTO, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Exists(ctx context.Context, tenantID, id uuid.UUID) error
}

// BrandService manages the brands and communication log of clients
type BrandService interface {
	ListBrands(ctx context.Context, tenantID, clientID uuid.UUID) ([]crm.BrandDTO, error)
	CreateBrand(ctx context.Context, tenantID, clientID uuid.UUID, fields domainCRM.BrandFields) (*crm.BrandDTO, error)
	UpdateBrand(ctx context.Context, tenantID, id uuid.UUID, fields domainCRM.BrandFields) (*crm.BrandDTO, error)
	DeleteBrand(ctx context.Context, tenantID, id uuid.UUID) error
	ListCommunications(ctx context.Context, tenantID, clientID uuid.UUID, limit int) ([]crm.CommunicationDTO, error)
	LogCommunication(ctx context.Context, tenantID, clientID, senderID uuid.UUID, channel, message string) (*crm.CommunicationDTO, error)
}

// ClientInsightService analyzes client requests and delivery
type ClientInsightService interface {
	AnalyzeInput(ctx context.Context, tenantID uuid.UUID, text string, clientID *uuid.UUID) (*assistant.ClientInputAnalysis, error)
	PerformanceReport(ctx context.Context, tenantID, clientID uuid.UUID, r shared.DateRange) (*crm.PerformanceReport, error)
}

// CreateClientRequest is the body of POST /clients
type CreateClientRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	ContactInfo string `json:"contact_info" binding:"max=255"`
}

// UpdateClientRequest is the body of PUT /clients/:id; omitted fields are unchanged
type UpdateClientRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	ContactInfo *string `json:"contact_info" binding:"omitempty,max=255"`
}

// BrandRequest is the body of the brand create and update endpoints
type BrandRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Logo        string `json:"logo" binding:"max=500"`
	Description string `json:"description"`
	Website     string `json:"website" binding:"omitempty,url,max=255"`
	Industry    string `json:"industry" binding:"max=100"`
}

func (r BrandRequest) fields() domainCRM.BrandFields {
	return domainCRM.BrandFields{
		Name:        r.Name,
		Logo:        r.Logo,
		Description: r.Description,
		Website:     r.Website,
		Industry:    r.Industry,
	}
}

// CommunicationRequest is the body of POST /clients/:id/communications
type CommunicationRequest struct {
	Channel string `json:"channel" binding:"required,max=50"`
	Message string `json:"message" binding:"required"`
}

// CommunicationQuery limits the communication log
type CommunicationQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// AnalyzeInputRequest is the body of POST /clients/analyze-input
type AnalyzeInputRequest struct {
	Text     string     `json:"text" binding:"required"`
	ClientID *uuid.UUID `json:"client_id"`
}

// ClientHandler handles client, brand and communication HTTP requests
type ClientHandler struct {
	BaseHandler
	clients  ClientService
	brands   BrandService
	tasks    TaskService
	insights ClientInsightService
	loc      *time.Location
}

// NewClientHandler creates a new client handler; loc anchors report windows
func NewClientHandler(clients ClientService, brands BrandService, tasks TaskService, insights ClientInsightService, loc *time.Location) *ClientHandler {
	return &ClientHandler{clients: clients, brands: brands, tasks: tasks, insights: insights, loc: loc}
}

// List godoc
// @ID           listClients
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name contains"
// @Success      200 {object} APIResponse[[]crm.ClientDTO]
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.bindQuery(c, &q) {
		return
	}

	page, err := h.clients.List(c.Request.Context(), tenantID, listFilter(q))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// Create godoc
// @ID           createClient
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body CreateClientRequest true "Client"
// @Success      201 {object} APIResponse[crm.ClientDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req CreateClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clients.Create(c.Request.Context(), crm.CreateClientInput{
		TenantID:    tenantID,
		CreatedBy:   userID,
		Name:        req.Name,
		Description: req.Description,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// Get godoc
// @ID           getClient
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} APIResponse[crm.ClientDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	client, err := h.clients.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Update godoc
// @ID           updateClient
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        request body UpdateClientRequest true "Fields to change"
// @Success      200 {object} APIResponse[crm.ClientDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req UpdateClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clients.Update(c.Request.Context(), crm.UpdateClientInput{
		TenantID: tenantID,
		ID:       id,
		ClientUpdate: domainCRM.ClientUpdate{
			Name:        req.Name,
			Description: req.Description,
			ContactInfo: req.ContactInfo,
		},
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete godoc
// @ID           deleteClient
// @Summary      Delete a client
// @Description  Clients with invoices cannot be deleted
// @Tags         clients
// @Param        id path string true "Client ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	if err := h.clients.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListTasks godoc
// @ID           listClientTasks
// @Summary      Tasks of a client
// @Description  Newest first
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        status query string false "Task status" Enums(pending, in_progress, completed, cancelled)
// @Success      200 {object} APIResponse[[]work.TaskDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/tasks [get]
func (h *ClientHandler) ListTasks(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	filter, ok := h.taskFilter(c)
	if !ok {
		return
	}
	if err := h.clients.Exists(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	filter.ClientID = &id

	page, err := h.tasks.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// CreateTask godoc
// @ID           createClientTask
// @Summary      Create a task for a client
// @Description  The client in the path overrides client_id in the body
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        request body CreateTaskRequest true "Task"
// @Success      201 {object} APIResponse[work.TaskDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/tasks [post]
func (h *ClientHandler) CreateTask(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.clients.Exists(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	input, err := createTaskInput(tenantID, userID, req, &id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, task)
}

// ListBrands godoc
// @ID           listClientBrands
// @Summary      Brands of a client
// @Tags         brands
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} APIResponse[[]crm.BrandDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/brands [get]
func (h *ClientHandler) ListBrands(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	brands, err := h.brands.ListBrands(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brands)
}

// CreateBrand godoc
// @ID           createBrand
// @Summary      Add a brand to a client
// @Tags         brands
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        request body BrandRequest true "Brand"
// @Success      201 {object} APIResponse[crm.BrandDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/brands [post]
func (h *ClientHandler) CreateBrand(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req BrandRequest
	if !h.bindJSON(c, &req) {
		return
	}

	brand, err := h.brands.CreateBrand(c.Request.Context(), tenantID, id, req.fields())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, brand)
}

// UpdateBrand godoc
// @ID           updateBrand
// @Summary      Update a brand
// @Tags         brands
// @Accept       json
// @Produce      json
// @Param        id path string true "Brand ID"
// @Param        request body BrandRequest true "Brand"
// @Success      200 {object} APIResponse[crm.BrandDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id} [put]
func (h *ClientHandler) UpdateBrand(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req BrandRequest
	if !h.bindJSON(c, &req) {
		return
	}

	brand, err := h.brands.UpdateBrand(c.Request.Context(), tenantID, id, req.fields())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// DeleteBrand godoc
// @ID           deleteBrand
// @Summary      Delete a brand
// @Tags         brands
// @Param        id path string true "Brand ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brands/{id} [delete]
func (h *ClientHandler) DeleteBrand(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	if err := h.brands.DeleteBrand(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListCommunications godoc
// @ID           listCommunications
// @Summary      Communication log of a client
// @Description  Newest first
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        limit query int false "Maximum entries" default(50)
// @Success      200 {object} APIResponse[[]crm.CommunicationDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/communications [get]
func (h *ClientHandler) ListCommunications(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var q CommunicationQuery
	if !h.bindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultCommunicationPage
	}

	logs, err := h.brands.ListCommunications(c.Request.Context(), tenantID, id, q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// LogCommunication godoc
// @ID           logCommunication
// @Summary      Record a message exchanged with a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        request body CommunicationRequest true "Message"
// @Success      201 {object} APIResponse[crm.CommunicationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/communications [post]
func (h *ClientHandler) LogCommunication(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req CommunicationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.brands.LogCommunication(c.Request.Context(), tenantID, id, userID, req.Channel, req.Message)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// AnalyzeInput godoc
// @ID           analyzeClientInput
// @Summary      Analyze a client request
// @Description  With client_id the client's tasks and communications are used as context
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body AnalyzeInputRequest true "Client text"
// @Success      200 {object} APIResponse[assistant.ClientInputAnalysis]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/analyze-input [post]
func (h *ClientHandler) AnalyzeInput(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req AnalyzeInputRequest
	if !h.bindJSON(c, &req) {
		return
	}

	analysis, err := h.insights.AnalyzeInput(c.Request.Context(), tenantID, req.Text, req.ClientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, analysis)
}

// PerformanceReport godoc
// @ID           clientPerformanceReport
// @Summary      Delivery report of a client
// @Description  Tasks created in the window; defaults to the last 90 days
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Success      200 {object} APIResponse[crm.PerformanceReport]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/reports/performance [get]
func (h *ClientHandler) PerformanceReport(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	r, ok := h.dateRange(c, defaultClientReportDays, h.loc)
	if !ok {
		return
	}

	report, err := h.insights.PerformanceReport(c.Request.Context(), tenantID, id, r)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
