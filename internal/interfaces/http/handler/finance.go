package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/finance"
	domainFinance "github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

const (
	defaultFinanceDays = 90
	// openRangeDays bounds a record filter given only an end date
	openRangeDays = 100 * 365
	// StorageKeyHeader carries the archive location of a rendered PDF
	StorageKeyHeader = "X-Storage-Key"
)

// InvoiceService manages invoices
type InvoiceService interface {
	List(ctx context.Context, tenantID uuid.UUID, filter domainFinance.InvoiceFilter) (*shared.Paginated[finance.InvoiceDTO], error)
	Create(ctx context.Context, input finance.CreateInvoiceInput) (*finance.InvoiceDTO, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*finance.InvoiceDTO, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status domainFinance.InvoiceStatus) (*finance.InvoiceDTO, error)
}

// InvoiceRenderer renders invoices to PDF
type InvoiceRenderer interface {
	Render(ctx context.Context, tenantID, id uuid.UUID) (*finance.InvoicePDF, error)
}

// RecordService manages income and expense records
type RecordService interface {
	List(ctx context.Context, tenantID uuid.UUID, filter domainFinance.RecordFilter) (*shared.Paginated[finance.RecordDTO], error)
	Create(ctx context.Context, input finance.CreateRecordInput) (*finance.RecordDTO, error)
}

// FinanceReportService builds the financial reports
type FinanceReportService interface {
	Summary(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) (*finance.FinancialSummary, error)
	AnalyzeCost(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) (*finance.CostReport, error)
}

// CreateInvoiceRequest is the body of POST /finance/invoices
type CreateInvoiceRequest struct {
	ClientID      uuid.UUID       `json:"client_id" binding:"required"`
	InvoiceNumber string          `json:"invoice_number" binding:"required,max=50"`
	Amount        decimal.Decimal `json:"amount" binding:"required,amount" swaggertype:"number" example:"1250.00"`
	DueDate       string          `json:"due_date" binding:"omitempty,datetime=2006-01-02" example:"2026-02-28"`
}

// InvoiceStatusRequest is the body of PATCH /finance/invoices/:id/status
type InvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid overdue"`
}

// InvoiceListQuery holds the filters of GET /finance/invoices
type InvoiceListQuery struct {
	dto.ListRequest
	Status   string `form:"status" binding:"omitempty,oneof=pending paid overdue"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
}

// CreateRecordRequest is the body of POST /finance/financial-records
type CreateRecordRequest struct {
	RecordType  string          `json:"record_type" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal `json:"amount" binding:"required,amount" swaggertype:"number" example:"300.00"`
	Description string          `json:"description" binding:"max=500"`
	RecordDate  string          `json:"record_date" binding:"required,datetime=2006-01-02" example:"2026-01-15"`
}

// RecordListQuery holds the filters of GET /finance/financial-records
type RecordListQuery struct {
	dto.ListRequest
	RecordType string `form:"record_type" binding:"omitempty,oneof=income expense"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
}

// FinanceHandler serves the /finance endpoints
type FinanceHandler struct {
	BaseHandler
	invoices InvoiceService
	pdf      InvoiceRenderer
	records  RecordService
	reports  FinanceReportService
	loc      *time.Location
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(invoices InvoiceService, pdf InvoiceRenderer, records RecordService, reports FinanceReportService, loc *time.Location) *FinanceHandler {
	return &FinanceHandler{invoices: invoices, pdf: pdf, records: records, reports: reports, loc: loc}
}

// ListInvoices godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Newest first
// @Tags         finance
// @Produce      json
// @Param        status query string false "Invoice status" Enums(pending, paid, overdue)
// @Param        client_id query string false "Client ID"
// @Success      200 {object} APIResponse[[]finance.InvoiceDTO]
// @Security     BearerAuth
// @Router       /finance/invoices [get]
func (h *FinanceHandler) ListInvoices(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q InvoiceListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter := domainFinance.InvoiceFilter{Filter: listFilter(q.ListRequest)}
	if q.Status != "" {
		status := domainFinance.InvoiceStatus(q.Status)
		filter.Status = &status
	}
	if q.ClientID != "" {
		id := uuid.MustParse(q.ClientID)
		filter.ClientID = &id
	}

	page, err := h.invoices.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// CreateInvoice godoc
// @ID           createInvoice
// @Summary      Issue an invoice
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[finance.InvoiceDTO]
// @Failure      400 {object} ErrorResponse "Invalid body or duplicate invoice number"
// @Failure      404 {object} ErrorResponse "Client not found"
// @Security     BearerAuth
// @Router       /finance/invoices [post]
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	due, err := parseDate(req.DueDate, "due_date")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	invoice, err := h.invoices.Create(c.Request.Context(), finance.CreateInvoiceInput{
		TenantID:      tenantID,
		CreatedBy:     userID,
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		DueDate:       due,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetInvoice godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         finance
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse[finance.InvoiceDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/invoices/{id} [get]
func (h *FinanceHandler) GetInvoice(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	invoice, err := h.invoices.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// UpdateInvoiceStatus godoc
// @ID           updateInvoiceStatus
// @Summary      Change the status of an invoice
// @Description  Marking an invoice paid books the matching income record
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body InvoiceStatusRequest true "New status"
// @Success      200 {object} APIResponse[finance.InvoiceDTO]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/invoices/{id}/status [patch]
func (h *FinanceHandler) UpdateInvoiceStatus(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req InvoiceStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoices.ChangeStatus(c.Request.Context(), tenantID, id, domainFinance.InvoiceStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// InvoicePDF godoc
// @ID           invoicePDF
// @Summary      Download an invoice as PDF
// @Tags         finance
// @Produce      application/pdf
// @Param        id path string true "Invoice ID"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/invoices/{id}/pdf [get]
func (h *FinanceHandler) InvoicePDF(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	doc, err := h.pdf.Render(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if doc.StorageKey != "" {
		c.Header(StorageKeyHeader, doc.StorageKey)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}

// ListRecords godoc
// @ID           listFinancialRecords
// @Summary      List financial records
// @Description  Newest record date first
// @Tags         finance
// @Produce      json
// @Param        record_type query string false "Record type" Enums(income, expense)
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Success      200 {object} APIResponse[[]finance.RecordDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/financial-records [get]
func (h *FinanceHandler) ListRecords(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q RecordListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter := domainFinance.RecordFilter{Filter: listFilter(q.ListRequest)}
	if q.RecordType != "" {
		rt := domainFinance.RecordType(q.RecordType)
		filter.RecordType = &rt
	}
	if q.StartDate != "" || q.EndDate != "" {
		r, ok := h.dateRange(c, openRangeDays, h.loc)
		if !ok {
			return
		}
		filter.Range = &r
	}

	page, err := h.records.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// CreateRecord godoc
// @ID           createFinancialRecord
// @Summary      Book an income or expense
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body CreateRecordRequest true "Record"
// @Success      201 {object} APIResponse[finance.RecordDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/financial-records [post]
func (h *FinanceHandler) CreateRecord(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req CreateRecordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	date, err := parseDate(req.RecordDate, "record_date")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	record, err := h.records.Create(c.Request.Context(), finance.CreateRecordInput{
		TenantID:    tenantID,
		CreatedBy:   userID,
		RecordType:  domainFinance.RecordType(req.RecordType),
		Amount:      req.Amount,
		Description: req.Description,
		RecordDate:  *date,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// Summary godoc
// @ID           financialSummary
// @Summary      Financial summary
// @Description  Profit, invoice totals and monthly breakdown; defaults to the last 90 days
// @Tags         finance
// @Produce      json
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Success      200 {object} APIResponse[finance.FinancialSummary]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/financial-summary [get]
func (h *FinanceHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	r, ok := h.dateRange(c, defaultFinanceDays, h.loc)
	if !ok {
		return
	}

	summary, err := h.reports.Summary(c.Request.Context(), tenantID, r)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// AnalyzeCost godoc
// @ID           analyzeCost
// @Summary      Labour cost analysis
// @Description  Cost per employee, role and client; defaults to the last 90 days
// @Tags         finance
// @Produce      json
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date query string false "YYYY-MM-DD"
// @Success      200 {object} APIResponse[finance.CostReport]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/analyze-cost [post]
func (h *FinanceHandler) AnalyzeCost(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	r, ok := h.dateRange(c, defaultFinanceDays, h.loc)
	if !ok {
		return
	}

	report, err := h.reports.AnalyzeCost(c.Request.Context(), tenantID, r)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
