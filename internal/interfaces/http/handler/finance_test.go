package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/finance"
	domainFinance "github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type financeFixture struct {
	who      caller
	invoices *mockInvoiceService
	pdf      *mockInvoiceRenderer
	records  *mockRecordService
	reports  *mockFinanceReports
	router   *gin.Engine
}

func newFinanceFixture() *financeFixture {
	f := &financeFixture{
		who:      newCaller(),
		invoices: new(mockInvoiceService),
		pdf:      new(mockInvoiceRenderer),
		records:  new(mockRecordService),
		reports:  new(mockFinanceReports),
	}
	h := NewFinanceHandler(f.invoices, f.pdf, f.records, f.reports, time.UTC)
	r := newTestRouter(&f.who)
	r.GET("/finance/invoices", h.ListInvoices)
	r.POST("/finance/invoices", h.CreateInvoice)
	r.GET("/finance/invoices/:id", h.GetInvoice)
	r.PATCH("/finance/invoices/:id/status", h.UpdateInvoiceStatus)
	r.GET("/finance/invoices/:id/pdf", h.InvoicePDF)
	r.GET("/finance/financial-records", h.ListRecords)
	r.POST("/finance/financial-records", h.CreateRecord)
	r.GET("/finance/financial-summary", h.Summary)
	r.POST("/finance/analyze-cost", h.AnalyzeCost)
	f.router = r
	return f
}

func TestFinanceHandler_CreateInvoice(t *testing.T) {
	f := newFinanceFixture()
	clientID := uuid.New()

	f.invoices.On("Create", mock.Anything, mock.MatchedBy(func(in finance.CreateInvoiceInput) bool {
		return in.ClientID == clientID && in.InvoiceNumber == "INV-0042" &&
			in.Amount.Equal(decimal.RequireFromString("1250.00")) && in.DueDate != nil
	})).Return(&finance.InvoiceDTO{InvoiceNumber: "INV-0042", Amount: decimal.RequireFromString("1250.00"), Status: "pending"}, nil).Once()
	f.invoices.On("Create", mock.Anything, mock.Anything).Return(nil, shared.ErrDuplicate).Once()

	body := `{"client_id":"` + clientID.String() + `","invoice_number":"INV-0042","amount":"1250.00","due_date":"2026-02-28"}`
	rec := doJSON(t, f.router, http.MethodPost, "/finance/invoices", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeData[finance.InvoiceDTO](t, rec)
	assert.Equal(t, "pending", got.Status)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1250)))

	rec = doJSON(t, f.router, http.MethodPost, "/finance/invoices", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, f.router, http.MethodPost, "/finance/invoices", `{"invoice_number":"INV-1","amount":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinanceHandler_Invoices(t *testing.T) {
	f := newFinanceFixture()
	id := uuid.New()

	f.invoices.On("List", mock.Anything, f.who.tenantID, mock.MatchedBy(func(fl domainFinance.InvoiceFilter) bool {
		return fl.Status != nil && *fl.Status == domainFinance.InvoiceStatus("overdue")
	})).Return(&shared.Paginated[finance.InvoiceDTO]{Items: []finance.InvoiceDTO{{ID: id}}, Total: 1, Page: 1, PageSize: 20}, nil)
	f.invoices.On("Get", mock.Anything, f.who.tenantID, id).Return(&finance.InvoiceDTO{ID: id}, nil)
	f.invoices.On("ChangeStatus", mock.Anything, f.who.tenantID, id, domainFinance.InvoiceStatus("paid")).
		Return(&finance.InvoiceDTO{ID: id, Status: "paid"}, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/finance/invoices?status=overdue", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeData[[]finance.InvoiceDTO](t, rec), 1)

	rec = doJSON(t, f.router, http.MethodGet, "/finance/invoices/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, f.router, http.MethodPatch, "/finance/invoices/"+id.String()+"/status", InvoiceStatusRequest{Status: "paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "paid", decodeData[finance.InvoiceDTO](t, rec).Status)

	rec = doJSON(t, f.router, http.MethodPatch, "/finance/invoices/"+id.String()+"/status", InvoiceStatusRequest{Status: "void"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinanceHandler_InvoicePDF(t *testing.T) {
	f := newFinanceFixture()
	id, missing := uuid.New(), uuid.New()
	content := []byte("%PDF-1.7 fake")

	f.pdf.On("Render", mock.Anything, f.who.tenantID, id).
		Return(&finance.InvoicePDF{Filename: "INV-0042.pdf", Content: content, StorageKey: "invoices/t/INV-0042.pdf"}, nil)
	f.pdf.On("Render", mock.Anything, f.who.tenantID, missing).
		Return(nil, shared.NewDomainError("PDF_UNAVAILABLE", "PDF rendering is not configured"))

	rec := doJSON(t, f.router, http.MethodGet, "/finance/invoices/"+id.String()+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="INV-0042.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "invoices/t/INV-0042.pdf", rec.Header().Get(StorageKeyHeader))
	assert.Equal(t, content, rec.Body.Bytes())

	rec = doJSON(t, f.router, http.MethodGet, "/finance/invoices/"+missing.String()+"/pdf", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, rec.Header().Get(StorageKeyHeader))
}

func TestFinanceHandler_Records(t *testing.T) {
	f := newFinanceFixture()

	f.records.On("List", mock.Anything, f.who.tenantID, mock.MatchedBy(func(fl domainFinance.RecordFilter) bool {
		return fl.Range == nil && fl.RecordType == nil
	})).Return(&shared.Paginated[finance.RecordDTO]{Items: []finance.RecordDTO{}, Page: 1, PageSize: 20}, nil).Once()
	f.records.On("List", mock.Anything, f.who.tenantID, mock.MatchedBy(func(fl domainFinance.RecordFilter) bool {
		return fl.Range != nil && fl.Range.End.Format(shared.DateLayout) == "2026-01-31" &&
			fl.Range.Start.Before(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			fl.RecordType != nil && *fl.RecordType == domainFinance.RecordType("expense")
	})).Return(&shared.Paginated[finance.RecordDTO]{Items: []finance.RecordDTO{{RecordType: "expense"}}, Total: 1, Page: 1, PageSize: 20}, nil).Once()
	f.records.On("Create", mock.Anything, mock.MatchedBy(func(in finance.CreateRecordInput) bool {
		return in.RecordType == domainFinance.RecordType("income") && in.CreatedBy == f.who.userID &&
			in.RecordDate.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	})).Return(&finance.RecordDTO{RecordType: "income", RecordDate: "2026-01-15"}, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/finance/financial-records", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, f.router, http.MethodGet, "/finance/financial-records?record_type=expense&end_date=2026-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeData[[]finance.RecordDTO](t, rec), 1)

	rec = doJSON(t, f.router, http.MethodPost, "/finance/financial-records", `{"record_type":"income","amount":"300.00","record_date":"2026-01-15"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "2026-01-15", decodeData[finance.RecordDTO](t, rec).RecordDate)

	rec = doJSON(t, f.router, http.MethodPost, "/finance/financial-records", `{"record_type":"refund","amount":"1","record_date":"2026-01-15"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.records.AssertExpectations(t)
}

func TestFinanceHandler_Reports(t *testing.T) {
	f := newFinanceFixture()

	f.reports.On("Summary", mock.Anything, f.who.tenantID, mock.MatchedBy(func(r shared.DateRange) bool {
		return r.Days() == defaultFinanceDays+1
	})).Return(&finance.FinancialSummary{Period: finance.Period{StartDate: "a", EndDate: "b"}}, nil)
	f.reports.On("AnalyzeCost", mock.Anything, f.who.tenantID, mock.Anything).
		Return(&finance.CostReport{Period: finance.Period{StartDate: "2026-01-01", EndDate: "2026-01-31"}}, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/finance/financial-summary", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "a", decodeData[finance.FinancialSummary](t, rec).Period.StartDate)

	rec = doJSON(t, f.router, http.MethodPost, "/finance/analyze-cost?start_date=2026-01-01&end_date=2026-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2026-01-31", decodeData[finance.CostReport](t, rec).Period.EndDate)

	rec = doJSON(t, f.router, http.MethodGet, "/finance/financial-summary?days=0", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
