package finance

import (
	"sort"

	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ProfitSummary is revenue against expenses over a period
type ProfitSummary struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
}

// InvoiceTotals sums invoice amounts by status
type InvoiceTotals struct {
	TotalInvoiced   decimal.Decimal `json:"total_invoiced"`
	PaidInvoices    decimal.Decimal `json:"paid_invoices"`
	PendingInvoices decimal.Decimal `json:"pending_invoices"`
	OverdueInvoices decimal.Decimal `json:"overdue_invoices"`
	CollectionRate  decimal.Decimal `json:"collection_rate"`
}

// MonthlyFigures is one YYYY-MM bucket
type MonthlyFigures struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// Summarize totals the ledger lines
func Summarize(records []*FinancialRecord) ProfitSummary {
	s := ProfitSummary{}
	for _, r := range records {
		switch r.RecordType {
		case RecordTypeIncome:
			s.TotalRevenue = s.TotalRevenue.Add(r.Amount)
		case RecordTypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(r.Amount)
		}
	}
	s.NetProfit = s.TotalRevenue.Sub(s.TotalExpenses)
	s.ProfitMargin = percentage(s.NetProfit, s.TotalRevenue)
	return s
}

// SummarizeInvoices totals invoices by status. Collection rate is paid over invoiced.
func SummarizeInvoices(invoices []*Invoice) InvoiceTotals {
	t := InvoiceTotals{}
	for _, inv := range invoices {
		t.TotalInvoiced = t.TotalInvoiced.Add(inv.Amount)
		switch inv.Status {
		case InvoiceStatusPaid:
			t.PaidInvoices = t.PaidInvoices.Add(inv.Amount)
		case InvoiceStatusPending:
			t.PendingInvoices = t.PendingInvoices.Add(inv.Amount)
		case InvoiceStatusOverdue:
			t.OverdueInvoices = t.OverdueInvoices.Add(inv.Amount)
		}
	}
	t.CollectionRate = percentage(t.PaidInvoices, t.TotalInvoiced)
	return t
}

// MonthlyBreakdown buckets records by record month, sorted ascending
func MonthlyBreakdown(records []*FinancialRecord) []MonthlyFigures {
	byMonth := make(map[string]*MonthlyFigures)
	for _, r := range records {
		key := shared.MonthKey(r.RecordDate)
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyFigures{Month: key}
			byMonth[key] = m
		}
		switch r.RecordType {
		case RecordTypeIncome:
			m.Income = m.Income.Add(r.Amount)
		case RecordTypeExpense:
			m.Expense = m.Expense.Add(r.Amount)
		}
		m.Profit = m.Income.Sub(m.Expense)
	}

	out := make([]MonthlyFigures, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func percentage(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
