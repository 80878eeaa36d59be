package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// InvoiceDocument is everything printed on an invoice
type InvoiceDocument struct {
	CompanyName   string
	InvoiceNumber string
	Status        string
	ClientName    string
	ClientContact string
	Description   string
	Amount        decimal.Decimal
	IssuedAt      time.Time
	DueDate       *time.Time
	PaidAt        *time.Time
}

// InvoiceTemplate renders InvoiceDocument to HTML for one locale and currency
type InvoiceTemplate struct {
	tmpl    *template.Template
	printer *message.Printer
	unit    currency.Unit
	lang    language.Tag
}

// NewInvoiceTemplate parses the built-in layout. Unknown locales fall back
// to en-US and unknown currency codes to USD.
func NewInvoiceTemplate(locale, currencyCode string) (*InvoiceTemplate, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.USD
	}

	t := &InvoiceTemplate{
		printer: message.NewPrinter(tag),
		unit:    unit,
		lang:    tag,
	}
	t.tmpl, err = template.New("invoice").Funcs(template.FuncMap{
		"money": t.FormatMoney,
		"date":  formatDate,
		"title": cases.Title(tag).String,
	}).Parse(invoiceLayout)
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}
	return t, nil
}

// FormatMoney formats amount with the currency symbol and locale grouping
func (t *InvoiceTemplate) FormatMoney(amount decimal.Decimal) string {
	return t.printer.Sprint(currency.Symbol(t.unit.Amount(amount.Round(2).InexactFloat64())))
}

// Render executes the template
func (t *InvoiceTemplate) Render(doc InvoiceDocument) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render invoice %s: %w", doc.InvoiceNumber, err)
	}
	return buf.String(), nil
}

func formatDate(v any) string {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return "-"
		}
		return d.Format("Jan 2, 2006")
	case *time.Time:
		if d == nil || d.IsZero() {
			return "-"
		}
		return d.Format("Jan 2, 2006")
	default:
		return "-"
	}
}

const invoiceLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1f2933; margin: 0; }
header { display: flex; justify-content: space-between; border-bottom: 2px solid #3b82f6; padding-bottom: 12px; }
h1 { margin: 0; font-size: 28px; }
.meta td { padding: 2px 12px 2px 0; }
.status { text-transform: uppercase; font-weight: bold; }
.status-paid { color: #059669; }
.status-overdue { color: #dc2626; }
table.lines { width: 100%; border-collapse: collapse; margin-top: 32px; }
table.lines th, table.lines td { border-bottom: 1px solid #e5e7eb; padding: 8px; text-align: left; }
.total { text-align: right; font-size: 20px; margin-top: 24px; }
</style>
</head>
<body>
<header>
  <div><h1>{{.CompanyName}}</h1></div>
  <div>
    <h1>Invoice</h1>
    <table class="meta">
      <tr><td>Number</td><td>{{.InvoiceNumber}}</td></tr>
      <tr><td>Issued</td><td>{{date .IssuedAt}}</td></tr>
      <tr><td>Due</td><td>{{date .DueDate}}</td></tr>
      {{if .PaidAt}}<tr><td>Paid</td><td>{{date .PaidAt}}</td></tr>{{end}}
      <tr><td>Status</td><td class="status status-{{.Status}}">{{title .Status}}</td></tr>
    </table>
  </div>
</header>
<section>
  <h3>Bill to</h3>
  <p>{{.ClientName}}{{if .ClientContact}}<br>{{.ClientContact}}{{end}}</p>
</section>
<table class="lines">
  <thead><tr><th>Description</th><th>Amount</th></tr></thead>
  <tbody><tr><td>{{if .Description}}{{.Description}}{{else}}Agency services{{end}}</td><td>{{money .Amount}}</td></tr></tbody>
</table>
<p class="total">Total due: <strong>{{money .Amount}}</strong></p>
</body>
</html>
`
