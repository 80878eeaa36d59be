package persistence

import (
	"strings"
)

// Sortable is the ORDER BY whitelist of one table. Request values only reach
// SQL after matching a listed column exactly.
type Sortable struct {
	columns  map[string]struct{}
	fallback string
}

// sortable whitelists columns plus id, created_at, updated_at and fallback
func sortable(fallback string, columns ...string) Sortable {
	s := Sortable{columns: map[string]struct{}{}, fallback: fallback}
	for _, c := range append(columns, "id", "created_at", "updated_at", fallback) {
		s.columns[c] = struct{}{}
	}
	return s
}

// Clause returns "column DIR, id DIR". Unknown columns use the fallback and
// anything but asc sorts descending. The id tiebreak keeps pages stable when
// the sort column repeats.
func (s Sortable) Clause(column, dir string) string {
	column = strings.TrimSpace(column)
	if _, ok := s.columns[column]; !ok {
		column = s.fallback
	}
	d := "DESC"
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		d = "ASC"
	}
	if column == "id" {
		return "id " + d
	}
	return column + " " + d + ", id " + d
}

var (
	userSort         = sortable("created_at", "name", "email", "department", "position", "status", "last_login_at")
	clientSort       = sortable("created_at", "name")
	taskSort         = sortable("created_at", "title", "status", "due_date", "start_time", "end_time", "estimated_time")
	leaveSort        = sortable("created_at", "start_date", "end_date", "status", "leave_type")
	announcementSort = sortable("created_at", "title", "category")
	invoiceSort      = sortable("created_at", "invoice_number", "amount", "due_date", "status", "paid_at")
	recordSort       = sortable("record_date", "amount", "record_type")
	trendSort        = sortable("created_at", "industry")
)
