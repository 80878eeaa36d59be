package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortable_Clause(t *testing.T) {
	s := sortable("created_at", "name")

	tests := []struct {
		column, dir string
		want        string
	}{
		{"", "", "created_at DESC, id DESC"},
		{"name", "asc", "name ASC, id ASC"},
		{"  name ", " ASC ", "name ASC, id ASC"},
		{"updated_at", "desc", "updated_at DESC, id DESC"},
		{"id", "asc", "id ASC"},
		{"NAME", "asc", "created_at ASC, id ASC"},
		{"email", "asc", "created_at ASC, id ASC"},
		{"name", "sideways", "name DESC, id DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Clause(tt.column, tt.dir), "%q %q", tt.column, tt.dir)
	}
}

func TestSortable_RejectsInjection(t *testing.T) {
	s := sortable("created_at", "name")

	for _, column := range []string{
		"name; DROP TABLE users;--",
		"name users",
		"name'--",
		"id ORDER BY 1",
		"(SELECT 1)",
		"created_at,password_hash",
	} {
		assert.Equal(t, "created_at DESC, id DESC", s.Clause(column, ""), column)
	}
	assert.Equal(t, "name DESC, id DESC", s.Clause("name", "ASC; DROP TABLE users"))
}

func TestSortable_RepositoryWhitelists(t *testing.T) {
	assert.Equal(t, "record_date DESC, id DESC", recordSort.Clause("created_at_x", ""))
	assert.Equal(t, "amount ASC, id ASC", invoiceSort.Clause("amount", "asc"))
	assert.Equal(t, "created_at DESC, id DESC", userSort.Clause("password_hash", ""))
}
