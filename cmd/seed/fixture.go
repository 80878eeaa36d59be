package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoFixture []byte

// Fixture describes one tenant worth of demo data
type Fixture struct {
	Tenant        TenantFixture         `yaml:"tenant"`
	Admin         PersonFixture         `yaml:"admin"`
	Users         []UserFixture         `yaml:"users"`
	Clients       []ClientFixture       `yaml:"clients"`
	Records       []RecordFixture       `yaml:"records"`
	Announcements []AnnouncementFixture `yaml:"announcements"`
	LeaveRequests []LeaveFixture        `yaml:"leave_requests"`
}

type TenantFixture struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

type PersonFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type UserFixture struct {
	PersonFixture `yaml:",inline"`
	Role          string `yaml:"role"`
	Position      string `yaml:"position"`
	Department    string `yaml:"department"`
	HourlyRate    string `yaml:"hourly_rate"`
}

type ClientFixture struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	ContactInfo string           `yaml:"contact_info"`
	Brands      []BrandFixture   `yaml:"brands"`
	Tasks       []TaskFixture    `yaml:"tasks"`
	Invoices    []InvoiceFixture `yaml:"invoices"`
}

type BrandFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Website     string `yaml:"website"`
	Industry    string `yaml:"industry"`
}

// TaskFixture references its brand by name and its assignee by email
type TaskFixture struct {
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Brand          string   `yaml:"brand"`
	Assignee       string   `yaml:"assignee"`
	EstimatedHours *float64 `yaml:"estimated_hours"`
	DueInDays      *int     `yaml:"due_in_days"`
}

type InvoiceFixture struct {
	Number    string `yaml:"number"`
	Amount    string `yaml:"amount"`
	DueInDays *int   `yaml:"due_in_days"`
}

type RecordFixture struct {
	Type        string `yaml:"type"`
	Amount      string `yaml:"amount"`
	Description string `yaml:"description"`
	DaysAgo     int    `yaml:"days_ago"`
}

type AnnouncementFixture struct {
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Category string `yaml:"category"`
	Pinned   bool   `yaml:"pinned"`
}

type LeaveFixture struct {
	Employee    string `yaml:"employee"`
	Type        string `yaml:"type"`
	StartInDays int    `yaml:"start_in_days"`
	Days        int    `yaml:"days"`
	Reason      string `yaml:"reason"`
}

// LoadFixture reads path, or the built-in demo data when path is empty
func LoadFixture(path string) (*Fixture, error) {
	data := demoFixture
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
		data = raw
	}
	return ParseFixture(data)
}

// ParseFixture decodes and checks a fixture. Unknown keys are rejected so
// typos do not silently drop data.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	if f.Tenant.Code == "" || f.Tenant.Name == "" {
		return fmt.Errorf("tenant name and code are required")
	}
	if f.Admin.Email == "" || f.Admin.Password == "" {
		return fmt.Errorf("admin email and password are required")
	}

	people := map[string]bool{strings.ToLower(f.Admin.Email): true}
	for _, u := range f.Users {
		email := strings.ToLower(u.Email)
		if people[email] {
			return fmt.Errorf("duplicate user email %q", u.Email)
		}
		people[email] = true
		if u.HourlyRate != "" {
			if _, err := decimal.NewFromString(u.HourlyRate); err != nil {
				return fmt.Errorf("user %s: invalid hourly_rate %q", u.Email, u.HourlyRate)
			}
		}
	}

	for _, c := range f.Clients {
		brands := make(map[string]bool, len(c.Brands))
		for _, b := range c.Brands {
			brands[b.Name] = true
		}
		for _, t := range c.Tasks {
			if t.Brand != "" && !brands[t.Brand] {
				return fmt.Errorf("task %q: brand %q is not defined for client %q", t.Title, t.Brand, c.Name)
			}
			if t.Assignee != "" && !people[strings.ToLower(t.Assignee)] {
				return fmt.Errorf("task %q: unknown assignee %q", t.Title, t.Assignee)
			}
		}
		for _, inv := range c.Invoices {
			if _, err := decimal.NewFromString(inv.Amount); err != nil {
				return fmt.Errorf("invoice %s: invalid amount %q", inv.Number, inv.Amount)
			}
		}
	}
	for _, r := range f.Records {
		if _, err := decimal.NewFromString(r.Amount); err != nil {
			return fmt.Errorf("record %q: invalid amount %q", r.Description, r.Amount)
		}
	}
	for _, l := range f.LeaveRequests {
		if !people[strings.ToLower(l.Employee)] {
			return fmt.Errorf("leave request: unknown employee %q", l.Employee)
		}
		if l.Days < 1 {
			return fmt.Errorf("leave request for %s: days must be at least 1", l.Employee)
		}
	}
	return nil
}
